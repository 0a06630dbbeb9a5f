package main

import (
	"os"

	"github.com/df07/go-model-thumbnailer/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
