package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/df07/go-model-thumbnailer/pkg/batch"
	"github.com/df07/go-model-thumbnailer/pkg/config"
	"github.com/df07/go-model-thumbnailer/pkg/core"
	"github.com/df07/go-model-thumbnailer/pkg/engine"
	"github.com/df07/go-model-thumbnailer/pkg/loaders"
)

// Exit codes
const (
	ExitOK         = 0 // Every discovered file produced a preview
	ExitUsage      = 1 // Bad arguments, flags or configuration
	ExitSomeFailed = 2 // At least one file failed
	ExitNoInputs   = 3 // Nothing matched in the input directory
)

// Version is the application version.
const Version = "0.1.0"

// Options holds the flags of the root command
type Options struct {
	ConfigPath      string
	SamplesPerPixel int
	MaxDepth        int
	Workers         int
	Margin          float64
	Extensions      []string
	UniformMaterial bool
	Quiet           bool
	NoProgress      bool
	OutputDir       string
}

// exitError carries a process exit code through cobra's error return
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

var opts Options

// newRootCmd builds the command tree; flag defaults are reset on every call
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thumbnailer <dir> [size]",
		Short: "Render a framed PNG preview beside every 3D model in a directory tree",
		Long: `Walks <dir> recursively and renders each model file (OBJ, PLY, STL, 3MF)
to <name>.png in the same directory. Every model is framed automatically from
its bounding box and lit with the same three-point studio rig.`,
		Version:       Version,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runThumbnails,
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "JSON config file; flags override its values")
	flags.IntVarP(&opts.SamplesPerPixel, "samples", "s", 0, "Samples per pixel (default from config: 32)")
	flags.IntVarP(&opts.MaxDepth, "depth", "d", 0, "Maximum ray bounce depth (default from config: 4)")
	flags.IntVarP(&opts.Workers, "workers", "w", 0, "Render goroutines, 0 for one per CPU")
	flags.Float64Var(&opts.Margin, "margin", 0, "Camera distance as a multiple of the largest model dimension (default 1.5)")
	flags.StringSliceVar(&opts.Extensions, "ext", nil, "Model file extensions to process (default .fbx,.obj,.ply,.stl,.3mf)")
	flags.BoolVar(&opts.UniformMaterial, "uniform-material", true, "Render every model with the same neutral gray")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "Only print the final summary")
	flags.BoolVar(&opts.NoProgress, "no-progress", false, "Disable the progress bar on stderr")
	flags.StringVarP(&opts.OutputDir, "output-dir", "o", "", "Accepted for compatibility; previews are always written beside the model")

	cmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	cmd.AddCommand(newSampleCmd())
	return cmd
}

// Execute runs the command line and returns the process exit code.
// Interrupts are left to the default signal handling: a batch has no
// cancellation point and stops only when the process does.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

// run executes args against a fresh command tree
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintln(stderr, "Error:", exitErr.err)
		}
		return exitErr.code
	}

	// Anything cobra itself rejected (unknown flag, wrong arg count) is a usage error
	fmt.Fprintln(stderr, "Error:", err)
	fmt.Fprintln(stderr, rootCmd.UsageString())
	return ExitUsage
}

// loadConfig builds the run configuration: defaults, then the config file, then changed flags
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if len(args) > 1 {
		size, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid size %q: must be an integer", args[1])
		}
		cfg.Size = size
	}

	flags := cmd.Flags()
	if flags.Changed("samples") {
		cfg.SamplesPerPixel = opts.SamplesPerPixel
	}
	if flags.Changed("depth") {
		cfg.MaxDepth = opts.MaxDepth
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.Workers
	}
	if flags.Changed("margin") {
		cfg.Margin = opts.Margin
	}
	if flags.Changed("ext") {
		cfg.Extensions = opts.Extensions
	}
	if flags.Changed("uniform-material") {
		cfg.UniformMaterial = opts.UniformMaterial
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// warnUnsupportedExtensions flags requested extensions that will be discovered but
// cannot be imported; those files are still counted as import failures
func warnUnsupportedExtensions(w io.Writer, exts []string) {
	for _, ext := range batch.NormalizeExtensions(exts) {
		if !loaders.IsSupported(ext) {
			fmt.Fprintf(w, "⚠️  No importer for %s files; they will fail import (supported: %s)\n",
				ext, strings.Join(loaders.SupportedExtensions(), ", "))
		}
	}
}

// runThumbnails is the root command: configure, discover, render, summarize
func runThumbnails(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return &exitError{code: ExitUsage, err: err}
	}

	info, err := os.Stat(inputDir)
	if err != nil {
		return &exitError{code: ExitUsage, err: fmt.Errorf("input directory: %w", err)}
	}
	if !info.IsDir() {
		return &exitError{code: ExitUsage, err: fmt.Errorf("input %s is not a directory", inputDir)}
	}

	logger := core.NewWriterLogger(stdout)
	if opts.Quiet {
		logger = core.NopLogger{}
	}

	if opts.OutputDir != "" {
		fmt.Fprintf(stderr, "⚠️  --output-dir is ignored: previews are written beside each model\n")
	}
	if cmd.Flags().Changed("ext") {
		warnUnsupportedExtensions(stderr, cfg.Extensions)
	}

	eng, err := engine.New(cfg.SetupPolicy(), logger)
	if err != nil {
		return &exitError{code: ExitUsage, err: err}
	}

	orchestrator := batch.NewOrchestrator(eng, logger)
	orchestrator.Planner = cfg.Planner()

	var bar *progressbar.ProgressBar
	if !opts.NoProgress {
		orchestrator.OnStart = func(total int) {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("🖼️  Rendering previews"),
				progressbar.OptionSetWriter(stderr), // Keep stdout for the log
				progressbar.OptionShowCount(),
			)
		}
		orchestrator.OnResult = func(batch.ProcessResult) {
			if bar != nil {
				bar.Add(1)
			}
		}
	}

	summary, err := orchestrator.RunDirectory(inputDir, cfg.Extensions)
	if bar != nil {
		bar.Finish()
		fmt.Fprintln(stderr)
	}
	if err != nil {
		return &exitError{code: ExitUsage, err: err}
	}

	if opts.Quiet {
		if summary.Total == 0 {
			fmt.Fprintf(stdout, "No model files found in %s\n", inputDir)
		} else {
			fmt.Fprintf(stdout, "Processed %d of %d model files successfully\n", summary.Succeeded, summary.Total)
		}
	}

	switch {
	case summary.Total == 0:
		return &exitError{code: ExitNoInputs}
	case summary.Failed() > 0:
		return &exitError{code: ExitSomeFailed}
	default:
		return nil
	}
}
