package loaders

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-model-thumbnailer/pkg/core"
	"github.com/df07/go-model-thumbnailer/pkg/scene"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50 // normal, 3 vertices, attribute byte count
)

// LoadSTL loads a binary or ASCII STL file as a single object.
// Binary files are recognised by their size matching the triangle count in the header.
func LoadSTL(path string) ([]*scene.Object, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open STL file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat STL file: %w", err)
	}

	reader := bufio.NewReaderSize(file, 1024*1024)
	var vertices []core.Vec3
	if isBinarySTL(reader, info.Size()) {
		vertices, err = readBinarySTL(reader)
	} else {
		vertices, err = readASCIISTL(reader)
	}
	if err != nil {
		return nil, err
	}

	faces := make([]int, len(vertices))
	for i := range faces {
		faces[i] = i
	}
	return []*scene.Object{scene.NewMeshObject(objectName(path), vertices, faces, core.Identity())}, nil
}

// isBinarySTL peeks at the header; many binary exporters also start with "solid",
// so the size check decides
func isBinarySTL(reader *bufio.Reader, size int64) bool {
	head, err := reader.Peek(stlHeaderSize + 4)
	if err != nil {
		return false
	}
	count := int64(binary.LittleEndian.Uint32(head[stlHeaderSize:]))
	if size == stlHeaderSize+4+count*stlTriangleSize {
		return true
	}
	return !bytes.HasPrefix(bytes.TrimSpace(head[:stlHeaderSize]), []byte("solid"))
}

// readBinarySTL reads the triangle records, skipping the facet normals
func readBinarySTL(reader *bufio.Reader) ([]core.Vec3, error) {
	header := make([]byte, stlHeaderSize+4)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("%w: truncated STL header", ErrMalformed)
	}
	count := int(binary.LittleEndian.Uint32(header[stlHeaderSize:]))

	vertices := make([]core.Vec3, 0, min(count, 1<<20)*3)
	record := make([]byte, stlTriangleSize)
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(reader, record); err != nil {
			return nil, fmt.Errorf("%w: triangle %d: %v", ErrMalformed, i, err)
		}
		for v := 0; v < 3; v++ {
			offset := 12 + v*12
			vertices = append(vertices, core.NewVec3(
				float64(math.Float32frombits(binary.LittleEndian.Uint32(record[offset:]))),
				float64(math.Float32frombits(binary.LittleEndian.Uint32(record[offset+4:]))),
				float64(math.Float32frombits(binary.LittleEndian.Uint32(record[offset+8:]))),
			))
		}
	}
	return vertices, nil
}

// readASCIISTL reads "vertex x y z" lines; every three make a triangle
func readASCIISTL(r io.Reader) ([]core.Vec3, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var vertices []core.Vec3
	sawSolid := false
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "solid":
			sawSolid = true
		case "vertex":
			if len(fields) != 4 {
				return nil, fmt.Errorf("%w: line %d: vertex needs 3 coordinates", ErrMalformed, lineNum)
			}
			var p [3]float64
			for i := range p {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: invalid number %q", ErrMalformed, lineNum, fields[i+1])
				}
				p[i] = v
			}
			vertices = append(vertices, core.NewVec3(p[0], p[1], p[2]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read STL data: %w", err)
	}
	if !sawSolid {
		return nil, fmt.Errorf("%w: not an STL file", ErrMalformed)
	}
	if len(vertices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d vertices is not a whole number of triangles", ErrMalformed, len(vertices))
	}
	return vertices, nil
}
