package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-model-thumbnailer/pkg/core"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string // Usually "1.0"
	Elements []PLYElement
}

// PLYElement is one element block of the body, in file order
type PLYElement struct {
	Name  string
	Count int
	Props []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the geometry loaded from a PLY file
type PLYData struct {
	Vertices []core.Vec3 // Vertex positions (x, y, z)
	Faces    []int       // Triangle indices (3 per triangle), polygons are fan triangulated
	Colors   []core.Vec3 // Per-vertex colors normalized to [0,1] - empty if not present
}

// element returns the named element, or nil
func (h *PLYHeader) element(name string) *PLYElement {
	for i := range h.Elements {
		if h.Elements[i].Name == name {
			return &h.Elements[i]
		}
	}
	return nil
}

// LoadPLY loads a PLY file and returns its vertex and face data
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	return ReadPLY(file)
}

// ReadPLY parses PLY data from r
func ReadPLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReaderSize(r, 1024*1024) // 1MB buffer

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values plyValueReader
	switch header.Format {
	case "binary_little_endian":
		values = &binaryPLYReader{r: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryPLYReader{r: reader, order: binary.BigEndian}
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		scanner.Split(bufio.ScanWords)
		values = &asciiPLYReader{scanner: scanner}
	default:
		return nil, fmt.Errorf("%w: unsupported PLY format %q", ErrMalformed, header.Format)
	}

	data, err := readPLYBody(header, values)
	if err != nil {
		return nil, fmt.Errorf("failed to read PLY data: %w", err)
	}
	return data, nil
}

// parsePLYHeader parses the header up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("%w: missing ply magic", ErrMalformed)
	}

	var current *PLYElement
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: header ended before end_header", ErrMalformed)
		}
		line = strings.TrimSpace(line)
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: invalid format line %q", ErrMalformed, line)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: invalid element line %q", ErrMalformed, line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: invalid element count: %s", ErrMalformed, parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
			current = &header.Elements[len(header.Elements)-1]
		case "property":
			if current == nil {
				return nil, fmt.Errorf("%w: property before any element", ErrMalformed)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			current.Props = append(current.Props, prop)
		default:
			return nil, fmt.Errorf("%w: unknown header keyword %q", ErrMalformed, parts[0])
		}
	}

	if header.Format == "" {
		return nil, fmt.Errorf("%w: missing format line", ErrMalformed)
	}
	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("%w: invalid property definition", ErrMalformed)
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("%w: invalid list property definition", ErrMalformed)
		}
		if getTypeSize(parts[1]) == 0 || getTypeSize(parts[2]) == 0 {
			return PLYProperty{}, fmt.Errorf("%w: unsupported list types %s %s", ErrMalformed, parts[1], parts[2])
		}
		return PLYProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}, nil
	}

	if getTypeSize(parts[0]) == 0 {
		return PLYProperty{}, fmt.Errorf("%w: unsupported data type %s", ErrMalformed, parts[0])
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

// getTypeSize returns the size in bytes of a PLY data type, 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

// colorScale returns the divisor that maps a color channel of dataType to [0,1]
func colorScale(dataType string) float64 {
	switch dataType {
	case "uchar", "uint8", "char", "int8":
		return 255
	case "ushort", "uint16", "short", "int16":
		return 65535
	default:
		return 1
	}
}

// plyValueReader reads one scalar of the given PLY type from the body
type plyValueReader interface {
	readValue(dataType string) (float64, error)
}

// binaryPLYReader decodes fixed-size binary scalars
type binaryPLYReader struct {
	r     *bufio.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryPLYReader) readValue(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("%w: unsupported data type: %s", ErrMalformed, dataType)
	}
	if _, err := io.ReadFull(b.r, b.buf[:size]); err != nil {
		return 0, fmt.Errorf("%w: truncated body: %v", ErrMalformed, err)
	}
	raw := b.buf[:size]

	switch dataType {
	case "char", "int8":
		return float64(int8(raw[0])), nil
	case "uchar", "uint8":
		return float64(raw[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(raw))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(raw)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(raw))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(raw)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(raw))), nil
	default:
		return math.Float64frombits(b.order.Uint64(raw)), nil
	}
}

// asciiPLYReader reads whitespace separated scalars
type asciiPLYReader struct {
	scanner *bufio.Scanner
}

func (a *asciiPLYReader) readValue(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("%w: truncated body", ErrMalformed)
	}
	value, err := strconv.ParseFloat(a.scanner.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s value %q", ErrMalformed, dataType, a.scanner.Text())
	}
	return value, nil
}

// readPLYBody reads all elements in header order, keeping vertices, colors and faces
func readPLYBody(header *PLYHeader, values plyValueReader) (*PLYData, error) {
	vertexElement := header.element("vertex")
	if vertexElement == nil {
		return nil, fmt.Errorf("%w: no vertex element", ErrMalformed)
	}

	positionIndex := [3]int{-1, -1, -1}
	colorIndex := [3]int{-1, -1, -1}
	for i, prop := range vertexElement.Props {
		switch prop.Name {
		case "x":
			positionIndex[0] = i
		case "y":
			positionIndex[1] = i
		case "z":
			positionIndex[2] = i
		case "red", "r", "diffuse_red":
			colorIndex[0] = i
		case "green", "g", "diffuse_green":
			colorIndex[1] = i
		case "blue", "b", "diffuse_blue":
			colorIndex[2] = i
		}
	}
	if positionIndex[0] < 0 || positionIndex[1] < 0 || positionIndex[2] < 0 {
		return nil, fmt.Errorf("%w: vertex element lacks x, y, z", ErrMalformed)
	}
	hasColors := colorIndex[0] >= 0 && colorIndex[1] >= 0 && colorIndex[2] >= 0

	// Cap preallocation so a lying header cannot force a huge allocation
	capacity := min(vertexElement.Count, 1<<20)
	data := &PLYData{Vertices: make([]core.Vec3, 0, capacity)}
	if hasColors {
		data.Colors = make([]core.Vec3, 0, capacity)
	}

	scalars := make([]float64, len(vertexElement.Props))
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			for i := 0; i < element.Count; i++ {
				if err := readScalarProps(values, element.Props, scalars); err != nil {
					return nil, fmt.Errorf("vertex %d: %w", i, err)
				}
				data.Vertices = append(data.Vertices, core.NewVec3(
					scalars[positionIndex[0]], scalars[positionIndex[1]], scalars[positionIndex[2]]))
				if hasColors {
					data.Colors = append(data.Colors, core.NewVec3(
						scalars[colorIndex[0]]/colorScale(element.Props[colorIndex[0]].Type),
						scalars[colorIndex[1]]/colorScale(element.Props[colorIndex[1]].Type),
						scalars[colorIndex[2]]/colorScale(element.Props[colorIndex[2]].Type),
					).Clamp(0, 1))
				}
			}
		case "face":
			if err := readPLYFaces(element, values, vertexElement.Count, data); err != nil {
				return nil, err
			}
		default:
			if err := skipPLYElement(element, values); err != nil {
				return nil, fmt.Errorf("element %s: %w", element.Name, err)
			}
		}
	}

	return data, nil
}

// readScalarProps reads one element instance; list properties are read and discarded
func readScalarProps(values plyValueReader, props []PLYProperty, scalars []float64) error {
	for j, prop := range props {
		if prop.IsList {
			if _, err := readPLYList(values, prop); err != nil {
				return err
			}
			continue
		}
		value, err := values.readValue(prop.Type)
		if err != nil {
			return err
		}
		scalars[j] = value
	}
	return nil
}

// readPLYList reads a list property and returns its items
func readPLYList(values plyValueReader, prop PLYProperty) ([]float64, error) {
	count, err := values.readValue(prop.ListType)
	if err != nil {
		return nil, err
	}
	if count < 0 || count > 1<<16 {
		return nil, fmt.Errorf("%w: invalid list length %v", ErrMalformed, count)
	}
	items := make([]float64, int(count))
	for i := range items {
		if items[i], err = values.readValue(prop.DataType); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// readPLYFaces reads polygon faces and fan triangulates them into data.Faces
func readPLYFaces(element PLYElement, values plyValueReader, vertexCount int, data *PLYData) error {
	data.Faces = make([]int, 0, min(element.Count, 1<<20)*3)

	for i := 0; i < element.Count; i++ {
		var polygon []float64
		for _, prop := range element.Props {
			if prop.IsList {
				items, err := readPLYList(values, prop)
				if err != nil {
					return fmt.Errorf("face %d: %w", i, err)
				}
				if prop.Name == "vertex_indices" || prop.Name == "vertex_index" {
					polygon = items
				}
				continue
			}
			if _, err := values.readValue(prop.Type); err != nil {
				return fmt.Errorf("face %d: %w", i, err)
			}
		}

		for _, index := range polygon {
			if index < 0 || int(index) >= vertexCount {
				return fmt.Errorf("%w: face %d index %v out of range (%d vertices)", ErrMalformed, i, index, vertexCount)
			}
		}
		// Fan triangulation: (0, k, k+1)
		for k := 1; k+1 < len(polygon); k++ {
			data.Faces = append(data.Faces, int(polygon[0]), int(polygon[k]), int(polygon[k+1]))
		}
	}
	return nil
}

// skipPLYElement reads and discards every instance of an element
func skipPLYElement(element PLYElement, values plyValueReader) error {
	scalars := make([]float64, len(element.Props))
	for i := 0; i < element.Count; i++ {
		if err := readScalarProps(values, element.Props, scalars); err != nil {
			return err
		}
	}
	return nil
}

// AverageColor returns the mean vertex color, or nil when there are no colors
func (d *PLYData) AverageColor() *core.Vec3 {
	if len(d.Colors) == 0 {
		return nil
	}
	sum := core.Vec3{}
	for _, c := range d.Colors {
		sum = sum.Add(c)
	}
	avg := sum.Multiply(1.0 / float64(len(d.Colors)))
	return &avg
}
