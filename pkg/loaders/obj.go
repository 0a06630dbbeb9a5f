package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-model-thumbnailer/pkg/core"
	"github.com/df07/go-model-thumbnailer/pkg/scene"
)

// LoadOBJ loads a Wavefront OBJ file. Each "o" or "g" statement starts a new object;
// faces before the first one belong to an object named after the file.
func LoadOBJ(path string) ([]*scene.Object, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	return ReadOBJ(file, objectName(path))
}

// objGroup collects the faces of one object against the file-global vertex list
type objGroup struct {
	name  string
	faces []int // Global vertex indices, 3 per triangle
}

// ReadOBJ parses OBJ data from r; defaultName names faces outside any o/g group
func ReadOBJ(r io.Reader, defaultName string) ([]*scene.Object, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var vertices []core.Vec3
	var colors []core.Vec3
	hasColors := true

	groups := []*objGroup{{name: defaultName}}
	current := groups[0]

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: vertex needs 3 coordinates", ErrMalformed, lineNum)
			}
			values, err := parseFloats(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNum, err)
			}
			vertices = append(vertices, core.NewVec3(values[0], values[1], values[2]))
			// "v x y z r g b" is a common extension; colors only count if every vertex has one
			if len(values) >= 6 {
				colors = append(colors, core.NewVec3(values[3], values[4], values[5]).Clamp(0, 1))
			} else {
				hasColors = false
			}
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: face needs at least 3 vertices", ErrMalformed, lineNum)
			}
			polygon := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				index, err := parseOBJIndex(ref, len(vertices))
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNum, err)
				}
				polygon = append(polygon, index)
			}
			for k := 1; k+1 < len(polygon); k++ {
				current.faces = append(current.faces, polygon[0], polygon[k], polygon[k+1])
			}
		case "o", "g":
			name := defaultName
			if len(fields) > 1 {
				name = strings.Join(fields[1:], " ")
			}
			// Reuse the current group while it is still empty, so "o" followed by "g" is one object
			if len(current.faces) == 0 && current != groups[0] {
				current.name = name
				continue
			}
			current = &objGroup{name: name}
			groups = append(groups, current)
		default:
			// vt, vn, usemtl, mtllib, s, l and others do not affect framing
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ data: %w", err)
	}
	if len(vertices) == 0 || len(colors) != len(vertices) {
		hasColors = false
	}

	var objects []*scene.Object
	for _, group := range groups {
		if len(group.faces) == 0 {
			continue
		}
		objects = append(objects, group.toObject(vertices, colors, hasColors))
	}

	// A file with vertices and no faces still imports, as a point cloud without geometry
	if len(objects) == 0 && len(vertices) > 0 {
		objects = append(objects, scene.NewMeshObject(defaultName, vertices, nil, core.Identity()))
	}
	return objects, nil
}

// toObject remaps the group's global indices onto its own compact vertex list
func (g *objGroup) toObject(vertices, colors []core.Vec3, hasColors bool) *scene.Object {
	remap := make(map[int]int)
	local := make([]core.Vec3, 0)
	faces := make([]int, len(g.faces))
	colorSum := core.Vec3{}

	for i, global := range g.faces {
		index, ok := remap[global]
		if !ok {
			index = len(local)
			remap[global] = index
			local = append(local, vertices[global])
			if hasColors {
				colorSum = colorSum.Add(colors[global])
			}
		}
		faces[i] = index
	}

	obj := scene.NewMeshObject(g.name, local, faces, core.Identity())
	if hasColors && len(local) > 0 {
		avg := colorSum.Multiply(1.0 / float64(len(local)))
		obj.Color = &avg
	}
	return obj
}

// parseOBJIndex resolves the vertex part of a "v", "v/vt", "v//vn" or "v/vt/vn" reference.
// Negative indices count back from the most recent vertex.
func parseOBJIndex(ref string, vertexCount int) (int, error) {
	if slash := strings.IndexByte(ref, '/'); slash >= 0 {
		ref = ref[:slash]
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("invalid face index %q", ref)
	}

	var index int
	switch {
	case n > 0:
		index = n - 1
	case n < 0:
		index = vertexCount + n
	default:
		return 0, fmt.Errorf("face index 0 is not valid")
	}
	if index < 0 || index >= vertexCount {
		return 0, fmt.Errorf("face index %d out of range (%d vertices)", n, vertexCount)
	}
	return index, nil
}

// parseFloats parses every field as a float64
func parseFloats(fields []string) ([]float64, error) {
	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", field)
		}
		values[i] = v
	}
	return values, nil
}
