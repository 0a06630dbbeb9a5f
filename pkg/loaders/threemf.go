package loaders

import (
	"fmt"

	"github.com/hpinc/go3mf"

	"github.com/df07/go-model-thumbnailer/pkg/core"
	"github.com/df07/go-model-thumbnailer/pkg/scene"
)

// maxComponentDepth bounds component nesting so a cyclic file cannot recurse forever
const maxComponentDepth = 16

// Load3MF loads every build item of a 3MF package. Each mesh reached through an item,
// directly or through components, becomes one object carrying the composed transform.
func Load3MF(path string) ([]*scene.Object, error) {
	reader, err := go3mf.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open 3MF package: %v", ErrMalformed, err)
	}
	defer reader.Close()

	var model go3mf.Model
	if err := reader.Decode(&model); err != nil {
		return nil, fmt.Errorf("%w: failed to decode 3MF model: %v", ErrMalformed, err)
	}

	var objects []*scene.Object
	for i, item := range model.Build.Items {
		obj, ok := model.FindObject(item.ObjectPath(), item.ObjectID)
		if !ok {
			return nil, fmt.Errorf("%w: build item %d references missing object %d", ErrMalformed, i, item.ObjectID)
		}
		objects, err = appendThreeMFObject(objects, &model, item.ObjectPath(), obj, convertMatrix(item.Transform), 0)
		if err != nil {
			return nil, err
		}
	}
	return objects, nil
}

// appendThreeMFObject flattens obj into scene objects under the given world transform
func appendThreeMFObject(objects []*scene.Object, model *go3mf.Model, path string, obj *go3mf.Object, toWorld core.Mat4, depth int) ([]*scene.Object, error) {
	if depth > maxComponentDepth {
		return nil, fmt.Errorf("%w: components nested deeper than %d", ErrMalformed, maxComponentDepth)
	}

	if obj.Mesh != nil {
		vertices := make([]core.Vec3, len(obj.Mesh.Vertices.Vertex))
		for i, v := range obj.Mesh.Vertices.Vertex {
			vertices[i] = core.NewVec3(float64(v[0]), float64(v[1]), float64(v[2]))
		}

		faces := make([]int, 0, len(obj.Mesh.Triangles.Triangle)*3)
		for i, t := range obj.Mesh.Triangles.Triangle {
			for _, index := range [3]uint32{t.V1, t.V2, t.V3} {
				if int(index) >= len(vertices) {
					return nil, fmt.Errorf("%w: object %d triangle %d index %d out of range", ErrMalformed, obj.ID, i, index)
				}
				faces = append(faces, int(index))
			}
		}

		name := obj.Name
		if name == "" {
			name = fmt.Sprintf("object_%d", obj.ID)
		}
		objects = append(objects, scene.NewMeshObject(name, vertices, faces, toWorld))
	}

	if obj.Components != nil {
		for _, component := range obj.Components.Component {
			child, ok := model.FindObject(path, component.ObjectID)
			if !ok {
				return nil, fmt.Errorf("%w: component references missing object %d", ErrMalformed, component.ObjectID)
			}
			var err error
			objects, err = appendThreeMFObject(objects, model, path, child, toWorld.Mul(convertMatrix(component.Transform)), depth+1)
			if err != nil {
				return nil, err
			}
		}
	}

	return objects, nil
}

// convertMatrix turns a 3MF row-vector matrix (translation in elements 12-14) into
// a column-vector Mat4. An unset transform decodes as all zeros and means identity.
func convertMatrix(m go3mf.Matrix) core.Mat4 {
	if m == (go3mf.Matrix{}) {
		return core.Identity()
	}
	var out core.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] = float64(m[c*4+r])
		}
	}
	return out
}
