package samples

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/hpinc/go3mf"
)

// WriteSTL writes a binary STL
func WriteSTL(path string, m *Mesh) error {
	return writeFile(path, func(w *bufio.Writer) error {
		header := make([]byte, 80)
		copy(header, "model thumbnailer sample "+m.Name)
		if _, err := w.Write(header); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(m.TriangleCount())); err != nil {
			return err
		}
		for t := 0; t < m.TriangleCount(); t++ {
			n := faceNormal(m, t)
			record := []float32{float32(n.X), float32(n.Y), float32(n.Z)}
			for j := 0; j < 3; j++ {
				v := m.Vertices[m.Faces[t*3+j]]
				record = append(record, float32(v.X), float32(v.Y), float32(v.Z))
			}
			if err := binary.Write(w, binary.LittleEndian, record); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteOBJ writes a Wavefront OBJ with one named object
func WriteOBJ(path string, m *Mesh) error {
	return writeFile(path, func(w *bufio.Writer) error {
		fmt.Fprintf(w, "# model thumbnailer sample\no %s\n", m.Name)
		for _, v := range m.Vertices {
			fmt.Fprintf(w, "v %g %g %g\n", v.X, v.Y, v.Z)
		}
		for t := 0; t < m.TriangleCount(); t++ {
			fmt.Fprintf(w, "f %d %d %d\n", m.Faces[t*3]+1, m.Faces[t*3+1]+1, m.Faces[t*3+2]+1)
		}
		return nil
	})
}

// WritePLY writes a binary little-endian PLY with float positions and int indices
func WritePLY(path string, m *Mesh) error {
	return writeFile(path, func(w *bufio.Writer) error {
		fmt.Fprintf(w, "ply\nformat binary_little_endian 1.0\ncomment %s\n", m.Name)
		fmt.Fprintf(w, "element vertex %d\nproperty float x\nproperty float y\nproperty float z\n", len(m.Vertices))
		fmt.Fprintf(w, "element face %d\nproperty list uchar int vertex_indices\nend_header\n", m.TriangleCount())

		for _, v := range m.Vertices {
			if err := binary.Write(w, binary.LittleEndian, [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}); err != nil {
				return err
			}
		}
		for t := 0; t < m.TriangleCount(); t++ {
			if err := w.WriteByte(3); err != nil {
				return err
			}
			face := [3]int32{int32(m.Faces[t*3]), int32(m.Faces[t*3+1]), int32(m.Faces[t*3+2])}
			if err := binary.Write(w, binary.LittleEndian, face); err != nil {
				return err
			}
		}
		return nil
	})
}

// Write3MF writes a 3MF package with a single build item
func Write3MF(path string, m *Mesh) error {
	mesh := new(go3mf.Mesh)
	mesh.Vertices.Vertex = make([]go3mf.Point3D, len(m.Vertices))
	for i, v := range m.Vertices {
		mesh.Vertices.Vertex[i] = go3mf.Point3D{float32(v.X), float32(v.Y), float32(v.Z)}
	}
	mesh.Triangles.Triangle = make([]go3mf.Triangle, m.TriangleCount())
	for t := range mesh.Triangles.Triangle {
		mesh.Triangles.Triangle[t] = go3mf.Triangle{
			V1: uint32(m.Faces[t*3]),
			V2: uint32(m.Faces[t*3+1]),
			V3: uint32(m.Faces[t*3+2]),
		}
	}

	model := go3mf.Model{Units: go3mf.UnitMillimeter}
	model.Resources.Objects = append(model.Resources.Objects, &go3mf.Object{
		ID:   1,
		Name: m.Name,
		Type: go3mf.ObjectTypeModel,
		Mesh: mesh,
	})
	model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: 1})

	w, err := go3mf.CreateWriter(path)
	if err != nil {
		return err
	}
	if err := w.Encode(&model); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// writeFile creates path and hands a buffered writer to body
func writeFile(path string, body func(*bufio.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	if err := body(w); err != nil {
		file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
