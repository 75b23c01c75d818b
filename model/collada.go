// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"encoding/xml"
	"errors"
	"fmt"

	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/glhost/util/collada"
)

// ErrNoGeometry is returned for documents without a triangle mesh.
var ErrNoGeometry = errors.New("collada: no triangle geometry")

// DefaultColor is assigned to imported vertices, COLLADA carries none.
var DefaultColor = glm.Vec3{1.0, 1.0, 0.0}

// ImportCollada reads given file and converts the first Collada geometry
// into a non-indexed mesh. Texture coordinates are kept when present.
func ImportCollada(fileContents []byte) (Mesh, error) {
	var doc collada.Collada
	if err := xml.Unmarshal(fileContents, &doc); err != nil {
		return Mesh{}, err
	}
	if len(doc.Geometries) == 0 {
		return Mesh{}, ErrNoGeometry
	}

	mesh := doc.Geometries[0].Mesh
	tris := mesh.Triangles
	vertexInput, ok := tris.Input(collada.SemanticVertex)
	if !ok || len(tris.Index) == 0 {
		return Mesh{}, ErrNoGeometry
	}

	positions, err := positionSource(&mesh)
	if err != nil {
		return Mesh{}, err
	}

	var uvs *collada.Source
	uvInput, withUV := tris.Input(collada.SemanticTexCoord)
	if withUV {
		src, ok := mesh.SourceByRef(uvInput.Source)
		if !ok {
			return Mesh{}, fmt.Errorf("collada: texcoord source %s not found", uvInput.Source)
		}
		uvs = &src
	}

	stride := tris.Stride()
	if len(tris.Index)%stride != 0 {
		return Mesh{}, fmt.Errorf("collada: index count %d not a multiple of %d", len(tris.Index), stride)
	}

	vertices := make([]Vertex, 0, len(tris.Index)/stride)
	for corner := 0; corner < len(tris.Index); corner += stride {
		vert := Vertex{Color: DefaultColor}

		pos, err := element(positions, tris.Index[corner+int(vertexInput.Offset)], 3)
		if err != nil {
			return Mesh{}, err
		}
		copy(vert.Pos[:], pos)

		if uvs != nil {
			uv, err := element(*uvs, tris.Index[corner+int(uvInput.Offset)], 2)
			if err != nil {
				return Mesh{}, err
			}
			copy(vert.UV[:], uv)
		}
		vertices = append(vertices, vert)
	}

	data, layout := Interleave(vertices, withUV)
	return Mesh{Vertices: data, Layout: layout}, nil
}

func positionSource(mesh *collada.Mesh) (collada.Source, error) {
	in, ok := mesh.Vertices.Input(collada.SemanticPosition)
	if !ok {
		return collada.Source{}, errors.New("collada: vertices have no POSITION input")
	}
	src, ok := mesh.SourceByRef(in.Source)
	if !ok {
		return collada.Source{}, fmt.Errorf("collada: position source %s not found", in.Source)
	}
	return src, nil
}

// element returns the idx-th element of source, width floats wide.
// The accessor stride wins over width when the document declares one.
func element(src collada.Source, idx, width int) ([]float32, error) {
	stride := src.Accessor.Stride
	switch {
	case stride == 0:
		stride = width
	case stride < width:
		return nil, fmt.Errorf("collada: accessor stride %d of %s is below %d", stride, src.ID, width)
	}
	start := idx * stride
	if idx < 0 || start+width > len(src.Floats.Data) {
		return nil, fmt.Errorf("collada: index %d out of range for %s", idx, src.ID)
	}
	return src.Floats.Data[start : start+width], nil
}
