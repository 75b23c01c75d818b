// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package collada decodes the geometry subset of COLLADA (.dae) documents.
package collada

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Common input semantics
const (
	SemanticVertex   = "VERTEX"
	SemanticPosition = "POSITION"
	SemanticNormal   = "NORMAL"
	SemanticTexCoord = "TEXCOORD"
)

// Collada is the top-level Collada object
type Collada struct {
	Geometries []Geometry `xml:"library_geometries>geometry"`
}

// Geometry represents Collada's geometry
type Geometry struct {
	Mesh Mesh   `xml:"mesh"`
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

// Mesh contains all the primitive data
type Mesh struct {
	Source    []Source  `xml:"source"`
	Vertices  Vertices  `xml:"vertices"`
	Triangles Triangles `xml:"triangles"`
}

// SourceByRef finds a source by id. A leading '#' as used by
// input references is accepted.
func (m *Mesh) SourceByRef(ref string) (Source, bool) {
	id := strings.TrimPrefix(ref, "#")
	for _, s := range m.Source {
		if s.ID == id {
			return s, true
		}
	}
	return Source{}, false
}

// Source holds one float array and how it is split into elements.
type Source struct {
	ID       string   `xml:"id,attr"`
	Floats   Floats   `xml:"float_array"`
	Accessor Accessor `xml:"technique_common>accessor"`
}

// Accessor describes the element layout of a source.
type Accessor struct {
	Count  int `xml:"count,attr"`
	Stride int `xml:"stride,attr"`
}

// Floats is the array of floats
type Floats struct {
	ID   string
	Data []float32
}

// UnmarshalXML unmarshals the array of floats
func (f *Floats) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		if attr.Name.Local == "id" {
			f.ID = attr.Value
		}
	}
	var raw string
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	for _, r := range strings.Fields(raw) {
		num, err := strconv.ParseFloat(r, 32)
		if err != nil {
			return err
		}
		f.Data = append(f.Data, float32(num))
	}
	return nil
}

// Vertices contains the list of vertices
type Vertices struct {
	ID     string  `xml:"id,attr"`
	Inputs []Input `xml:"input"`
}

// Input returns the input with the given semantic.
func (v *Vertices) Input(semantic string) (Input, bool) {
	return findInput(v.Inputs, semantic)
}

// Triangles contain the list of triangles
type Triangles struct {
	Count    int     `xml:"count,attr"`
	Material string  `xml:"material,attr"`
	Inputs   []Input `xml:"input"`
	Index    []int
}

// Input returns the input with the given semantic.
func (t *Triangles) Input(semantic string) (Input, bool) {
	return findInput(t.Inputs, semantic)
}

// Stride returns how many index values describe one triangle corner.
func (t *Triangles) Stride() int {
	stride := 0
	for _, in := range t.Inputs {
		if int(in.Offset)+1 > stride {
			stride = int(in.Offset) + 1
		}
	}
	return stride
}

// UnmarshalXML parses the index list
func (t *Triangles) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "count":
			num, err := strconv.Atoi(attr.Value)
			if err != nil {
				return err
			}
			t.Count = num
		case "material":
			t.Material = attr.Value
		}
	}

	for {
		token, err := d.Token()
		if err != nil {
			return err
		}

		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "input":
				var input Input
				if err := d.DecodeElement(&input, &el); err != nil {
					return err
				}
				t.Inputs = append(t.Inputs, input)
			case "p":
				var raw string
				if err := d.DecodeElement(&raw, &el); err != nil {
					return err
				}
				fields := strings.Fields(raw)
				ints := make([]int, 0, len(fields))
				for _, r := range fields {
					num, err := strconv.Atoi(r)
					if err != nil {
						return err
					}
					ints = append(ints, num)
				}
				t.Index = ints
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if el == start.End() {
				return nil
			}
		}
	}
}

// Input is Collada'a input type
type Input struct {
	Semantic string `xml:"semantic,attr"`
	Source   string `xml:"source,attr"`
	Offset   uint   `xml:"offset,attr"`
	Set      uint   `xml:"set,attr"`
}

func findInput(inputs []Input, semantic string) (Input, bool) {
	for _, in := range inputs {
		if in.Semantic == semantic {
			return in, true
		}
	}
	return Input{}, false
}
