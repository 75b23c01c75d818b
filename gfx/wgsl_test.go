// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx_test

import (
	"errors"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/glhost/gfx"
	"github.com/devblok/glhost/gfx/gltest"
)

const coloredTriangle = `
struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
}

@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> VertexOutput {
    var out: VertexOutput;
    var pos = array<vec2<f32>, 3>(
        vec2<f32>(0.0, 0.5),
        vec2<f32>(-0.5, -0.5),
        vec2<f32>(0.5, -0.5)
    );
    out.position = vec4<f32>(pos[idx], 0.0, 1.0);
    out.color = vec4<f32>(1.0, 0.0, 0.0, 1.0);
    return out;
}

@fragment
fn fs_main(@location(0) color: vec4<f32>) -> @location(0) vec4<f32> {
    return color;
}
`

func TestTranslateWGSL(t *testing.T) {
	c := qt.New(t)

	vertex, err := gfx.TranslateWGSL(coloredTriangle, gfx.DefaultVertexEntry)
	c.Assert(err, qt.IsNil)
	c.Assert(strings.Contains(vertex, "410"), qt.IsTrue)
	c.Assert(strings.Contains(vertex, "main"), qt.IsTrue)
}

func TestNewProgramFromWGSL(t *testing.T) {
	c := qt.New(t)
	rec := gltest.New()

	p, err := gfx.NewProgramFromWGSL(rec, coloredTriangle, gfx.DefaultVertexEntry, gfx.DefaultFragmentEntry)
	c.Assert(err, qt.IsNil)
	defer p.Release()
	c.Assert(rec.Count("ShaderSource"), qt.Equals, 2)
}

func TestNewProgramFromBrokenWGSL(t *testing.T) {
	c := qt.New(t)
	rec := gltest.New()

	_, err := gfx.NewProgramFromWGSL(rec, "fn broken( {", gfx.DefaultVertexEntry, gfx.DefaultFragmentEntry)
	var compileErr *gfx.CompileError
	c.Assert(errors.As(err, &compileErr), qt.IsTrue)
	c.Assert(compileErr.Stage, qt.Equals, gfx.VertexShader)
	c.Assert(rec.Calls, qt.HasLen, 0)
}
