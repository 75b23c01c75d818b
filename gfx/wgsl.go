// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
)

// Default WGSL entry point names.
const (
	DefaultVertexEntry   = "vs_main"
	DefaultFragmentEntry = "fs_main"
)

// TranslateWGSL lowers a single entry point of a WGSL module to
// GLSL 4.10 source suitable for the core profile.
func TranslateWGSL(source, entryPoint string) (string, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return "", err
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return "", err
	}
	code, _, err := glsl.Compile(module, glsl.Options{
		LangVersion: glsl.Version410,
		EntryPoint:  entryPoint,
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// NewProgramFromWGSL translates both entry points of one WGSL module and
// builds a Program from the result. A translation failure is reported as
// a CompileError of the stage it belongs to.
func NewProgramFromWGSL(gl GL, source, vertexEntry, fragmentEntry string) (*Program, error) {
	vertex, err := TranslateWGSL(source, vertexEntry)
	if err != nil {
		return nil, &CompileError{Stage: VertexShader, Log: err.Error()}
	}
	fragment, err := TranslateWGSL(source, fragmentEntry)
	if err != nil {
		return nil, &CompileError{Stage: FragmentShader, Log: err.Error()}
	}
	return NewProgram(gl, vertex, fragment)
}
