// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"path"
	"strings"
)

// ShaderTypeOf classifies a shader file by its suffix. Both the
// "name.vert" and "name.vert.glsl" forms are accepted.
func ShaderTypeOf(name string) ShaderType {
	base := strings.TrimSuffix(path.Base(name), ".glsl")
	switch path.Ext(base) {
	case ".vert", ".vs":
		return VertexShaderType
	case ".frag", ".fs":
		return FragmentShaderType
	case ".wgsl":
		return WGSLShaderType
	}
	if strings.HasPrefix(base, "vert") {
		return VertexShaderType
	}
	if strings.HasPrefix(base, "frag") {
		return FragmentShaderType
	}
	return UnknownShaderType
}
