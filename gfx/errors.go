// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"errors"
	"fmt"
)

// ErrAllocation is returned when the driver hands out a zero handle.
var ErrAllocation = errors.New("gpu allocation failed")

// CompileError reports a shader stage that failed to compile,
// together with the driver's info log.
type CompileError struct {
	Stage Enum
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader compilation failed: %s", StageName(e.Stage), e.Log)
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "shader linking failed: " + e.Log
}

// DecodeError wraps an image decoder failure.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "texture decode failed: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DriverError is a non-zero value reported by GetError after an operation.
type DriverError struct {
	Op   string
	Code Enum
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%s: driver error %s", e.Op, errorName(e.Code))
}

// StageName returns a readable name for a shader stage.
func StageName(stage Enum) string {
	switch stage {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	}
	return fmt.Sprintf("stage(0x%X)", uint32(stage))
}

func errorName(code Enum) string {
	switch code {
	case InvalidEnum:
		return "GL_INVALID_ENUM"
	case InvalidValue:
		return "GL_INVALID_VALUE"
	case InvalidOperation:
		return "GL_INVALID_OPERATION"
	case OutOfMemory:
		return "GL_OUT_OF_MEMORY"
	case InvalidFramebufferOp:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	}
	return fmt.Sprintf("0x%X", uint32(code))
}

// maxErrorFlags bounds how many queued error flags checkError drains.
const maxErrorFlags = 8

// checkError drains the driver error flags and reports the first one.
func checkError(gl GL, op string) error {
	var first Enum
	for i := 0; i < maxErrorFlags; i++ {
		code := gl.GetError()
		if code == NoError {
			break
		}
		if first == NoError {
			first = code
		}
	}
	if first != NoError {
		return &DriverError{Op: op, Code: first}
	}
	return nil
}
