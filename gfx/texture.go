// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"errors"
	"fmt"
	"image"
	"io"

	// Formats accepted by NewTexture.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	log "github.com/sirupsen/logrus"
)

// Texture owns one 2D RGBA8 texture, fully uploaded and mipmapped.
// The texture unit it is sampled from is chosen at Bind time.
type Texture struct {
	gl       GL
	handle   uint32
	width    int
	height   int
	released bool
}

// NewTexture decodes an image from r and uploads it.
func NewTexture(gl GL, r io.Reader) (*Texture, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	log.WithFields(log.Fields{
		"format": format,
		"size":   img.Bounds().Size(),
	}).Debug("texture image decoded")
	return NewTextureFromImage(gl, img)
}

// NewTextureFromImage uploads img row by row, sets clamp-to-edge wrapping
// with trilinear filtering and generates the mipmap chain.
func NewTextureFromImage(gl GL, img image.Image) (*Texture, error) {
	pixels := NRGBAPixels(img)
	width, height := pixels.Rect.Dx(), pixels.Rect.Dy()
	if width == 0 || height == 0 {
		return nil, &DecodeError{Err: errors.New("image has no pixels")}
	}

	handle := gl.GenTexture()
	if handle == 0 {
		return nil, fmt.Errorf("texture: %w", ErrAllocation)
	}
	t := &Texture{
		gl:     gl,
		handle: handle,
		width:  width,
		height: height,
	}
	t.Bind(0)

	gl.TexImage2D(Texture2D, 0, RGBA8, int32(width), int32(height), RGBA, UnsignedByte, nil)
	rowBytes := width * 4
	for y := 0; y < height; y++ {
		start := y * pixels.Stride
		gl.TexSubImage2D(Texture2D, 0, 0, int32(y), int32(width), 1, RGBA, UnsignedByte, pixels.Pix[start:start+rowBytes])
	}
	t.setParameters()

	if err := checkError(gl, "texture upload"); err != nil {
		gl.DeleteTexture(handle)
		return nil, err
	}

	watchLeak(t, "texture", handle, func(t *Texture) bool { return t.released })
	log.WithFields(log.Fields{
		"handle": handle,
		"width":  width,
		"height": height,
	}).Debug("texture uploaded")
	return t, nil
}

func (t *Texture) setParameters() {
	t.gl.TexParameteri(Texture2D, TextureWrapS, int32(ClampToEdge))
	t.gl.TexParameteri(Texture2D, TextureWrapT, int32(ClampToEdge))
	t.gl.TexParameteri(Texture2D, TextureMinFilter, int32(LinearMipmapLinear))
	t.gl.TexParameteri(Texture2D, TextureMagFilter, int32(Linear))
	t.gl.TexParameteri(Texture2D, TextureBaseLevel, 0)
	t.gl.TexParameteri(Texture2D, TextureMaxLevel, MaxMipmapLevel)
	t.gl.GenerateMipmap(Texture2D)
}

// Bind activates the texture on the given texture unit.
func (t *Texture) Bind(unit int) {
	t.gl.ActiveTexture(Texture0 + Enum(unit))
	t.gl.BindTexture(Texture2D, t.handle)
}

// Handle returns the driver handle.
func (t *Texture) Handle() uint32 {
	return t.handle
}

// Width returns the width of level 0 in pixels.
func (t *Texture) Width() int {
	return t.width
}

// Height returns the height of level 0 in pixels.
func (t *Texture) Height() int {
	return t.height
}

// Release deletes the texture.
func (t *Texture) Release() {
	if t == nil || t.released {
		return
	}
	t.gl.DeleteTexture(t.handle)
	t.released = true
	unwatchLeak(t)
	log.WithField("handle", t.handle).Debug("texture released")
}
