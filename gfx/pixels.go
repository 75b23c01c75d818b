// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"image"

	"golang.org/x/image/draw"
)

// NRGBAPixels returns img as tightly packed 8-bit straight-alpha RGBA with
// its origin at (0, 0). Images already in that layout are returned as is;
// anything else is drawn onto a fresh canvas.
func NRGBAPixels(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if nrgba, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && nrgba.Stride == 4*b.Dx() {
		return nrgba
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Src)
	return canvas
}
