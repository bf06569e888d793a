package vision

import (
	"image"

	"golang.org/x/image/draw"
)

// packedFrame возвращает кадр как *image.Gray или *image.RGBA, у которого
// пиксели начинаются с (0,0) и строки идут без промежутков. OpenCV читает
// Pix построчно по ширине кадра и не знает про Stride и Bounds().Min.
func packedFrame(frame image.Image) image.Image {
	b := frame.Bounds()
	origin := b.Min == image.Point{}

	switch im := frame.(type) {
	case *image.Gray:
		if origin && im.Stride == b.Dx() {
			return im
		}
		dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), im, b.Min, draw.Src)
		return dst
	case *image.RGBA:
		if origin && im.Stride == 4*b.Dx() {
			return im
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), frame, b.Min, draw.Src)
	return dst
}
