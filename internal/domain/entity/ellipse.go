package entity

import (
	"fmt"
	"image"
	"math"
)

// Point2f точка изображения с субпиксельной точностью.
type Point2f struct {
	X float64
	Y float64
}

// Size2f полные длины осей в пикселях.
type Size2f struct {
	Width  float64
	Height float64
}

// Ellipse граница зрачка в виде повёрнутого прямоугольника.
// Width меряется вдоль направления Angle, Height поперёк.
type Ellipse struct {
	Center Point2f
	Size   Size2f
	Angle  float64 // градусы, [0, 180)
}

// Centroid возвращает центр эллипса.
func (e Ellipse) Centroid() Point2f {
	return e.Center
}

// SemiAxes возвращает полуоси.
func (e Ellipse) SemiAxes() (a, b float64) {
	return e.Size.Width / 2, e.Size.Height / 2
}

// Area возвращает площадь в квадратных пикселях.
func (e Ellipse) Area() float64 {
	a, b := e.SemiAxes()
	return math.Pi * a * b
}

// BoundingRect возвращает наименьший целочисленный прямоугольник, содержащий эллипс.
func (e Ellipse) BoundingRect() image.Rectangle {
	a, b := e.SemiAxes()
	theta := e.Angle * math.Pi / 180
	cos, sin := math.Cos(theta), math.Sin(theta)
	hw := math.Sqrt(a*a*cos*cos + b*b*sin*sin)
	hh := math.Sqrt(a*a*sin*sin + b*b*cos*cos)
	return image.Rect(
		int(math.Floor(e.Center.X-hw)),
		int(math.Floor(e.Center.Y-hh)),
		int(math.Ceil(e.Center.X+hw)),
		int(math.Ceil(e.Center.Y+hh)),
	)
}

func (e Ellipse) String() string {
	return fmt.Sprintf("center=(%.1f,%.1f) axes=(%.1f,%.1f) angle=%.1f",
		e.Center.X, e.Center.Y, e.Size.Width, e.Size.Height, e.Angle)
}
