package entity

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEllipseCentroid(t *testing.T) {
	e := Ellipse{Center: Point2f{X: 14.5, Y: 23.25}}
	require.Equal(t, Point2f{X: 14.5, Y: 23.25}, e.Centroid())
}

func TestEllipseBoundingRect(t *testing.T) {
	e := Ellipse{Center: Point2f{X: 50, Y: 40}, Size: Size2f{Width: 20, Height: 10}}
	require.Equal(t, image.Rect(40, 35, 60, 45), e.BoundingRect())

	e.Angle = 90
	require.Equal(t, image.Rect(45, 30, 55, 50), e.BoundingRect())
}

func TestEllipseArea(t *testing.T) {
	e := Ellipse{Size: Size2f{Width: 4, Height: 2}}
	require.InDelta(t, 2*math.Pi, e.Area(), 1e-9)
}

func TestTrackerConfigValidate(t *testing.T) {
	require.NoError(t, DefaultTrackerConfig().Validate())

	cfg := DefaultTrackerConfig()
	cfg.CannyAperture = 4
	require.Error(t, cfg.Validate())

	cfg = DefaultTrackerConfig()
	cfg.CannyRatio = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultTrackerConfig()
	cfg.GlintIntensityOffset = 300
	require.Error(t, cfg.Validate())

	cfg = DefaultTrackerConfig()
	cfg.MinContourSize = -1
	require.Error(t, cfg.Validate())
}
