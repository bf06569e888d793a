package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewStream_DefaultState(t *testing.T) {
	s := NewStream("left")
	require.Equal(t, StateSearching, s.State)
	require.Equal(t, "left", s.ID)
	require.False(t, s.HasEllipse)
}

func TestStream_ObserveKeepsLastEllipse(t *testing.T) {
	s := NewStream("left")
	fit := Ellipse{Center: Point2f{X: 10, Y: 20}, Size: Size2f{Width: 8, Height: 6}}

	s.Observe(&TrackingResult{Found: false})
	require.Equal(t, StateSearching, s.State)
	require.Equal(t, 1, s.Misses)

	s.Observe(&TrackingResult{Found: true, Ellipse: fit})
	require.Equal(t, StateTracking, s.State)
	require.Equal(t, fit, s.Ellipse)
	require.Equal(t, 0, s.Misses)

	s.Observe(&TrackingResult{Found: false})
	require.Equal(t, StateLost, s.State)
	require.True(t, s.HasEllipse)
	require.Equal(t, fit, s.Ellipse)
	require.Equal(t, 3, s.Frames)
	require.Equal(t, 1, s.Found)
}

func TestStream_Reset(t *testing.T) {
	s := NewStream("right")
	s.Observe(&TrackingResult{Found: true})
	s.Reset()
	require.Equal(t, NewStream("right"), s)
}
