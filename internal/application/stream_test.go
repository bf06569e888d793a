package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pupil-tracker/internal/domain/entity"
	"pupil-tracker/internal/infrastructure/storage"
)

func TestStreamService_ObserveAndReset(t *testing.T) {
	svc := NewStreamService(storage.NewMemoryStreamRepository())
	ctx := context.Background()

	stream, err := svc.Observe(ctx, "left", &entity.TrackingResult{Found: true, Ellipse: pupil})
	require.NoError(t, err)
	require.Equal(t, entity.StateTracking, stream.State)

	stream, err = svc.Reset(ctx, "left")
	require.NoError(t, err)
	require.Equal(t, entity.StateSearching, stream.State)

	_, ok, err := svc.LastEllipse(ctx, "left")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStreamService_List(t *testing.T) {
	svc := NewStreamService(storage.NewMemoryStreamRepository())
	ctx := context.Background()

	_, err := svc.Observe(ctx, "right", &entity.TrackingResult{})
	require.NoError(t, err)
	_, err = svc.Observe(ctx, "left", &entity.TrackingResult{})
	require.NoError(t, err)

	streams, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, streams, 2)
	require.Equal(t, "left", streams[0].ID)
}
