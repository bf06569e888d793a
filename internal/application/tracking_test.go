package app

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pupil-tracker/internal/domain/entity"
	"pupil-tracker/internal/domain/port"
	"pupil-tracker/internal/infrastructure/storage"
)

type scriptedDetector struct {
	results []*entity.TrackingResult
	err     error
	sinks   []port.DebugSink
}

func (d *scriptedDetector) Track(ctx context.Context, frame image.Image, sink port.DebugSink) (*entity.TrackingResult, error) {
	d.sinks = append(d.sinks, sink)
	if d.err != nil {
		return nil, d.err
	}
	res := d.results[0]
	d.results = d.results[1:]
	return res, nil
}

type countingRecorder struct {
	observed []*entity.TrackingResult
}

func (r *countingRecorder) Observe(streamID string, res *entity.TrackingResult, elapsed time.Duration) {
	r.observed = append(r.observed, res)
}

type nopSink struct{}

func (nopSink) Image(string, image.Image)                          {}
func (nopSink) Histogram(string, *entity.Histogram, entity.Spikes) {}

type seqFactory struct {
	frames []int
}

func (f *seqFactory) ForFrame(streamID string, seq int) port.DebugSink {
	f.frames = append(f.frames, seq)
	return nopSink{}
}

var pupil = entity.Ellipse{
	Center: entity.Point2f{X: 50, Y: 50},
	Size:   entity.Size2f{Width: 40, Height: 38},
	Angle:  12,
}

func newService(det port.PupilDetector, rec port.TrackingRecorder, dbg port.DebugSinkFactory) *TrackingService {
	streams := NewStreamService(storage.NewMemoryStreamRepository())
	return NewTrackingService(streams, det, rec, dbg)
}

func TestTrackingService_ProcessFrameKeepsLastEllipse(t *testing.T) {
	det := &scriptedDetector{results: []*entity.TrackingResult{
		{Found: true, Ellipse: pupil},
		{Found: false},
	}}
	rec := &countingRecorder{}
	svc := newService(det, rec, nil)
	ctx := context.Background()
	frame := image.NewGray(image.Rect(0, 0, 4, 4))

	out, err := svc.ProcessFrame(ctx, "left", frame)
	require.NoError(t, err)
	require.True(t, out.Result.Found)
	require.Equal(t, entity.StateTracking, out.Stream.State)

	out, err = svc.ProcessFrame(ctx, "left", frame)
	require.NoError(t, err)
	require.False(t, out.Result.Found)

	want := &entity.Stream{
		ID:         "left",
		State:      entity.StateLost,
		Ellipse:    pupil,
		HasEllipse: true,
		Frames:     2,
		Found:      1,
		Misses:     1,
	}
	if diff := cmp.Diff(want, out.Stream); diff != "" {
		t.Errorf("stream mismatch (-want +got):\n%s", diff)
	}

	last, ok, err := svc.streams.LastEllipse(ctx, "left")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, pupil, last)
	require.Len(t, rec.observed, 2)
	require.Equal(t, []port.DebugSink{nil, nil}, det.sinks)
}

func TestTrackingService_DebugSinkPerFrame(t *testing.T) {
	det := &scriptedDetector{results: []*entity.TrackingResult{{}, {}, {}}}
	dbg := &seqFactory{}
	svc := newService(det, nil, dbg)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.ProcessFrame(ctx, "right", image.NewGray(image.Rect(0, 0, 2, 2)))
		require.NoError(t, err)
	}
	require.Equal(t, []int{1, 2, 3}, dbg.frames)
	require.NotNil(t, det.sinks[0])
}

func TestTrackingService_DetectorError(t *testing.T) {
	boom := errors.New("boom")
	rec := &countingRecorder{}
	svc := newService(&scriptedDetector{err: boom}, rec, nil)
	ctx := context.Background()

	_, err := svc.ProcessFrame(ctx, "left", nil)
	require.ErrorIs(t, err, boom)
	require.Equal(t, []*entity.TrackingResult{nil}, rec.observed)

	stream, err := svc.streams.Get(ctx, "left")
	require.NoError(t, err)
	require.Zero(t, stream.Frames)
}

func TestTrackingService_NoDetector(t *testing.T) {
	svc := newService(nil, nil, nil)
	_, err := svc.ProcessFrame(context.Background(), "left", nil)
	require.Error(t, err)
}

func TestTrackingService_DebugSeqAdvancesOnErrors(t *testing.T) {
	det := &scriptedDetector{results: []*entity.TrackingResult{{}, {}, {}}}
	dbg := &seqFactory{}
	svc := newService(det, nil, dbg)
	ctx := context.Background()
	frame := image.NewGray(image.Rect(0, 0, 2, 2))

	_, err := svc.ProcessFrame(ctx, "right", frame)
	require.NoError(t, err)

	det.err = errors.New("frame dropped")
	_, err = svc.ProcessFrame(ctx, "right", frame)
	require.Error(t, err)

	det.err = nil
	_, err = svc.ProcessFrame(ctx, "right", frame)
	require.NoError(t, err)
	_, err = svc.ProcessFrame(ctx, "left", frame)
	require.NoError(t, err)

	require.Equal(t, []int{1, 2, 3, 1}, dbg.frames)
}

type constantDetector struct {
	result entity.TrackingResult
}

func (d constantDetector) Track(ctx context.Context, frame image.Image, sink port.DebugSink) (*entity.TrackingResult, error) {
	res := d.result
	return &res, nil
}

func TestTrackingService_ConcurrentFramesOnOneStream(t *testing.T) {
	svc := newService(constantDetector{result: entity.TrackingResult{Found: true, Ellipse: pupil}}, nil, nil)
	ctx := context.Background()
	frame := image.NewGray(image.Rect(0, 0, 2, 2))

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ProcessFrame(ctx, "left", frame)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stream, err := svc.streams.Get(ctx, "left")
	require.NoError(t, err)
	require.Equal(t, 40, stream.Frames)
	require.Equal(t, 40, stream.Found)
}
