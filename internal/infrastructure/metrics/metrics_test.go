package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"pupil-tracker/internal/domain/entity"
)

func TestRecorder_Observe(t *testing.T) {
	r := NewRecorder()

	r.Observe("left", &entity.TrackingResult{Found: true, Confidence: 0.75, MergedPoints: 90, RelaxPasses: 1}, 3*time.Millisecond)
	r.Observe("left", &entity.TrackingResult{Found: false, RelaxPasses: 0}, time.Millisecond)
	r.Observe("left", nil, time.Millisecond)

	require.Equal(t, 1.0, testutil.ToFloat64(r.frames.WithLabelValues("left", "found")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.frames.WithLabelValues("left", "miss")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.frames.WithLabelValues("left", "error")))
	require.Equal(t, 0.75, testutil.ToFloat64(r.confidence.WithLabelValues("left")))

	n, err := testutil.GatherAndCount(r.Registry())
	require.NoError(t, err)
	require.Equal(t, 7, n)
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Observe("right", &entity.TrackingResult{Found: true, Confidence: 1}, time.Millisecond)

	path := filepath.Join(t.TempDir(), "pupil.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `pupil_frames_total{result="found",stream="right"} 1`)
	require.Contains(t, string(data), "pupil_processing_seconds_count 1")
}
