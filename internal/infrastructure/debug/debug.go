// Package debug сохраняет промежуточные изображения трекера зрачка на диск.
package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"pupil-tracker/internal/domain/entity"
	"pupil-tracker/internal/domain/port"
)

// FileSinkFactory пишет артефакты всех кадров одного запуска в каталог,
// названный по случайному id запуска.
type FileSinkFactory struct {
	dir string
}

// NewFileSinkFactory создаёт каталог <root>/<run id>.
func NewFileSinkFactory(root string) (*FileSinkFactory, error) {
	dir := filepath.Join(root, uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create debug dir: %w", err)
	}
	return &FileSinkFactory{dir: dir}, nil
}

// Dir возвращает каталог запуска.
func (f *FileSinkFactory) Dir() string {
	return f.dir
}

// ForFrame возвращает sink, файлы которого начинаются с id потока и номера кадра.
func (f *FileSinkFactory) ForFrame(streamID string, seq int) port.DebugSink {
	return &FileSink{
		dir:    f.dir,
		prefix: fmt.Sprintf("%s_%06d", safeName(streamID), seq),
	}
}

// FileSink пишет PNG файлы. Ошибки записи только логируются, трекинг
// из-за них не останавливается.
type FileSink struct {
	dir    string
	prefix string
}

func (s *FileSink) Image(name string, img image.Image) {
	if err := writePNG(s.path(name), img); err != nil {
		log.Printf("debug: %v", err)
	}
}

func (s *FileSink) Histogram(name string, hist *entity.Histogram, spikes entity.Spikes) {
	if err := plotHistogram(s.path(name), hist, spikes); err != nil {
		log.Printf("debug: %v", err)
	}
}

func (s *FileSink) path(name string) string {
	return filepath.Join(s.dir, s.prefix+"_"+safeName(name)+".png")
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// plotHistogram рисует гистограмму столбцами и отмечает пики.
func plotHistogram(path string, hist *entity.Histogram, spikes entity.Spikes) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Intensity histogram (spikes %d..%d, %d bins)", spikes.Lowest, spikes.Highest, spikes.Count)
	p.X.Label.Text = "Intensity"
	p.Y.Label.Text = "Pixels"

	values := make(plotter.Values, len(hist))
	var peak float64
	for i, c := range hist {
		values[i] = float64(c)
		peak = max(peak, values[i])
	}
	bars, err := plotter.NewBarChart(values, vg.Points(1))
	if err != nil {
		return fmt.Errorf("histogram bars: %w", err)
	}
	bars.LineStyle.Width = 0
	bars.Color = color.Gray{Y: 64}
	p.Add(bars)

	for _, level := range []int{spikes.Lowest, spikes.Highest} {
		marker, err := plotter.NewLine(plotter.XYs{
			{X: float64(level), Y: 0},
			{X: float64(level), Y: peak},
		})
		if err != nil {
			return fmt.Errorf("spike marker: %w", err)
		}
		marker.LineStyle.Color = color.RGBA{R: 220, A: 255}
		p.Add(marker)
	}

	if err := p.Save(6*vg.Inch, 3*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// safeName оставляет в имени только символы, допустимые в имени файла.
func safeName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
	if s == "" {
		return "_"
	}
	return s
}

var _ port.DebugSinkFactory = (*FileSinkFactory)(nil)
