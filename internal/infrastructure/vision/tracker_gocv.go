//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"pupil-tracker/internal/domain/entity"
	"pupil-tracker/internal/domain/port"
)

const (
	// morphKernelSize диаметр эллиптического структурного элемента.
	morphKernelSize = 7
	// darkMaskDilations закрывает мелкие дыры в маске зрачка.
	darkMaskDilations = 2
	// glintMaskErosions ужимает лишнее выделение рядом с бликами.
	glintMaskErosions = 1
)

// Track переводит кадр в матрицу OpenCV и запускает TrackMat. Эллипс
// возвращается в координатах frame, для SubImage это координаты исходного
// изображения.
func (t *PupilTracker) Track(ctx context.Context, frame image.Image, sink port.DebugSink) (*entity.TrackingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if frame == nil || frame.Bounds().Empty() {
		return nil, ErrEmptyFrame
	}

	mat, err := frameToMat(frame)
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	defer mat.Close()

	res, err := t.TrackMat(mat, sink)
	if err != nil {
		return nil, err
	}
	if res.Found {
		origin := frame.Bounds().Min
		res.Ellipse.Center.X += float64(origin.X)
		res.Ellipse.Center.Y += float64(origin.Y)
	}
	return res, nil
}

// TrackMat ищет зрачок в 8-битной матрице с одним, тремя (BGR) или четырьмя
// (BGRA) каналами. Исходная матрица не меняется.
func (t *PupilTracker) TrackMat(src gocv.Mat, sink port.DebugSink) (*entity.TrackingResult, error) {
	if src.Empty() {
		return nil, ErrEmptyFrame
	}

	gray, err := normalizedGray(src)
	if err != nil {
		return nil, err
	}
	defer gray.Close()
	show(sink, "imageGray", gray)

	res := &entity.TrackingResult{
		FrameWidth:  gray.Cols(),
		FrameHeight: gray.Rows(),
	}

	hist := histogram(gray)
	res.Spikes = findSpikes(&hist)
	res.BinaryThreshold = res.Spikes.Lowest
	if sink != nil {
		sink.Histogram("histogram", &hist, res.Spikes)
	}

	darkMask, glintMask := t.buildMasks(gray, res.Spikes)
	defer darkMask.Close()
	defer glintMask.Close()
	show(sink, "darkMask", darkMask)
	show(sink, "glintMask", glintMask)

	pruned := t.extractEdges(gray, darkMask, glintMask, sink)
	defer pruned.Close()

	contours := findContours(pruned)
	merged := mergeContours(contours, t.cfg.MinContourSize)
	res.Contours = len(contours)
	res.MergedContours = merged.Merged
	res.MergedPoints = len(merged.Points)
	res.RelaxPasses = merged.Passes()
	res.MergeThreshold = merged.Threshold()
	if sink != nil {
		showContours(sink, pruned.Rows(), pruned.Cols(), contours, merged.Mergeable)
	}

	if merged.Merged == 0 {
		return res, nil
	}

	// Мало точек или вырожденный набор значит, что зрачка в кадре нет.
	ellipse, err := fitEllipse(merged.Points)
	if err != nil {
		return res, nil
	}
	res.Found = true
	res.Ellipse = ellipse
	res.Confidence = fitConfidence(merged.Points, ellipse)
	return res, nil
}

// frameToMat превращает image.Image в gocv.Mat.
func frameToMat(frame image.Image) (gocv.Mat, error) {
	packed := packedFrame(frame)
	if gray, ok := packed.(*image.Gray); ok {
		return gocv.ImageGrayToMatGray(gray)
	}
	return gocv.ImageToMatRGB(packed)
}

// normalizedGray возвращает одноканальную копию src, растянутую на [0,255].
func normalizedGray(src gocv.Mat) (gocv.Mat, error) {
	gray := gocv.NewMat()
	switch src.Channels() {
	case 1:
		src.CopyTo(&gray)
	case 3:
		gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	case 4:
		gocv.CvtColor(src, &gray, gocv.ColorBGRAToGray)
	default:
		gray.Close()
		return gocv.NewMat(), fmt.Errorf("unsupported channel count %d", src.Channels())
	}
	if gray.Type() != gocv.MatTypeCV8UC1 {
		gray.Close()
		return gocv.NewMat(), fmt.Errorf("unsupported matrix type %v, want 8-bit", src.Type())
	}

	gocv.Normalize(gray, &gray, 0, entity.HistogramBins-1, gocv.NormMinMax)
	return gray, nil
}

// histogram считает пиксели по уровням яркости, одна корзина на уровень.
func histogram(gray gocv.Mat) entity.Histogram {
	hist := gocv.NewMat()
	defer hist.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.CalcHist([]gocv.Mat{gray}, []int{0}, mask, &hist,
		[]int{entity.HistogramBins}, []float64{0, entity.HistogramBins}, false)

	var out entity.Histogram
	for i := range out {
		out[i] = int(hist.GetFloatAt(i, 0))
	}
	return out
}

// buildMasks возвращает тёмную маску (зрачок) и светлую (блик).
// Выбранные пиксели равны 255, остальные 0.
func (t *PupilTracker) buildMasks(gray gocv.Mat, spikes entity.Spikes) (gocv.Mat, gocv.Mat) {
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(morphKernelSize, morphKernelSize))
	defer kernel.Close()

	dark := selectDarkerThan(gray, spikes.Lowest+t.cfg.PupilIntensityOffset)
	for i := 0; i < darkMaskDilations; i++ {
		gocv.Dilate(dark, &dark, kernel)
	}

	glint := selectDarkerThan(gray, spikes.Highest-t.cfg.GlintIntensityOffset)
	for i := 0; i < glintMaskErosions; i++ {
		gocv.Erode(glint, &glint, kernel)
	}
	return dark, glint
}

// selectDarkerThan выбирает пиксели с яркостью в [0, upper].
func selectDarkerThan(gray gocv.Mat, upper int) gocv.Mat {
	if upper < 0 {
		return gocv.Zeros(gray.Rows(), gray.Cols(), gocv.MatTypeCV8UC1)
	}
	mask := gocv.NewMat()
	gocv.InRangeWithScalar(gray, gocv.NewScalar(0, 0, 0, 0), gocv.NewScalar(float64(upper), 0, 0, 0), &mask)
	return mask
}

// extractEdges размывает кадр, запускает Canny и оставляет только рёбра,
// попавшие в обе маски.
func (t *PupilTracker) extractEdges(gray, darkMask, glintMask gocv.Mat, sink port.DebugSink) gocv.Mat {
	blurred := gocv.NewMat()
	defer blurred.Close()
	if t.cfg.Blur > 1 {
		gocv.Blur(gray, &blurred, image.Pt(t.cfg.Blur, t.cfg.Blur))
	} else {
		gray.CopyTo(&blurred)
	}
	show(sink, "imageBlurred", blurred)

	edges := gocv.NewMat()
	defer edges.Close()
	low := float32(t.cfg.CannyThreshold)
	high := float32(t.cfg.CannyThreshold * t.cfg.CannyRatio)
	gocv.CannyWithParams(blurred, &edges, low, high, t.cfg.CannyAperture, false)
	show(sink, "edges", edges)

	pruned := gocv.NewMat()
	gocv.Min(edges, darkMask, &pruned)
	gocv.Min(pruned, glintMask, &pruned)
	show(sink, "edgesPruned", pruned)
	return pruned
}

// findContours извлекает контуры карты рёбер с двухуровневой иерархией.
// Вложенность дальше не используется.
func findContours(edges gocv.Mat) [][]image.Point {
	pv := gocv.FindContours(edges, gocv.RetrievalCComp, gocv.ChainApproxSimple)
	defer pv.Close()
	return pv.ToPoints()
}

func show(sink port.DebugSink, name string, m gocv.Mat) {
	if sink == nil {
		return
	}
	img, err := m.ToImage()
	if err != nil {
		return
	}
	sink.Image(name, img)
}

// showContours рисует все контуры и отобранные на чёрном фоне.
func showContours(sink port.DebugSink, rows, cols int, contours [][]image.Point, mergeable []bool) {
	all := gocv.Zeros(rows, cols, gocv.MatTypeCV8UC1)
	defer all.Close()
	filtered := gocv.Zeros(rows, cols, gocv.MatTypeCV8UC1)
	defer filtered.Close()

	if len(contours) > 0 {
		pv := gocv.NewPointsVectorFromPoints(contours)
		defer pv.Close()

		white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
		for i := range contours {
			gocv.DrawContours(&all, pv, i, white, 1)
			if mergeable[i] {
				gocv.DrawContours(&filtered, pv, i, white, 1)
			}
		}
	}

	show(sink, "edgesContoured", all)
	show(sink, "filteredContours", filtered)
}
