package vision

import (
	"errors"
	"fmt"
	"image"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"pupil-tracker/internal/domain/entity"
)

// minFitPoints это число точек, которое задаёт конику.
const minFitPoints = 5

// onEllipseTolerance расстояние в пикселях, в пределах которого точка
// считается лежащей на эллипсе.
const onEllipseTolerance = 1.5

var (
	ErrTooFewPoints = errors.New("too few points for an ellipse fit")
	ErrNotEllipse   = errors.New("points do not describe an ellipse")
)

// fitEllipse подбирает эллипс по точкам прямым методом наименьших квадратов
// (Fitzgibbon, Pilu, Fisher) в блочной форме Halir и Flusser. Точки сначала
// центрируются и масштабируются, чтобы матрицы были хорошо обусловлены.
func fitEllipse(points []image.Point) (entity.Ellipse, error) {
	if len(points) < minFitPoints {
		return entity.Ellipse{}, fmt.Errorf("%w: got %d, need %d", ErrTooFewPoints, len(points), minFitPoints)
	}

	var mx, my float64
	for _, p := range points {
		mx += float64(p.X)
		my += float64(p.Y)
	}
	n := float64(len(points))
	mx, my = mx/n, my/n

	var sxx, syy, sxy float64
	for _, p := range points {
		dx, dy := float64(p.X)-mx, float64(p.Y)-my
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	spread := sxx + syy
	if spread == 0 {
		return entity.Ellipse{}, fmt.Errorf("%w: all points coincide", ErrNotEllipse)
	}
	if sxx*syy-sxy*sxy <= 1e-9*spread*spread {
		return entity.Ellipse{}, fmt.Errorf("%w: points are collinear", ErrNotEllipse)
	}
	scale := math.Sqrt(spread / (2 * n))

	// Квадратичная часть D1 = [x² xy y²] и линейная D2 = [x y 1].
	d1 := mat.NewDense(len(points), 3, nil)
	d2 := mat.NewDense(len(points), 3, nil)
	for i, p := range points {
		x := (float64(p.X) - mx) / scale
		y := (float64(p.Y) - my) / scale
		d1.SetRow(i, []float64{x * x, x * y, y * y})
		d2.SetRow(i, []float64{x, y, 1})
	}

	var s1, s2, s3 mat.Dense
	s1.Mul(d1.T(), d1)
	s2.Mul(d1.T(), d2)
	s3.Mul(d2.T(), d2)

	var s3inv mat.Dense
	if err := s3inv.Inverse(&s3); err != nil {
		return entity.Ellipse{}, fmt.Errorf("%w: %v", ErrNotEllipse, err)
	}

	// T выражает линейные коэффициенты через квадратичные.
	var tm mat.Dense
	tm.Mul(&s3inv, s2.T())
	tm.Scale(-1, &tm)

	var reduced mat.Dense
	reduced.Mul(&s2, &tm)
	reduced.Add(&s1, &reduced)

	// Умножаем слева на обратную матрицу ограничения эллипса.
	constrained := mat.NewDense(3, 3, nil)
	for j := 0; j < 3; j++ {
		constrained.Set(0, j, reduced.At(2, j)/2)
		constrained.Set(1, j, -reduced.At(1, j))
		constrained.Set(2, j, reduced.At(0, j)/2)
	}

	var eig mat.Eigen
	if !eig.Factorize(constrained, mat.EigenRight) {
		return entity.Ellipse{}, fmt.Errorf("%w: eigen decomposition failed", ErrNotEllipse)
	}
	values := eig.Values(nil)
	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	var (
		quad  []float64
		found bool
	)
	for j, v := range values {
		if math.Abs(imag(v)) > 1e-9*math.Max(1, cmplx.Abs(v)) {
			continue
		}
		a := []float64{real(vectors.At(0, j)), real(vectors.At(1, j)), real(vectors.At(2, j))}
		if 4*a[0]*a[2]-a[1]*a[1] > 0 {
			quad = a
			found = true
			break
		}
	}
	if !found {
		return entity.Ellipse{}, ErrNotEllipse
	}

	lin := mat.NewVecDense(3, nil)
	lin.MulVec(&tm, mat.NewVecDense(3, quad))

	e, err := conicToEllipse(quad[0], quad[1], quad[2], lin.AtVec(0), lin.AtVec(1), lin.AtVec(2))
	if err != nil {
		return entity.Ellipse{}, err
	}
	e.Center.X = e.Center.X*scale + mx
	e.Center.Y = e.Center.Y*scale + my
	e.Size.Width *= scale
	e.Size.Height *= scale
	return e, nil
}

// conicToEllipse переводит Ax² + Bxy + Cy² + Dx + Ey + F = 0 в центр,
// полные длины осей и угол большой оси.
func conicToEllipse(a, b, c, d, e, f float64) (entity.Ellipse, error) {
	// Коника задана с точностью до множителя. Фиксируем знак, чтобы
	// квадратичная форма была положительно определённой и угол не прыгал на 90°.
	if a+c < 0 {
		a, b, c, d, e, f = -a, -b, -c, -d, -e, -f
	}
	den := b*b - 4*a*c
	if den >= 0 {
		return entity.Ellipse{}, ErrNotEllipse
	}

	x0 := (2*c*d - b*e) / den
	y0 := (2*a*e - b*d) / den

	num := 2 * (a*e*e + c*d*d - b*d*e + den*f)
	root := math.Hypot(a-c, b)
	major := -math.Sqrt(num*(a+c+root)) / den
	minor := -math.Sqrt(num*(a+c-root)) / den
	if math.IsNaN(major) || math.IsNaN(minor) || major <= 0 || minor <= 0 {
		return entity.Ellipse{}, ErrNotEllipse
	}
	if minor > major {
		major, minor = minor, major
	}

	// 0.5*atan2(b, a-c) смотрит вдоль наибольшего роста квадратичной формы,
	// то есть вдоль малой оси.
	theta := 0.5*math.Atan2(b, a-c) + math.Pi/2
	angle := math.Mod(theta*180/math.Pi, 180)
	if angle < 0 {
		angle += 180
	}

	return entity.Ellipse{
		Center: entity.Point2f{X: x0, Y: y0},
		Size:   entity.Size2f{Width: 2 * major, Height: 2 * minor},
		Angle:  angle,
	}, nil
}

// fitConfidence возвращает долю точек ближе onEllipseTolerance к эллипсу,
// расстояние меряется по лучу из центра через точку.
func fitConfidence(points []image.Point, e entity.Ellipse) float64 {
	if len(points) == 0 {
		return 0
	}
	a, b := e.SemiAxes()
	if a <= 0 || b <= 0 {
		return 0
	}

	theta := e.Angle * math.Pi / 180
	cos, sin := math.Cos(theta), math.Sin(theta)
	inliers := 0
	for _, p := range points {
		dx := float64(p.X) - e.Center.X
		dy := float64(p.Y) - e.Center.Y
		u := dx*cos + dy*sin
		v := -dx*sin + dy*cos

		r := math.Hypot(u/a, v/b)
		var dist float64
		if r == 0 {
			dist = math.Min(a, b)
		} else {
			dist = math.Hypot(u, v) * math.Abs(1-1/r)
		}
		if dist <= onEllipseTolerance {
			inliers++
		}
	}
	return float64(inliers) / float64(len(points))
}
