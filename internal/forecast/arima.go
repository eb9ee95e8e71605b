// internal/forecast/arima.go
//
// ARIMA(2,d,2), fitted with the Hannan-Rissanen two-stage least squares
// procedure. Only reached for series with 60+ days of history; any
// fitting or prediction failure falls back to the moving average, which
// the selector handles.
package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/kiranalabs/restock/internal/domain"
)

const (
	arimaP = 2
	arimaQ = 2
	// Critical value for the unit-root t-statistic at the 5% level
	// (Dickey-Fuller, with constant).
	adfCritical = -2.86
)

type arimaModel struct {
	d         int
	intercept float64
	phi       [arimaP]float64
	theta     [arimaQ]float64
	sigma2    float64

	// tail state needed to start the forecast recursion
	w     []float64 // differenced series
	resid []float64 // in-sample residuals, aligned with w
}

// ArimaForecast fits ARIMA(2,d,2) on the zero-filled series and produces
// point forecasts with a 95% prediction interval per horizon day, floored
// at zero on the point and lower bound.
func ArimaForecast(s Series, horizon int) ([]domain.ForecastPoint, error) {
	m, err := fitARIMA(s.Units)
	if err != nil {
		return nil, err
	}
	return m.forecast(s, horizon)
}

func fitARIMA(units []float64) (*arimaModel, error) {
	d := differencingOrder(units)

	w := units
	if d > 0 {
		w = difference(units, d)
	}
	if len(w) < 20 {
		return nil, fmt.Errorf("series too short after differencing: %d", len(w))
	}

	// Stage 1: long autoregression to estimate the innovation sequence.
	p0 := len(w) / 4
	if p0 > 10 {
		p0 = 10
	}
	if p0 < arimaP+arimaQ {
		p0 = arimaP + arimaQ
	}

	arCoef, err := olsAR(w, p0)
	if err != nil {
		return nil, err
	}

	resid := make([]float64, len(w))
	for t := p0; t < len(w); t++ {
		pred := arCoef[0]
		for j := 0; j < p0; j++ {
			pred += arCoef[j+1] * w[t-1-j]
		}
		resid[t] = w[t] - pred
	}

	// Stage 2: regress w_t on its own lags and the lagged residuals.
	start := p0 + arimaQ
	rows := len(w) - start
	if rows <= arimaP+arimaQ+1 {
		return nil, fmt.Errorf("not enough observations for ARMA regression")
	}

	X := mat.NewDense(rows, 1+arimaP+arimaQ, nil)
	y := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		t := start + i
		X.Set(i, 0, 1)
		for j := 0; j < arimaP; j++ {
			X.Set(i, 1+j, w[t-1-j])
		}
		for j := 0; j < arimaQ; j++ {
			X.Set(i, 1+arimaP+j, resid[t-1-j])
		}
		y.SetVec(i, w[t])
	}

	coef, err := solveOLS(X, y)
	if err != nil {
		return nil, err
	}

	m := &arimaModel{d: d, intercept: coef[0], w: w, resid: resid}
	for j := 0; j < arimaP; j++ {
		m.phi[j] = coef[1+j]
	}
	for j := 0; j < arimaQ; j++ {
		m.theta[j] = coef[1+arimaP+j]
	}

	// Innovation variance from the stage-2 residuals.
	var ssr float64
	for i := 0; i < rows; i++ {
		t := start + i
		pred := m.intercept
		for j := 0; j < arimaP; j++ {
			pred += m.phi[j] * w[t-1-j]
		}
		for j := 0; j < arimaQ; j++ {
			pred += m.theta[j] * resid[t-1-j]
		}
		e := w[t] - pred
		ssr += e * e
	}
	m.sigma2 = ssr / float64(rows-(1+arimaP+arimaQ))

	if !finite(m.intercept, m.phi[0], m.phi[1], m.theta[0], m.theta[1], m.sigma2) {
		return nil, fmt.Errorf("degenerate ARIMA fit")
	}

	return m, nil
}

func (m *arimaModel) forecast(s Series, horizon int) ([]domain.ForecastPoint, error) {
	n := len(m.w)

	// Recursion state: the last observed values and residuals; future
	// innovations are zero in expectation.
	wPrev := []float64{m.w[n-1], m.w[n-2]}
	ePrev := []float64{m.resid[n-1], m.resid[n-2]}

	wHat := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		v := m.intercept + m.phi[0]*wPrev[0] + m.phi[1]*wPrev[1] +
			m.theta[0]*ePrev[0] + m.theta[1]*ePrev[1]
		wHat[h] = v

		wPrev[1], wPrev[0] = wPrev[0], v
		ePrev[1], ePrev[0] = ePrev[0], 0
	}

	psi := m.psiWeights(horizon)

	last := s.LastDate()
	lastLevel := s.Units[len(s.Units)-1]
	points := make([]domain.ForecastPoint, 0, horizon)

	level := lastLevel
	varSum := 0.0
	cumPsi := 0.0
	for h := 0; h < horizon; h++ {
		var pred float64
		if m.d == 0 {
			pred = wHat[h]
			varSum += psi[h] * psi[h]
		} else {
			level += wHat[h]
			pred = level
			cumPsi += psi[h]
			varSum += cumPsi * cumPsi
		}

		se := math.Sqrt(m.sigma2 * varSum)
		if !finite(pred, se) {
			return nil, fmt.Errorf("non-finite forecast at step %d", h+1)
		}

		points = append(points, domain.ForecastPoint{
			Date:            last.AddDate(0, 0, h+1),
			PredictedUnits:  round2(math.Max(0, pred)),
			ConfidenceLower: round2(math.Max(0, pred-ciZ*se)),
			ConfidenceUpper: round2(pred + ciZ*se),
		})
	}

	return points, nil
}

// psiWeights expands the fitted ARMA into its MA(inf) representation up
// to the horizon, for interval widths.
func (m *arimaModel) psiWeights(n int) []float64 {
	psi := make([]float64, n+1)
	psi[0] = 1
	for j := 1; j <= n; j++ {
		v := 0.0
		if j-1 >= 0 {
			v += m.phi[0] * psi[j-1]
		}
		if j-2 >= 0 {
			v += m.phi[1] * psi[j-2]
		}
		if j <= arimaQ {
			v += m.theta[j-1]
		}
		psi[j] = v
	}
	return psi[:n]
}

// differencingOrder picks d via a unit-root test on the raw series and,
// failing that, on the first difference. Inconclusive tests default to 1.
func differencingOrder(units []float64) int {
	if stationary(units) {
		return 0
	}
	diff1 := difference(units, 1)
	if len(diff1) > 10 && stationary(diff1) {
		return 1
	}
	return 1
}

// stationary runs a Dickey-Fuller style test: regress the first
// difference on the lagged level and compare the t-statistic of the
// level coefficient to the 5% critical value.
func stationary(xs []float64) bool {
	n := len(xs) - 1
	if n < 10 {
		return false
	}

	X := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for t := 0; t < n; t++ {
		X.Set(t, 0, 1)
		X.Set(t, 1, xs[t])
		y.SetVec(t, xs[t+1]-xs[t])
	}

	coef, err := solveOLS(X, y)
	if err != nil {
		return false
	}

	// Residual variance and the standard error of the level coefficient.
	var ssr, sumX, sumXX float64
	for t := 0; t < n; t++ {
		e := y.AtVec(t) - coef[0] - coef[1]*xs[t]
		ssr += e * e
		sumX += xs[t]
		sumXX += xs[t] * xs[t]
	}
	s2 := ssr / float64(n-2)
	sxx := sumXX - sumX*sumX/float64(n)
	if sxx <= 0 || s2 <= 0 {
		return false
	}

	tStat := coef[1] / math.Sqrt(s2/sxx)
	return tStat < adfCritical
}

// olsAR fits an AR(p) with intercept by least squares and returns
// [c, a1..ap].
func olsAR(w []float64, p int) ([]float64, error) {
	rows := len(w) - p
	if rows <= p+1 {
		return nil, fmt.Errorf("not enough observations for AR(%d)", p)
	}

	X := mat.NewDense(rows, p+1, nil)
	y := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		t := p + i
		X.Set(i, 0, 1)
		for j := 0; j < p; j++ {
			X.Set(i, 1+j, w[t-1-j])
		}
		y.SetVec(i, w[t])
	}

	return solveOLS(X, y)
}

// solveOLS solves min ||Xb - y|| via QR.
func solveOLS(X *mat.Dense, y *mat.VecDense) ([]float64, error) {
	var qr mat.QR
	qr.Factorize(X)

	_, c := X.Dims()
	var b mat.Dense
	if err := qr.SolveTo(&b, false, y); err != nil {
		return nil, fmt.Errorf("least squares solve failed: %w", err)
	}

	coef := make([]float64, c)
	for i := range coef {
		coef[i] = b.At(i, 0)
		if math.IsNaN(coef[i]) || math.IsInf(coef[i], 0) {
			return nil, fmt.Errorf("non-finite coefficient")
		}
	}
	return coef, nil
}

func difference(xs []float64, d int) []float64 {
	out := xs
	for k := 0; k < d; k++ {
		next := make([]float64, len(out)-1)
		for i := 1; i < len(out); i++ {
			next[i-1] = out[i] - out[i-1]
		}
		out = next
	}
	return out
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
