package ald

// TNS filter bounds. The default order matches short low-delay frames;
// eight is the hard cap on coefficients.
const (
	tnsDefaultOrder = 4
	tnsMaxOrder     = 8
)

// tns is the temporal noise shaping stage: a forward linear-prediction
// filter over the spectral coefficients, recomputed from scratch every
// frame. It carries no state between frames; the struct only holds the
// coefficient scratch buffer.
type tns struct {
	order  int
	coeffs []float64
}

func newTNS() *tns {
	return &tns{
		order:  tnsDefaultOrder,
		coeffs: make([]float64, tnsMaxOrder),
	}
}

// Apply whitens coeffs in place. Vectors shorter than the filter order
// pass through untouched.
func (t *tns) Apply(coeffs []float64) {
	if len(coeffs) < t.order {
		return
	}
	t.computeCoeffs(coeffs)
	t.filter(coeffs)
}

// computeCoeffs runs autocorrelation and a Levinson-Durbin recursion to
// get the prediction coefficients for the current frame. A zero-energy
// frame yields the degenerate all-zero (identity) filter.
func (t *tns) computeCoeffs(coeffs []float64) {
	order := t.order
	if order > len(coeffs)-1 {
		order = len(coeffs) - 1
	}

	autocorr := make([]float64, order+1)
	for lag := 0; lag <= order; lag++ {
		for i := 0; i < len(coeffs)-lag; i++ {
			autocorr[lag] += coeffs[i] * coeffs[i+lag]
		}
	}

	if autocorr[0] == 0.0 {
		for i := range t.coeffs {
			t.coeffs[i] = 0.0
		}
		return
	}

	tmp := make([]float64, order)
	errPower := autocorr[0]
	for i := 0; i < order; i++ {
		sum := autocorr[i+1]
		for j := 0; j < i; j++ {
			sum += t.coeffs[j] * autocorr[i-j]
		}

		reflection := -sum / errPower
		t.coeffs[i] = reflection

		for j := 0; j < i; j++ {
			tmp[j] = t.coeffs[j] + reflection*t.coeffs[i-1-j]
		}
		copy(t.coeffs[:i], tmp[:i])

		errPower *= 1.0 - reflection*reflection
		if errPower <= 0.0 {
			break
		}
	}
}

// filter subtracts each bin's linear prediction from the order
// preceding output bins.
func (t *tns) filter(coeffs []float64) {
	order := t.order
	if order > len(coeffs) {
		order = len(coeffs)
	}
	for i := order; i < len(coeffs); i++ {
		prediction := 0.0
		for j := 0; j < order; j++ {
			prediction += t.coeffs[j] * coeffs[i-j-1]
		}
		coeffs[i] -= prediction
	}
}
