package ols

import (
	"fmt"
	"math"

	domainstats "mincerdash/domain/stats"
	"mincerdash/domain/wage"
	"mincerdash/internal"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Estimator fits the Mincer wage equation
//
//	log_wage = b0 + b1*education + b2*experience + b3*experience^2 + b4*gender + e
//
// by ordinary least squares.
type Estimator struct {
	terms  []domainstats.Term
	logger *internal.Logger
}

// NewEstimator creates an estimator over the fixed Mincer design
func NewEstimator() *Estimator {
	return &Estimator{
		terms:  domainstats.MincerTerms,
		logger: internal.DefaultLogger.With("ols"),
	}
}

// Fit solves the normal equations through a QR factorization of X. With
// robust set, standard errors come from the HC1 sandwich estimator; otherwise
// from the classical s^2 (X'X)^-1. p-values are two-sided Student-t with n-k
// degrees of freedom.
//
// It returns *domainstats.InsufficientDataError when n <= k, when a predictor
// is constant across the view, or when X'X is singular.
func (e *Estimator) Fit(view *wage.FilteredView, robust bool) (*domainstats.RegressionResult, error) {
	n, k := view.Len(), len(e.terms)
	if n < k {
		return nil, insufficient(n, k, "fewer observations than parameters")
	}
	if n == k {
		return nil, insufficient(n, k, "no residual degrees of freedom")
	}

	X, y, err := e.design(view)
	if err != nil {
		return nil, err
	}

	var qr mat.QR
	qr.Factorize(X)
	if !fullRank(&qr, k) {
		return nil, insufficient(n, k, "predictors are perfectly collinear")
	}
	beta := mat.NewVecDense(k, nil)
	if err := qr.SolveVecTo(beta, false, y); err != nil {
		return nil, insufficient(n, k, fmt.Sprintf("design matrix is singular: %v", err))
	}

	var xtx mat.SymDense
	xtx.SymOuterK(1, X.T())
	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return nil, insufficient(n, k, "X'X is not positive definite")
	}
	var xtxInv mat.SymDense
	if err := chol.InverseTo(&xtxInv); err != nil {
		return nil, insufficient(n, k, fmt.Sprintf("X'X is singular: %v", err))
	}

	var fitted, resid mat.VecDense
	fitted.MulVec(X, beta)
	resid.SubVec(y, &fitted)
	rss := mat.Dot(&resid, &resid)
	df := n - k

	var cov *mat.Dense
	if robust {
		cov = hc1Covariance(X, &resid, &xtxInv, n, k)
	} else {
		cov = mat.NewDense(k, k, nil)
		cov.Scale(rss/float64(df), &xtxInv)
	}

	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	tcrit := tdist.Quantile(0.975)

	coefs := make([]domainstats.Coefficient, k)
	for j, term := range e.terms {
		b := beta.AtVec(j)
		se := math.Sqrt(cov.At(j, j))
		t := b / se
		coefs[j] = domainstats.Coefficient{
			Term:     term,
			Estimate: b,
			StdError: se,
			TStat:    t,
			PValue:   2 * tdist.Survival(math.Abs(t)),
			CILower:  b - tcrit*se,
			CIUpper:  b + tcrit*se,
		}
	}

	result := &domainstats.RegressionResult{
		Coefficients: coefs,
		Robust:       robust,
		Observations: n,
		DFResidual:   df,
		DFModel:      k - 1,
		Fit:          modelFit(y, rss, beta, cov, n, k),
	}

	e.logger.Debug("fit n=%d robust=%t r2=%.4f", n, robust, result.Fit.RSquared)
	return result, nil
}

// design builds X (intercept first) and y, rejecting constant predictors.
func (e *Estimator) design(view *wage.FilteredView) (*mat.Dense, *mat.VecDense, error) {
	n, k := view.Len(), len(e.terms)
	X := mat.NewDense(n, k, nil)
	y := mat.NewVecDense(n, view.Column(wage.VarLogWage))

	for j, term := range e.terms {
		variable, ok := term.Variable()
		if !ok {
			for i := 0; i < n; i++ {
				X.Set(i, j, 1)
			}
			continue
		}
		col := view.Column(variable)
		constant := true
		for i, v := range col {
			X.Set(i, j, v)
			if v != col[0] {
				constant = false
			}
		}
		if constant {
			return nil, nil, insufficient(n, k, fmt.Sprintf("predictor %s is constant", term))
		}
	}
	return X, y, nil
}

// fullRank checks the diagonal of R against the largest pivot.
func fullRank(qr *mat.QR, k int) bool {
	var r mat.Dense
	qr.RTo(&r)
	var largest float64
	for j := 0; j < k; j++ {
		largest = math.Max(largest, math.Abs(r.At(j, j)))
	}
	for j := 0; j < k; j++ {
		if math.Abs(r.At(j, j)) <= rankTolerance*largest {
			return false
		}
	}
	return true
}

const rankTolerance = 1e-10

// hc1Covariance computes n/(n-k) * (X'X)^-1 (sum e_i^2 x_i x_i') (X'X)^-1.
func hc1Covariance(X *mat.Dense, resid *mat.VecDense, xtxInv *mat.SymDense, n, k int) *mat.Dense {
	meat := mat.NewSymDense(k, nil)
	for i := 0; i < n; i++ {
		ei := resid.AtVec(i)
		row := mat.NewVecDense(k, X.RawRowView(i))
		meat.SymRankOne(meat, ei*ei, row)
	}

	var half, cov mat.Dense
	half.Mul(xtxInv, meat)
	cov.Mul(&half, xtxInv)
	cov.Scale(float64(n)/float64(n-k), &cov)
	return &cov
}

// modelFit computes R^2, a Wald F test that all slopes are zero under the
// chosen covariance, and the Gaussian log-likelihood with AIC/BIC.
func modelFit(y *mat.VecDense, rss float64, beta *mat.VecDense, cov *mat.Dense, n, k int) domainstats.ModelFit {
	ybar := mat.Sum(y) / float64(n)
	var tss float64
	for i := 0; i < n; i++ {
		d := y.AtVec(i) - ybar
		tss += d * d
	}

	nf, kf, df := float64(n), float64(k), float64(n-k)
	fit := domainstats.ModelFit{
		RSquared:   math.NaN(),
		FStatistic: math.NaN(),
		FPValue:    math.NaN(),
		ResidualSE: math.Sqrt(rss / df),
	}
	if tss > 0 {
		fit.RSquared = 1 - rss/tss
	}
	fit.AdjRSquared = 1 - (1-fit.RSquared)*(nf-1)/df

	q := k - 1
	slopes := mat.NewVecDense(q, nil)
	vs := mat.NewSymDense(q, nil)
	for i := 0; i < q; i++ {
		slopes.SetVec(i, beta.AtVec(i+1))
		for j := i; j < q; j++ {
			vs.SetSym(i, j, (cov.At(i+1, j+1)+cov.At(j+1, i+1))/2)
		}
	}
	var chol mat.Cholesky
	if chol.Factorize(vs) {
		var w mat.VecDense
		if err := chol.SolveVecTo(&w, slopes); err == nil {
			fit.FStatistic = mat.Dot(slopes, &w) / float64(q)
			fit.FPValue = distuv.F{D1: float64(q), D2: df}.Survival(fit.FStatistic)
		}
	}

	if rss > 0 {
		fit.LogLikelihood = -nf / 2 * (math.Log(2*math.Pi) + math.Log(rss/nf) + 1)
	} else {
		fit.LogLikelihood = math.Inf(1)
	}
	fit.AIC = -2*fit.LogLikelihood + 2*kf
	fit.BIC = -2*fit.LogLikelihood + kf*math.Log(nf)
	return fit
}

func insufficient(n, k int, reason string) error {
	return &domainstats.InsufficientDataError{Observations: n, Parameters: k, Reason: reason}
}
