package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

// checkPair は2つのベクトルが空でなく同じ長さであることを確認する
func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	n := yTrue.Len()
	if n == 0 || yPred.Len() == 0 {
		return 0, errors.NewInvalidDataError(op, "empty vector", n, yPred.Len())
	}
	if yPred.Len() != n {
		return 0, errors.NewInvalidDataError(op, "length mismatch", n, yPred.Len())
	}
	return n, nil
}

// SSR は残差二乗和 Σ(yTrue - yPred)² を計算する
func SSR(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("SSR", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum, nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	ssr, err := SSR(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return ssr / float64(yTrue.Len()), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score は決定係数 R² = 1 - SSR/SST を計算する。
//
// yTrue の分散が 0 の場合（SST = 0）R² は定義されないため、
// UndefinedMetricWarning を発行して NaN を返す。
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	obs := mat.Col(nil, 0, yTrue)
	mean := stat.Mean(obs, nil)

	var sst, ssr float64
	for i := 0; i < n; i++ {
		d := obs[i] - mean
		sst += d * d
		r := obs[i] - yPred.AtVec(i)
		ssr += r * r
	}

	if sst == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("r2", "total sum of squares is zero", math.NaN()))
		return math.NaN(), nil
	}
	return 1 - ssr/sst, nil
}

// R2 is R2Score over plain slices.
func R2(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return 0, errors.NewInvalidDataError("R2", "empty or mismatched samples", len(yTrue), len(yPred))
	}
	return R2Score(mat.NewVecDense(len(yTrue), append([]float64(nil), yTrue...)),
		mat.NewVecDense(len(yPred), append([]float64(nil), yPred...)))
}

// Summary は適合の良さを表す指標をまとめたもの
type Summary struct {
	R2   float64 `json:"r2"`
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	SSR  float64 `json:"ssr"`
}

// Summarize computes every goodness-of-fit metric at once.
func Summarize(yTrue, yPred []float64) (Summary, error) {
	r2, err := R2(yTrue, yPred)
	if err != nil {
		return Summary{}, err
	}
	t := mat.NewVecDense(len(yTrue), append([]float64(nil), yTrue...))
	p := mat.NewVecDense(len(yPred), append([]float64(nil), yPred...))

	var s Summary
	s.R2 = r2
	if s.SSR, err = SSR(t, p); err != nil {
		return Summary{}, err
	}
	if s.RMSE, err = RMSE(t, p); err != nil {
		return Summary{}, err
	}
	if s.MAE, err = MAE(t, p); err != nil {
		return Summary{}, err
	}
	return s, nil
}
