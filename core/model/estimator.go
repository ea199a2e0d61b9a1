package model

import "context"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はサンプル (x, y) に対してパラメータを推定する
	Fit(ctx context.Context, x, y []float64) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は各 x に対する予測値を返す
	Predict(x []float64) ([]float64, error)
}

// Scorer はスコアを計算できるモデルのインターフェース
type Scorer interface {
	// Score は決定係数 R² を返す
	Score(x, y []float64) (float64, error)
}

// Regressor は回帰モデルのインターフェース
type Regressor interface {
	Fitter
	Predictor
	Scorer
	IsFitted() bool
}
