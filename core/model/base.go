// Package model provides the estimator state and interfaces shared by the
// curve-fitting models.
package model

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// NotFitted はモデルが未学習の状態
	NotFitted EstimatorState = iota
	// Fitted はモデルが学習済みの状態
	Fitted
	// NoFit は自由パラメータがなく学習不要の状態
	NoFit
)

func (s EstimatorState) String() string {
	switch s {
	case Fitted:
		return "fitted"
	case NoFit:
		return "no-fit"
	}
	return "not-fitted"
}

// BaseEstimator は全てのモデルの基底となる構造体
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted はモデルが予測可能な状態かどうかを返す（NoFit も含む）
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted || e.state == NoFit
}

// State は現在の状態を返す
func (e *BaseEstimator) State() EstimatorState {
	return e.state
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// SetNoFit はパラメータなしで予測可能な状態に設定する
func (e *BaseEstimator) SetNoFit() {
	e.state = NoFit
}

// Reset はモデルを初期状態にリセットする
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
