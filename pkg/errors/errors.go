// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 方程式の解析・コンパイル・フィッティングの各段階に対応した構造化エラーを定義します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("curvefit-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// ConvergenceWarning は最適化アルゴリズムが収束しなかった場合に発生する警告です。
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations. Consider increasing the iteration limit or the initial guess.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning は新しいConvergenceWarningを作成します。
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// UndefinedMetricWarning は評価指標が計算できない場合に発生する警告です。
// 例えば、観測値 y がすべて同じ値で R² の分母が 0 になる場合など。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // この条件で返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	パイプライン段階ごとのエラー型
//
// ===========================================================================

// ParseError は方程式テキストが `y = <式>` の形式でない場合のエラーです。
type ParseError struct {
	Equation string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("curvefit: cannot parse equation %q: %s", e.Equation, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ParseError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("equation", e.Equation).
		Str("reason", e.Reason).
		Str("type", "ParseError")
}

// NewParseError は新しいParseErrorを作成し、スタックトレースを付与します。
func NewParseError(equation, reason string) error {
	return errors.WithStack(&ParseError{Equation: equation, Reason: reason})
}

// InvalidDataError はサンプルデータが空・長さ不一致・非数値の場合のエラーです。
type InvalidDataError struct {
	Op     string
	Reason string
	XLen   int
	YLen   int
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("curvefit: %s: invalid sample data: %s (len(x)=%d, len(y)=%d)", e.Op, e.Reason, e.XLen, e.YLen)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidDataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Int("x_len", e.XLen).
		Int("y_len", e.YLen).
		Str("type", "InvalidDataError")
}

// NewInvalidDataError は新しいInvalidDataErrorを作成し、スタックトレースを付与します。
func NewInvalidDataError(op, reason string, xLen, yLen int) error {
	return errors.WithStack(&InvalidDataError{Op: op, Reason: reason, XLen: xLen, YLen: yLen})
}

// CompileError は式が未知の識別子を参照している、または構文的に不正な場合のエラーです。
// Column は式テキスト内の0始まりの列位置です（不明な場合は -1）。
type CompileError struct {
	Expr   string
	Column int
	Reason string
}

func (e *CompileError) Error() string {
	if e.Column >= 0 {
		return fmt.Sprintf("curvefit: cannot compile %q at column %d: %s", e.Expr, e.Column, e.Reason)
	}
	return fmt.Sprintf("curvefit: cannot compile %q: %s", e.Expr, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *CompileError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("expr", e.Expr).
		Int("column", e.Column).
		Str("reason", e.Reason).
		Str("type", "CompileError")
}

// NewCompileError は新しいCompileErrorを作成し、スタックトレースを付与します。
func NewCompileError(expr string, column int, reason string) error {
	return errors.WithStack(&CompileError{Expr: expr, Column: column, Reason: reason})
}

// FitError はソルバーが収束しない、ヤコビアンが特異、または共分散が有限でない場合のエラーです。
type FitError struct {
	Model      string
	Reason     string
	Iterations int
	Err        error
}

func (e *FitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("curvefit: fit of %q failed after %d iterations: %s: %v", e.Model, e.Iterations, e.Reason, e.Err)
	}
	return fmt.Sprintf("curvefit: fit of %q failed after %d iterations: %s", e.Model, e.Iterations, e.Reason)
}

func (e *FitError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *FitError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model", e.Model).
		Str("reason", e.Reason).
		Int("iterations", e.Iterations).
		Str("type", "FitError")
	if e.Err != nil {
		event.Str("cause", e.Err.Error())
	}
}

// NewFitError は新しいFitErrorを作成し、スタックトレースを付与します。
func NewFitError(model, reason string, iterations int, err error) error {
	return errors.WithStack(&FitError{Model: model, Reason: reason, Iterations: iterations, Err: err})
}

// UnknownLibraryError はインポート指定されたライブラリが登録されていない場合のエラーです。
type UnknownLibraryError struct {
	Name string
}

func (e *UnknownLibraryError) Error() string {
	return fmt.Sprintf("curvefit: library %q not found", e.Name)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *UnknownLibraryError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("library", e.Name).
		Str("type", "UnknownLibraryError")
}

// NewUnknownLibraryError は新しいUnknownLibraryErrorを作成し、スタックトレースを付与します。
func NewUnknownLibraryError(name string) error {
	return errors.WithStack(&UnknownLibraryError{Name: name})
}

// ===========================================================================
//
//	汎用エラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` や `Score` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("curvefit: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("curvefit: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError は引数の値が不適切な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("curvefit: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// NumericalInstabilityError は数値計算が不安定になった場合のエラーです。
// NaN、Inf を検出します。
type NumericalInstabilityError struct {
	Operation string    // 発生した操作（例: "covariance", "residuals"）
	Values    []float64 // 問題のある値
	Iteration int       // 発生したイテレーション番号
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("curvefit: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	return errors.WithStack(&NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
	})
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")

	// ErrNotConverged は反復上限までに収束しなかった場合のエラーです。
	ErrNotConverged = New("not converged")

	// ErrUnderdetermined はサンプル数が自由パラメータ数より少ない場合のエラーです。
	ErrUnderdetermined = New("fewer samples than parameters")
)
