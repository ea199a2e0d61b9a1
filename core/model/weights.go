package model

import (
	"encoding/json"
	"io"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

// WeightsVersion is written into every exported ModelWeights.
const WeightsVersion = "1"

// ModelWeights はモデルの学習結果を表す構造体（シリアライゼーション用）
type ModelWeights struct {
	// ModelType はモデルの種類
	ModelType string `json:"model_type"`

	// Version はフォーマットのバージョン（互換性チェック用）
	Version string `json:"version"`

	// Equation は元の式
	Equation string `json:"equation"`

	// Parameters は自由パラメータ名（Values と同じ順序）
	Parameters []string `json:"parameters"`

	// Values は推定されたパラメータ値
	Values []float64 `json:"values"`

	// StdErrors は標準誤差。共分散が推定できない場合は省略
	StdErrors []float64 `json:"std_errors,omitempty"`

	// Metadata は追加のメタデータ（R² やサンプル数等）
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// IsFitted はモデルが学習済みかどうか
	IsFitted bool `json:"is_fitted"`
}

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mw, "", "  ")
}

// FromJSON はJSON形式からModelWeightsをデシリアライズ
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "decode model weights")
	}
	return mw.Validate()
}

// WriteTo writes the JSON form of mw to w.
func (mw *ModelWeights) WriteTo(w io.Writer) (int64, error) {
	data, err := mw.ToJSON()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(append(data, '\n'))
	return int64(n), err
}

// ReadWeights decodes and validates weights from r.
func ReadWeights(r io.Reader) (*ModelWeights, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read model weights")
	}
	mw := &ModelWeights{}
	if err := mw.FromJSON(data); err != nil {
		return nil, err
	}
	return mw, nil
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate() error {
	switch {
	case mw.ModelType == "":
		return errors.NewValidationError("model_type", "is required", mw.ModelType)
	case mw.Version == "":
		return errors.NewValidationError("version", "is required", mw.Version)
	case mw.Equation == "":
		return errors.NewValidationError("equation", "is required", mw.Equation)
	case len(mw.Parameters) != len(mw.Values):
		return errors.NewValidationError("values", "must have one value per parameter", mw.Values)
	case !mw.IsFitted && len(mw.Values) > 0:
		return errors.NewValidationError("values", "unfitted model should not have values", mw.Values)
	case len(mw.StdErrors) > 0 && len(mw.StdErrors) != len(mw.Values):
		return errors.NewValidationError("std_errors", "must have one entry per value", mw.StdErrors)
	}
	return nil
}

// Clone はModelWeightsのディープコピーを作成
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := &ModelWeights{
		ModelType:  mw.ModelType,
		Version:    mw.Version,
		Equation:   mw.Equation,
		IsFitted:   mw.IsFitted,
		Parameters: append([]string(nil), mw.Parameters...),
		Values:     append([]float64(nil), mw.Values...),
		StdErrors:  append([]float64(nil), mw.StdErrors...),
		Metadata:   make(map[string]interface{}, len(mw.Metadata)),
	}
	for k, v := range mw.Metadata {
		clone.Metadata[k] = v
	}
	return clone
}
