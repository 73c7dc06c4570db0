package model

import (
	"encoding/json"
	"os"

	"github.com/YuminosukeSato/scisplit/pkg/errors"
)

// ScalerStateVersion is written into every ScalerState.
const ScalerStateVersion = "1.0"

// ScalerState はスケーラーの学習結果（シリアライゼーション用）
//
// 変換は列ごとに scaled = (x - Offset[j]) / Divisor[j]。
// 逆変換は x = scaled*Divisor[j] + Offset[j]。
type ScalerState struct {
	// Strategy はスケーリング方式（"max", "minmax"）
	Strategy string `json:"strategy"`

	// Version は互換性チェック用
	Version string `json:"version"`

	Offset  []float64 `json:"offset"`
	Divisor []float64 `json:"divisor"`

	// Features は列名（オプション）
	Features []string `json:"features,omitempty"`
}

// Validate はScalerStateの妥当性を検証
func (s *ScalerState) Validate() error {
	if s.Strategy == "" {
		return errors.NewValueError("ScalerState.Validate", "strategy is required")
	}
	if s.Version == "" {
		return errors.NewValueError("ScalerState.Validate", "version is required")
	}
	if len(s.Divisor) == 0 {
		return errors.NewValueError("ScalerState.Validate", "divisor is required")
	}
	if len(s.Offset) != len(s.Divisor) {
		return errors.NewShapeMismatchError("ScalerState.Validate",
			[2]int{1, len(s.Divisor)}, [2]int{1, len(s.Offset)})
	}
	if len(s.Features) > 0 && len(s.Features) != len(s.Divisor) {
		return errors.NewShapeMismatchError("ScalerState.Validate",
			[2]int{1, len(s.Divisor)}, [2]int{1, len(s.Features)})
	}
	for j, d := range s.Divisor {
		if d == 0 {
			return errors.NewDegenerateColumnError("ScalerState.Validate", j, d)
		}
	}
	return nil
}

// ToJSON はScalerStateをJSON形式にシリアライズ
func (s *ScalerState) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// FromJSON はJSON形式からScalerStateをデシリアライズし、検証する
func (s *ScalerState) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, s); err != nil {
		return errors.Wrap(err, "decode scaler state")
	}
	return s.Validate()
}

// SaveScalerState はScalerStateをJSONファイルに保存する
func SaveScalerState(state *ScalerState, path string) error {
	data, err := state.ToJSON()
	if err != nil {
		return errors.Wrap(err, "encode scaler state")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewIOError("write", path, err)
	}
	return nil
}

// LoadScalerState はJSONファイルからScalerStateを読み込む
func LoadScalerState(path string) (*ScalerState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError("read", path, err)
	}
	state := &ScalerState{}
	if err := state.FromJSON(data); err != nil {
		return nil, err
	}
	return state, nil
}
