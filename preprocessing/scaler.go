package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scisplit/core/model"
	"github.com/YuminosukeSato/scisplit/core/parallel"
	"github.com/YuminosukeSato/scisplit/pkg/errors"
)

// Strategy はスケーリング方式
type Strategy string

const (
	// StrategyMax は各列をその列の最大値で割る（デフォルト）
	StrategyMax Strategy = "max"
	// StrategyMinMax は各列を [0, 1] に線形変換する
	StrategyMinMax Strategy = "minmax"
)

// ParseStrategy は文字列からStrategyを取得する
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyMax, StrategyMinMax:
		return Strategy(s), nil
	case "":
		return StrategyMax, nil
	default:
		return "", errors.NewValueErrorf("ParseStrategy", "unknown scaler strategy %q (want %q or %q)", s, StrategyMax, StrategyMinMax)
	}
}

// Scaler は列ごとのアフィン変換 scaled = (x - offset) / divisor を学習する変換器
type Scaler interface {
	model.InverseTransformer

	// Factors は学習済みの列ごとの係数を返す
	Factors() (*ScaleFactors, error)
}

// NewScaler はstrategyに対応するScalerを作成する
//
// 使用例:
//
//	scaler, err := preprocessing.NewScaler(preprocessing.StrategyMinMax)
//	XScaled, err := scaler.FitTransform(X)
func NewScaler(strategy Strategy) (Scaler, error) {
	switch strategy {
	case StrategyMax, "":
		return NewMaxScaler(), nil
	case StrategyMinMax:
		return NewMinMaxScaler(), nil
	default:
		return nil, errors.NewValueErrorf("NewScaler", "unknown scaler strategy %q", strategy)
	}
}

// Rescale は各列をその列の最大値で割った新しい行列と、使用した係数を返す。
// 最大値が0以下の列があるとDegenerateColumnErrorを返す。
func Rescale(X mat.Matrix) (*mat.Dense, *ScaleFactors, error) {
	scaler := NewMaxScaler()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		return nil, nil, err
	}
	factors, err := scaler.Factors()
	if err != nil {
		return nil, nil, err
	}
	return scaled, factors, nil
}

// ScaleFactors は学習済みスケーラーの列ごとの係数
type ScaleFactors struct {
	Strategy Strategy
	Offset   []float64
	Divisor  []float64
}

// State はシリアライズ用のScalerStateに変換する。featuresは省略可能。
func (f *ScaleFactors) State(features []string) *model.ScalerState {
	return &model.ScalerState{
		Strategy: string(f.Strategy),
		Version:  model.ScalerStateVersion,
		Offset:   append([]float64(nil), f.Offset...),
		Divisor:  append([]float64(nil), f.Divisor...),
		Features: append([]string(nil), features...),
	}
}

// FromState は保存されたScalerStateから学習済みのScalerを復元する
func FromState(state *model.ScalerState) (Scaler, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}
	scaler, err := NewScaler(Strategy(state.Strategy))
	if err != nil {
		return nil, err
	}
	var a *affine
	switch s := scaler.(type) {
	case *MaxScaler:
		a = &s.affine
	case *MinMaxScaler:
		a = &s.affine
	}
	a.set(append([]float64(nil), state.Offset...), append([]float64(nil), state.Divisor...), 0)
	return scaler, nil
}

// affine は MaxScaler と MinMaxScaler が共有する変換処理
type affine struct {
	state    *model.StateManager
	name     string
	strategy Strategy
	offset   []float64
	divisor  []float64
}

func newAffine(name string, strategy Strategy) affine {
	return affine{state: model.NewStateManager(), name: name, strategy: strategy}
}

func (a *affine) set(offset, divisor []float64, nSamples int) {
	a.offset = offset
	a.divisor = divisor
	a.state.SetFitted(len(divisor), nSamples)
}

// IsFitted は学習済みかどうかを返す
func (a *affine) IsFitted() bool {
	return a.state.IsFitted()
}

// Transform は学習済みの係数でXを変換した新しい行列を返す
func (a *affine) Transform(X mat.Matrix) (*mat.Dense, error) {
	return a.apply(X, "Transform", func(v, off, div float64) float64 {
		return (v - off) / div
	})
}

// InverseTransform は変換後の行列を元のスケールに戻す
func (a *affine) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	return a.apply(X, "InverseTransform", func(v, off, div float64) float64 {
		return v*div + off
	})
}

func (a *affine) apply(X mat.Matrix, method string, f func(v, off, div float64) float64) (*mat.Dense, error) {
	if err := a.state.RequireFitted(a.name, method); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if err := a.state.RequireFeatures(a.name+"."+method, r, c); err != nil {
		return nil, err
	}

	result := mat.NewDense(r, c, nil)
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				result.Set(i, j, f(X.At(i, j), a.offset[j], a.divisor[j]))
			}
		}
	})
	return result, nil
}

// Factors は学習済みの係数のコピーを返す
func (a *affine) Factors() (*ScaleFactors, error) {
	if err := a.state.RequireFitted(a.name, "Factors"); err != nil {
		return nil, err
	}
	return &ScaleFactors{
		Strategy: a.strategy,
		Offset:   append([]float64(nil), a.offset...),
		Divisor:  append([]float64(nil), a.divisor...),
	}, nil
}

// String はスケーラーの文字列表現を返す
func (a *affine) String() string {
	if !a.state.IsFitted() {
		return fmt.Sprintf("%s()", a.name)
	}
	nFeatures, _ := a.state.Dimensions()
	return fmt.Sprintf("%s(n_features=%d)", a.name, nFeatures)
}

// columns はXの各列をスライスとして返す。空の場合はErrEmptyData。
func columns(op string, X mat.Matrix) ([][]float64, int, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	cols := make([][]float64, c)
	for j := range cols {
		cols[j] = mat.Col(nil, j, X)
	}
	return cols, r, nil
}

// MaxScaler は各列をその列の最大値で割るスケーラー。
// 変換後の各列の最大値はちょうど1.0になる。
type MaxScaler struct {
	affine
}

// NewMaxScaler は新しいMaxScalerを作成する
func NewMaxScaler() *MaxScaler {
	return &MaxScaler{affine: newAffine("MaxScaler", StrategyMax)}
}

// Fit は各列の最大値を計算する。
// 最大値が0以下の列は最大値1.0に変換できないためDegenerateColumnErrorを返す。
func (m *MaxScaler) Fit(X mat.Matrix) error {
	cols, r, err := columns("MaxScaler.Fit", X)
	if err != nil {
		return err
	}

	offset := make([]float64, len(cols))
	divisor := make([]float64, len(cols))
	for j, col := range cols {
		colMax := floats.Max(col)
		if colMax <= 0 {
			return errors.NewDegenerateColumnError("MaxScaler.Fit", j, colMax)
		}
		divisor[j] = colMax
	}
	m.set(offset, divisor, r)
	return nil
}

// FitTransform は学習と変換を同時に行う
func (m *MaxScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// MinMaxScaler は各列を [0, 1] に線形変換するスケーラー
type MinMaxScaler struct {
	affine
}

// NewMinMaxScaler は新しいMinMaxScalerを作成する
func NewMinMaxScaler() *MinMaxScaler {
	return &MinMaxScaler{affine: newAffine("MinMaxScaler", StrategyMinMax)}
}

// Fit は各列の最小値と範囲を計算する。定数列はDegenerateColumnError。
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	cols, r, err := columns("MinMaxScaler.Fit", X)
	if err != nil {
		return err
	}

	offset := make([]float64, len(cols))
	divisor := make([]float64, len(cols))
	for j, col := range cols {
		colMin := floats.Min(col)
		span := floats.Max(col) - colMin
		if span == 0 {
			return errors.NewDegenerateColumnError("MinMaxScaler.Fit", j, span)
		}
		offset[j] = colMin
		divisor[j] = span
	}
	m.set(offset, divisor, r)
	return nil
}

// FitTransform は学習と変換を同時に行う
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}
