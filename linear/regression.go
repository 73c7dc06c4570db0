// Package linear は最小二乗法による線形回帰モデルを提供する
package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scisplit/core/model"
	"github.com/YuminosukeSato/scisplit/core/parallel"
	"github.com/YuminosukeSato/scisplit/metrics"
	"github.com/YuminosukeSato/scisplit/pkg/errors"
)

// LinearRegression は多出力の線形回帰モデル（通常の最小二乗法）。
// すべての目的変数列で同じ計画行列を共有する。
type LinearRegression struct {
	state        *model.StateManager
	fitIntercept bool

	coef      *mat.Dense // (n_targets, n_features)
	intercept []float64  // (n_targets,)
}

var _ model.Regressor = (*LinearRegression)(nil)

// NewLinearRegression は新しい線形回帰モデルを作成する
//
// 使用例:
//
//	lr := linear.NewLinearRegression(linear.WithFitIntercept(true))
//	err := lr.Fit(XTrain, YTrain)
//	pred, err := lr.Predict(XTest)
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{
		state:        model.NewStateManager(),
		fitIntercept: true,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit はモデルを訓練データで学習させる。
// 計画行列 [1, X] に対する最小二乗問題を QR 分解で解く。
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, nTargets := y.Dims()

	if nSamples == 0 || nFeatures == 0 || nTargets == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != nSamples {
		return errors.NewShapeMismatchError("LinearRegression.Fit",
			[2]int{nSamples, -1}, [2]int{yRows, nTargets})
	}

	design := lr.designMatrix(X)

	// beta: (n_params, n_targets)
	var beta mat.Dense
	if err := beta.Solve(design, y); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
		}
		// 解は得られているが精度は保証されない
		errors.Warn(errors.NewConditionWarning("LinearRegression.Fit", float64(cond)))
	}
	if err := errors.CheckMatrix("LinearRegression.Fit", &beta); err != nil {
		return err
	}

	offset := 0
	if lr.fitIntercept {
		offset = 1
	}
	lr.intercept = make([]float64, nTargets)
	lr.coef = mat.NewDense(nTargets, nFeatures, nil)
	for t := 0; t < nTargets; t++ {
		if lr.fitIntercept {
			lr.intercept[t] = beta.At(0, t)
		}
		for j := 0; j < nFeatures; j++ {
			lr.coef.Set(t, j, beta.At(j+offset, t))
		}
	}

	lr.state.SetFitted(nFeatures, nSamples)
	return nil
}

// designMatrix は切片項のために X の先頭に 1 の列を追加する
func (lr *LinearRegression) designMatrix(X mat.Matrix) *mat.Dense {
	nSamples, nFeatures := X.Dims()
	if !lr.fitIntercept {
		return mat.DenseCopyOf(X)
	}

	design := mat.NewDense(nSamples, nFeatures+1, nil)
	parallel.ParallelizeWithThreshold(nSamples, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			design.Set(i, 0, 1.0)
			for j := 0; j < nFeatures; j++ {
				design.Set(i, j+1, X.At(i, j))
			}
		}
	})
	return design
}

// Predict は入力データに対する予測を行う。戻り値は (n_samples, n_targets)。
func (lr *LinearRegression) Predict(X mat.Matrix) (*mat.Dense, error) {
	if err := lr.state.RequireFitted("LinearRegression", "Predict"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if err := lr.state.RequireFeatures("LinearRegression.Predict", r, c); err != nil {
		return nil, err
	}
	if r == 0 {
		return nil, errors.NewModelError("LinearRegression.Predict", "empty data", errors.ErrEmptyData)
	}

	nTargets := len(lr.intercept)
	predictions := mat.NewDense(r, nTargets, nil)
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for t := 0; t < nTargets; t++ {
				pred := lr.intercept[t]
				for j := 0; j < c; j++ {
					pred += X.At(i, j) * lr.coef.At(t, j)
				}
				predictions.Set(i, t, pred)
			}
		}
	})
	return predictions, nil
}

// Score は決定係数（R²）を目的変数列で平均して返す
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(pred, y)
}

// IsFitted は学習済みかどうかを返す
func (lr *LinearRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// Coef は学習された係数のコピーを返す。形状は (n_targets, n_features)。
func (lr *LinearRegression) Coef() *mat.Dense {
	if !lr.IsFitted() {
		return nil
	}
	return mat.DenseCopyOf(lr.coef)
}

// Intercept は目的変数列ごとの切片を返す。WithFitIntercept(false) の場合はすべて0。
func (lr *LinearRegression) Intercept() []float64 {
	if !lr.IsFitted() {
		return nil
	}
	return append([]float64(nil), lr.intercept...)
}

// String はモデルの文字列表現を返す
func (lr *LinearRegression) String() string {
	if !lr.IsFitted() {
		return fmt.Sprintf("LinearRegression(fit_intercept=%t)", lr.fitIntercept)
	}
	nFeatures, _ := lr.state.Dimensions()
	return fmt.Sprintf("LinearRegression(fit_intercept=%t, n_features=%d, n_targets=%d)",
		lr.fitIntercept, nFeatures, len(lr.intercept))
}
