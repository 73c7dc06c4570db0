// Package metrics は回帰の評価指標を提供する。
// すべての指標は predicted と actual の全要素を対象とし、複数の出力列を扱える。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/scisplit/pkg/errors"
)

// checkShapes は2つの行列が同じ形状で空でないことを検証する
func checkShapes(op string, predicted, actual mat.Matrix) (rows, cols int, err error) {
	rp, cp := predicted.Dims()
	ra, ca := actual.Dims()
	if rp != ra || cp != ca {
		return 0, 0, errors.NewShapeMismatchError(op, [2]int{ra, ca}, [2]int{rp, cp})
	}
	if ra == 0 || ca == 0 {
		return 0, 0, errors.NewValueError(op, "empty matrix")
	}
	return ra, ca, nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
//
// MSE = (1/(n*t)) * Σ_i Σ_j (predicted[i][j] - actual[i][j])²
func MSE(predicted, actual mat.Matrix) (float64, error) {
	rows, cols, err := checkShapes("MSE", predicted, actual)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			diff := predicted.At(i, j) - actual.At(i, j)
			sum += diff * diff
		}
	}
	return sum / float64(rows*cols), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(predicted, actual mat.Matrix) (float64, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(predicted, actual mat.Matrix) (float64, error) {
	rows, cols, err := checkShapes("MAE", predicted, actual)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			sum += math.Abs(predicted.At(i, j) - actual.At(i, j))
		}
	}
	return sum / float64(rows*cols), nil
}

// R2Score は決定係数（R²）を計算する。
// 出力列ごとに 1 - RSS/TSS を求め、その単純平均を返す。
func R2Score(predicted, actual mat.Matrix) (float64, error) {
	rows, cols, err := checkShapes("R2Score", predicted, actual)
	if err != nil {
		return 0, err
	}

	var total float64
	for j := 0; j < cols; j++ {
		yTrue := mat.Col(nil, j, actual)
		yMean := stat.Mean(yTrue, nil)

		var tss, rss float64
		for i := 0; i < rows; i++ {
			diff := yTrue[i] - predicted.At(i, j)
			tss += (yTrue[i] - yMean) * (yTrue[i] - yMean)
			rss += diff * diff
		}

		// 全変動が0の場合（列のすべての値が同じ）
		if tss == 0 {
			return 0, errors.NewValueErrorf("R2Score", "column %d has zero variance", j)
		}
		total += 1 - rss/tss
	}
	return total / float64(cols), nil
}
