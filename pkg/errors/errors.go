// Package errors はscisplit全体のエラーハンドリングと警告システムを提供します。
// 各エラーはcockroachdb/errorsでスタックトレースを付与され、zerologで構造化ログとして出力できます。
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
		log.Printf("scisplit-Warning: %v\n", w)
	}
	// pkg/log が SetupLogger で設定する（循環importを避けるため）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler は警告ハンドラを設定します。
// zerologの警告関数が設定されている場合はそちらが優先されます。
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します。nilで解除します。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。処理は中断しません。
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

// ConditionWarning は最小二乗の計画行列が悪条件の場合の警告です。
// 解は計算されますが、係数の精度は保証されません。
type ConditionWarning struct {
	Op        string
	Condition float64
}

func (w *ConditionWarning) Error() string {
	return fmt.Sprintf("%s: design matrix is ill-conditioned (condition number %.3g); coefficients may be inaccurate", w.Op, w.Condition)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConditionWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Float64("condition", w.Condition).
		Str("type", "ConditionWarning")
}

// NewConditionWarning は新しいConditionWarningを作成します。
func NewConditionWarning(op string, condition float64) *ConditionWarning {
	return &ConditionWarning{Op: op, Condition: condition}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// FormatError は入力ファイルの行が不正な場合のエラーです。
// Row と Column は1始まり。Column が0の場合は行全体の問題（列数の不一致など）を示します。
type FormatError struct {
	Row    int
	Column int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("scisplit: malformed input at row %d, column %d: %s", e.Row, e.Column, e.Reason)
	}
	return fmt.Sprintf("scisplit: malformed input at row %d: %s", e.Row, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *FormatError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("row", e.Row).
		Int("column", e.Column).
		Str("reason", e.Reason).
		Str("type", "FormatError")
}

// NewFormatError は新しいFormatErrorを作成し、スタックトレースを付与します。
func NewFormatError(row, column int, reason string) error {
	return errors.WithStack(&FormatError{Row: row, Column: column, Reason: reason})
}

// DegenerateColumnError はスケーリングの分母が0（または使用不能）になる列がある場合のエラーです。
type DegenerateColumnError struct {
	Op     string
	Column int
	Value  float64 // 問題となった分母（最大値やレンジ）
}

func (e *DegenerateColumnError) Error() string {
	return fmt.Sprintf("scisplit: %s: column %d cannot be rescaled (divisor %g)", e.Op, e.Column, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DegenerateColumnError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("column", e.Column).
		Float64("divisor", e.Value).
		Str("type", "DegenerateColumnError")
}

// NewDegenerateColumnError は新しいDegenerateColumnErrorを作成し、スタックトレースを付与します。
func NewDegenerateColumnError(op string, column int, value float64) error {
	return errors.WithStack(&DegenerateColumnError{Op: op, Column: column, Value: value})
}

// IndexError は列の指定が範囲外、または名前が不明な場合のエラーです。
type IndexError struct {
	Op    string
	Index int    // 範囲外のインデックス（名前指定の場合は -1）
	Name  string // 不明な列名（インデックス指定の場合は空）
	Bound int    // 有効な列数
}

func (e *IndexError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("scisplit: %s: unknown column %q", e.Op, e.Name)
	}
	return fmt.Sprintf("scisplit: %s: column index %d out of range [0, %d)", e.Op, e.Index, e.Bound)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *IndexError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("index", e.Index).
		Str("name", e.Name).
		Int("bound", e.Bound).
		Str("type", "IndexError")
}

// NewIndexError は範囲外インデックスのIndexErrorを作成します。
func NewIndexError(op string, index, bound int) error {
	return errors.WithStack(&IndexError{Op: op, Index: index, Bound: bound})
}

// NewColumnNameError は不明な列名のIndexErrorを作成します。
func NewColumnNameError(op, name string) error {
	return errors.WithStack(&IndexError{Op: op, Index: -1, Name: name})
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
// 例えば、分割比率が (0, 1) の範囲外の場合など。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("scisplit: %s: %s", e.Op, e.Message)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValueError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("message", e.Message).
		Str("type", "ValueError")
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// NewValueErrorf はフォーマット済みメッセージのValueErrorを作成します。
func NewValueErrorf(op, format string, args ...interface{}) error {
	return errors.WithStack(&ValueError{Op: op, Message: fmt.Sprintf(format, args...)})
}

// ShapeMismatchError は2つの行列の形状が一致しない場合のエラーです。
// Expected / Got は [rows, cols]。比較しない軸は -1。
type ShapeMismatchError struct {
	Op       string
	Expected [2]int
	Got      [2]int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("scisplit: %s: shape mismatch. Expected %s, got %s", e.Op, shapeString(e.Expected), shapeString(e.Got))
}

func shapeString(s [2]int) string {
	dim := func(n int) string {
		if n < 0 {
			return "*"
		}
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("(%s, %s)", dim(s[0]), dim(s[1]))
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ShapeMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Ints("expected", e.Expected[:]).
		Ints("got", e.Got[:]).
		Str("type", "ShapeMismatchError")
}

// NewShapeMismatchError は新しいShapeMismatchErrorを作成し、スタックトレースを付与します。
func NewShapeMismatchError(op string, expected, got [2]int) error {
	return errors.WithStack(&ShapeMismatchError{Op: op, Expected: expected, Got: got})
}

// IOError はファイルの読み書きに失敗した場合のエラーです。
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("scisplit: %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("scisplit: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *IOError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("path", e.Path).
		AnErr("cause", e.Err).
		Str("type", "IOError")
}

// NewIOError は新しいIOErrorを作成し、スタックトレースを付与します。
func NewIOError(op, path string, err error) error {
	return errors.WithStack(&IOError{Op: op, Path: path, Err: err})
}

// NotFittedError はモデルが未学習の状態で `Predict` や `Transform` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("scisplit: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
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

// ModelError は学習処理に関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scisplit: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("scisplit: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
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

	// ErrSingularMatrix は最小二乗問題が解けない場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)

// TypeName returns the name of the first scisplit error type found in err's
// chain, such as "FormatError", or "" when there is none.
func TypeName(err error) string {
	var (
		formatErr     *FormatError
		degenerateErr *DegenerateColumnError
		indexErr      *IndexError
		valueErr      *ValueError
		shapeErr      *ShapeMismatchError
		ioErr         *IOError
		notFittedErr  *NotFittedError
		modelErr      *ModelError
		numericalErr  *NumericalInstabilityError
		panicErr      *PanicError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &panicErr):
		return "PanicError"
	case errors.As(err, &formatErr):
		return "FormatError"
	case errors.As(err, &degenerateErr):
		return "DegenerateColumnError"
	case errors.As(err, &indexErr):
		return "IndexError"
	case errors.As(err, &valueErr):
		return "ValueError"
	case errors.As(err, &shapeErr):
		return "ShapeMismatchError"
	case errors.As(err, &ioErr):
		return "IOError"
	case errors.As(err, &notFittedErr):
		return "NotFittedError"
	case errors.As(err, &numericalErr):
		return "NumericalInstabilityError"
	case errors.As(err, &modelErr):
		return "ModelError"
	default:
		return ""
	}
}
