// Package preprocessing rescales matrix columns.
//
// Two strategies are available. Max-division (the default, used by Rescale)
// divides each column by its maximum so that every column peaks at exactly
// 1.0; min-max maps each column onto [0, 1]. Fitted factors are kept so
// InverseTransform recovers the original values, and they can be written
// out as a model.ScalerState.
package preprocessing
