// Package dataset reads and writes the numeric matrices handled by the
// partitioning pipeline and selects column subsets from them.
//
// Files are comma-delimited numeric text without a header. Column positions
// can be given directly or resolved from a Schema of column names:
//
//	X, err := dataset.Load("cars.csv")
//	schema := dataset.MTCarsSchema()
//	inputs, err := dataset.SelectByName(X, schema, "mpg", "cyl", "disp")
//	err = dataset.Export(inputs, "train_inputs.csv", dataset.DefaultPrecision)
package dataset
