package lp

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StandardForm is a dense matrix view of a model:
//
//	RowLower <= A x <= RowUpper
//	ColLower <=   x <= ColUpper
//
// Columns are ordered by family name and then by declaration order within
// the family; rows likewise.
type StandardForm struct {
	Columns []Address
	Rows    []Address

	A        *mat.Dense
	RowLower *mat.VecDense
	RowUpper *mat.VecDense
	ColLower *mat.VecDense
	ColUpper *mat.VecDense

	Objective       *mat.VecDense
	ObjectiveOffset float64
	Sense           ObjectiveSense
}

// ErrEmptyModel is returned when a model without variables or constraints
// is exported.
var ErrEmptyModel = errors.New("model has no variables or no constraints")

// ErrTooLarge is returned when the dense matrix would exceed MaxDenseCells.
var ErrTooLarge = errors.New("model too large for a dense constraint matrix")

// MaxDenseCells caps rows*columns of an exported matrix. At 8 bytes per
// cell the default is 1 GiB.
var MaxDenseCells = 1 << 27

// StandardForm exports the model as a dense constraint matrix. Models whose
// matrix would exceed MaxDenseCells are refused with ErrTooLarge.
func (m *Model) StandardForm() (*StandardForm, error) {
	varFamilies := m.VariableFamilies()
	conFamilies := m.ConstraintFamilies()

	colOf := make(map[Var]int)
	var columns []Address
	var colLower, colUpper []float64
	for _, name := range varFamilies {
		f, _ := m.Variables(name)
		lo, hi := f.Domain().Bounds()
		for i, k := range f.Keys() {
			colOf[Var{family: name, pos: i}] = len(columns)
			columns = append(columns, Address{Family: name, Key: k})
			colLower = append(colLower, lo)
			colUpper = append(colUpper, hi)
		}
	}

	var rows []*Constraint
	for _, name := range conFamilies {
		rows = append(rows, m.Constraints(name)...)
	}
	if len(columns) == 0 || len(rows) == 0 {
		return nil, ErrEmptyModel
	}
	if cells := len(rows) * len(columns); cells/len(columns) != len(rows) || cells > MaxDenseCells {
		return nil, fmt.Errorf("%w: %d rows x %d columns, limit is %d cells", ErrTooLarge, len(rows), len(columns), MaxDenseCells)
	}

	sf := &StandardForm{
		Columns:  columns,
		Rows:     make([]Address, len(rows)),
		A:        mat.NewDense(len(rows), len(columns), nil),
		RowLower: mat.NewVecDense(len(rows), nil),
		RowUpper: mat.NewVecDense(len(rows), nil),
		ColLower: mat.NewVecDense(len(columns), colLower),
		ColUpper: mat.NewVecDense(len(columns), colUpper),
	}
	for r, c := range rows {
		sf.Rows[r] = c.Address()
		sf.RowLower.SetVec(r, c.Lower)
		sf.RowUpper.SetVec(r, c.Upper)
		for _, t := range c.Body.Terms {
			col, ok := colOf[t.Var]
			if !ok {
				return nil, fmt.Errorf("constraint %s references undeclared variable family %q", c.Address(), t.Var.family)
			}
			sf.A.Set(r, col, sf.A.At(r, col)+t.Coef)
		}
	}

	sf.Objective = mat.NewVecDense(len(columns), nil)
	if obj, ok := m.Objective(); ok {
		sf.Sense = obj.Sense
		sf.ObjectiveOffset = obj.Expr.Constant
		for _, t := range obj.Expr.Terms {
			col, ok := colOf[t.Var]
			if !ok {
				return nil, fmt.Errorf("objective references undeclared variable family %q", t.Var.family)
			}
			sf.Objective.SetVec(col, sf.Objective.AtVec(col)+t.Coef)
		}
	}
	return sf, nil
}

// RowActivity returns A x for a candidate solution ordered like Columns.
func (sf *StandardForm) RowActivity(x []float64) (*mat.VecDense, error) {
	_, cols := sf.A.Dims()
	if len(x) != cols {
		return nil, fmt.Errorf("solution has %d values, model has %d columns", len(x), cols)
	}
	rows, _ := sf.A.Dims()
	out := mat.NewVecDense(rows, nil)
	out.MulVec(sf.A, mat.NewVecDense(cols, x))
	return out, nil
}
