package lp

// Var is a handle to one member of a variable family. The zero Var is
// not a valid variable.
type Var struct {
	family string
	pos    int
}

// Family returns the name of the family the variable belongs to.
func (v Var) Family() string {
	return v.family
}

// IsZero reports whether v is the zero handle.
func (v Var) IsZero() bool {
	return v.family == ""
}

// Term is a coefficient applied to a variable.
type Term struct {
	Var  Var
	Coef float64
}

// Expr is an affine expression: a sum of terms plus a constant.
// Expressions are values; every operation returns a new Expr.
type Expr struct {
	Terms    []Term
	Constant float64
}

// V lifts a variable into an expression with coefficient 1.
func V(v Var) Expr {
	return Expr{Terms: []Term{{Var: v, Coef: 1}}}
}

// Const returns a constant expression.
func Const(c float64) Expr {
	return Expr{Constant: c}
}

// Sum adds all given expressions.
func Sum(exprs ...Expr) Expr {
	n := 0
	for _, e := range exprs {
		n += len(e.Terms)
	}
	out := Expr{Terms: make([]Term, 0, n)}
	for _, e := range exprs {
		out.Terms = append(out.Terms, e.Terms...)
		out.Constant += e.Constant
	}
	return out
}

// Plus returns e + o.
func (e Expr) Plus(o Expr) Expr {
	return Sum(e, o)
}

// Minus returns e - o.
func (e Expr) Minus(o Expr) Expr {
	return Sum(e, o.Times(-1))
}

// Times scales every term and the constant by c.
func (e Expr) Times(c float64) Expr {
	out := Expr{Terms: make([]Term, len(e.Terms)), Constant: e.Constant * c}
	for i, t := range e.Terms {
		out.Terms[i] = Term{Var: t.Var, Coef: t.Coef * c}
	}
	return out
}

// Simplify merges repeated variables, keeping first-occurrence order, and
// drops terms whose coefficient is zero.
func (e Expr) Simplify() Expr {
	pos := make(map[Var]int, len(e.Terms))
	merged := make([]Term, 0, len(e.Terms))
	for _, t := range e.Terms {
		if i, ok := pos[t.Var]; ok {
			merged[i].Coef += t.Coef
			continue
		}
		pos[t.Var] = len(merged)
		merged = append(merged, t)
	}
	out := Expr{Terms: merged[:0], Constant: e.Constant}
	for _, t := range merged {
		if t.Coef != 0 {
			out.Terms = append(out.Terms, t)
		}
	}
	return out
}

// Coef returns the total coefficient of v in e.
func (e Expr) Coef(v Var) float64 {
	var c float64
	for _, t := range e.Terms {
		if t.Var == v {
			c += t.Coef
		}
	}
	return c
}

// Vars returns the distinct variables of e in first-occurrence order.
func (e Expr) Vars() []Var {
	s := e.Simplify()
	out := make([]Var, len(s.Terms))
	for i, t := range s.Terms {
		out[i] = t.Var
	}
	return out
}

// Eval computes the value of e; variables missing from values count as 0.
func (e Expr) Eval(values map[Var]float64) float64 {
	total := e.Constant
	for _, t := range e.Terms {
		total += t.Coef * values[t.Var]
	}
	return total
}
