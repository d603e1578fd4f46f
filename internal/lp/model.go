package lp

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// Domain is the admissible range of a variable family.
type Domain int

const (
	Reals Domain = iota
	NonNegativeReals
	NonPositiveReals
)

// Bounds returns the lower and upper bound implied by the domain.
func (d Domain) Bounds() (float64, float64) {
	switch d {
	case NonNegativeReals:
		return 0, math.Inf(1)
	case NonPositiveReals:
		return math.Inf(-1), 0
	default:
		return math.Inf(-1), math.Inf(1)
	}
}

func (d Domain) String() string {
	switch d {
	case NonNegativeReals:
		return "NonNegativeReals"
	case NonPositiveReals:
		return "NonPositiveReals"
	default:
		return "Reals"
	}
}

// VarFamily is an indexed collection of variables sharing a name and domain.
// A family is immutable once declared.
type VarFamily struct {
	name   string
	domain Domain
	keys   []Key
	index  map[string]int
}

func (f *VarFamily) Name() string   { return f.name }
func (f *VarFamily) Domain() Domain { return f.domain }
func (f *VarFamily) Len() int       { return len(f.keys) }

// Keys returns the index tuples of the family in declaration order.
func (f *VarFamily) Keys() []Key {
	return f.keys
}

// Lookup returns the variable at the given index.
func (f *VarFamily) Lookup(key ...string) (Var, bool) {
	pos, ok := f.index[Key(key).String()]
	if !ok {
		return Var{}, false
	}
	return Var{family: f.name, pos: pos}, true
}

// At returns the variable at the given index and panics when it is not a
// member. Callers index families with the same sets they were declared
// with, so a miss is a programming error.
func (f *VarFamily) At(key ...string) Var {
	v, ok := f.Lookup(key...)
	if !ok {
		panic(fmt.Sprintf("lp: %s has no member %s", f.name, Address{Family: f.name, Key: key}))
	}
	return v
}

// Has reports whether key is a member of the family.
func (f *VarFamily) Has(key ...string) bool {
	_, ok := f.index[Key(key).String()]
	return ok
}

// Sense classifies a relation.
type Sense int

const (
	EQ Sense = iota
	LE
	GE
	Range
)

func (s Sense) String() string {
	switch s {
	case EQ:
		return "=="
	case LE:
		return "<="
	case GE:
		return ">="
	default:
		return "range"
	}
}

// Relation is `Lower <= Body <= Upper` with the constant folded into the
// bounds. Infinite bounds mean the side is open.
type Relation struct {
	Body  Expr
	Lower float64
	Upper float64
}

// Eq builds lhs == rhs.
func Eq(lhs, rhs Expr) Relation {
	body, c := fold(lhs.Minus(rhs))
	return Relation{Body: body, Lower: -c, Upper: -c}
}

// Le builds lhs <= rhs.
func Le(lhs, rhs Expr) Relation {
	body, c := fold(lhs.Minus(rhs))
	return Relation{Body: body, Lower: math.Inf(-1), Upper: -c}
}

// Ge builds lhs >= rhs.
func Ge(lhs, rhs Expr) Relation {
	body, c := fold(lhs.Minus(rhs))
	return Relation{Body: body, Lower: -c, Upper: math.Inf(1)}
}

// Between builds lo <= body <= hi. Use math.Inf for an open side.
func Between(lo float64, body Expr, hi float64) Relation {
	b, c := fold(body)
	return Relation{Body: b, Lower: lo - c, Upper: hi - c}
}

func fold(e Expr) (Expr, float64) {
	s := e.Simplify()
	c := s.Constant
	s.Constant = 0
	return s, c
}

// Sense returns how the relation bounds its body.
func (r Relation) Sense() Sense {
	switch {
	case r.Lower == r.Upper:
		return EQ
	case math.IsInf(r.Lower, -1):
		return LE
	case math.IsInf(r.Upper, 1):
		return GE
	default:
		return Range
	}
}

// Constraint is one member of a constraint family.
type Constraint struct {
	Family string
	Key    Key
	Relation
}

// Address returns the canonical address of the constraint.
func (c *Constraint) Address() Address {
	return Address{Family: c.Family, Key: c.Key}
}

// Satisfied evaluates the constraint against candidate variable values.
func (c *Constraint) Satisfied(values map[Var]float64, tol float64) bool {
	v := c.Body.Eval(values)
	return v >= c.Lower-tol && v <= c.Upper+tol
}

type constraintFamily struct {
	items []*Constraint
	index map[string]int
}

// ObjectiveSense is the direction of optimization.
type ObjectiveSense int

const (
	Minimize ObjectiveSense = iota
	Maximize
)

// Objective is the function handed to the solver together with the model.
type Objective struct {
	Sense ObjectiveSense
	Expr  Expr
}

// Stats summarizes the size of a model.
type Stats struct {
	VariableFamilies   int
	Variables          int
	ConstraintFamilies int
	Constraints        int
	PerFamily          map[string]int
}

// Model is a collection of variable and constraint families.
type Model struct {
	Name string

	mu        sync.RWMutex
	vars      map[string]*VarFamily
	cons      map[string]*constraintFamily
	objective *Objective
}

// NewModel creates an empty model.
func NewModel(name string) *Model {
	return &Model{
		Name: name,
		vars: make(map[string]*VarFamily),
		cons: make(map[string]*constraintFamily),
	}
}

// AddVariables declares a variable family over the given index tuples.
func (m *Model) AddVariables(name string, domain Domain, keys []Key) (*VarFamily, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.vars[name]; exists {
		return nil, fmt.Errorf("variable family %q already declared", name)
	}
	f := &VarFamily{
		name:   name,
		domain: domain,
		keys:   make([]Key, 0, len(keys)),
		index:  make(map[string]int, len(keys)),
	}
	for _, k := range keys {
		ks := k.String()
		if _, dup := f.index[ks]; dup {
			return nil, fmt.Errorf("variable family %q: duplicate index %s", name, ks)
		}
		f.index[ks] = len(f.keys)
		f.keys = append(f.keys, k)
	}
	m.vars[name] = f
	return f, nil
}

// Variables returns a declared variable family.
func (m *Model) Variables(name string) (*VarFamily, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.vars[name]
	return f, ok
}

// Var looks up a single variable.
func (m *Model) Var(family string, key ...string) (Var, bool) {
	f, ok := m.Variables(family)
	if !ok {
		return Var{}, false
	}
	return f.Lookup(key...)
}

// VarByAddress resolves a variable from its string address.
func (m *Model) VarByAddress(raw string) (Var, error) {
	addr, err := ParseAddress(raw)
	if err != nil {
		return Var{}, err
	}
	v, ok := m.Var(addr.Family, addr.Key...)
	if !ok {
		return Var{}, fmt.Errorf("variable %s not found", addr)
	}
	return v, nil
}

// VarAddress returns the address of a variable handle.
func (m *Model) VarAddress(v Var) Address {
	f, ok := m.Variables(v.family)
	if !ok || v.pos >= len(f.keys) {
		return Address{Family: v.family}
	}
	return Address{Family: v.family, Key: f.keys[v.pos]}
}

// AddConstraint adds one constraint to a family. Adding the same index
// twice is an error.
func (m *Model) AddConstraint(family string, key Key, rel Relation) error {
	if rel.Lower > rel.Upper {
		return fmt.Errorf("constraint %s has empty bounds [%g, %g]", Address{Family: family, Key: key}, rel.Lower, rel.Upper)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cf, ok := m.cons[family]
	if !ok {
		cf = &constraintFamily{index: make(map[string]int)}
		m.cons[family] = cf
	}
	ks := key.String()
	if _, dup := cf.index[ks]; dup {
		return fmt.Errorf("constraint %s already defined", Address{Family: family, Key: key})
	}
	cf.index[ks] = len(cf.items)
	cf.items = append(cf.items, &Constraint{Family: family, Key: key, Relation: rel})
	return nil
}

// Constraint returns a single constraint.
func (m *Model) Constraint(family string, key ...string) (*Constraint, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cf, ok := m.cons[family]
	if !ok {
		return nil, false
	}
	pos, ok := cf.index[Key(key).String()]
	if !ok {
		return nil, false
	}
	return cf.items[pos], true
}

// ConstraintByAddress resolves a constraint from its string address.
func (m *Model) ConstraintByAddress(raw string) (*Constraint, error) {
	addr, err := ParseAddress(raw)
	if err != nil {
		return nil, err
	}
	c, ok := m.Constraint(addr.Family, addr.Key...)
	if !ok {
		return nil, fmt.Errorf("constraint %s not found", addr)
	}
	return c, nil
}

// HasConstraint reports whether a constraint exists at the given index.
func (m *Model) HasConstraint(family string, key ...string) bool {
	_, ok := m.Constraint(family, key...)
	return ok
}

// Constraints returns the members of a constraint family in insertion order.
func (m *Model) Constraints(family string) []*Constraint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cf, ok := m.cons[family]
	if !ok {
		return nil
	}
	out := make([]*Constraint, len(cf.items))
	copy(out, cf.items)
	return out
}

// VariableFamilies returns the declared variable family names, sorted.
func (m *Model) VariableFamilies() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.vars))
	for n := range m.vars {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ConstraintFamilies returns the names of the non-empty constraint
// families, sorted.
func (m *Model) ConstraintFamilies() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.cons))
	for n := range m.cons {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SetObjective replaces the model objective.
func (m *Model) SetObjective(sense ObjectiveSense, e Expr) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objective = &Objective{Sense: sense, Expr: e.Simplify()}
}

// Objective returns the model objective, if one was set.
func (m *Model) Objective() (Objective, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.objective == nil {
		return Objective{}, false
	}
	return *m.objective, true
}

// Stats counts variables and constraints.
func (m *Model) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Stats{
		VariableFamilies:   len(m.vars),
		ConstraintFamilies: len(m.cons),
		PerFamily:          make(map[string]int, len(m.vars)+len(m.cons)),
	}
	for name, f := range m.vars {
		s.Variables += f.Len()
		s.PerFamily[name] = f.Len()
	}
	for name, cf := range m.cons {
		s.Constraints += len(cf.items)
		s.PerFamily[name] = len(cf.items)
	}
	return s
}
