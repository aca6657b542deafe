package smt

import (
	"github.com/pkg/errors"
)

// Arrays and functions share one representation: an array value is either a
// constant array or as-array[f], the array whose contents are the table of f.

func (m *Manager) checkArray(op string, a *Expr, idx []*Expr) {
	if a.sort.kind != ArraySort {
		panic(errors.Errorf("%s: %s is not an array", op, a))
	}
	if len(idx) != len(a.sort.domain) {
		panic(errors.Errorf("%s: %s expects %d indices, got %d", op, a, len(a.sort.domain), len(idx)))
	}
}

func (m *Manager) MkSelect(a *Expr, idx ...*Expr) *Expr {
	m.checkArray("select", a, idx)
	args := append([]*Expr{a}, idx...)
	return m.mkBuiltin(ArrayFamily, OpSelect, "select", a.sort.rng, args...)
}

// MkStore builds (store a idx... v).
func (m *Manager) MkStore(a *Expr, idxAndValue ...*Expr) *Expr {
	if len(idxAndValue) == 0 {
		panic(errors.New("store: missing value"))
	}
	idx := idxAndValue[:len(idxAndValue)-1]
	m.checkArray("store", a, idx)
	args := append([]*Expr{a}, idxAndValue...)
	return m.mkBuiltin(ArrayFamily, OpStore, "store", a.sort, args...)
}

// MkConstArray returns the array of sort s mapping every index to v.
func (m *Manager) MkConstArray(s *Sort, v *Expr) *Expr {
	if s.kind != ArraySort || s.rng != v.sort {
		panic(errors.Errorf("const: %s is not an array with range %s", s, v.sort))
	}
	f := m.builtinDecl(ArrayFamily, OpConstArray, "const", []*Sort{v.sort}, s, nil)
	return m.MkApp(f, v)
}

// MkAsArray returns the array value whose contents are the interpretation of f.
func (m *Manager) MkAsArray(f *FuncDecl) *Expr {
	if f.Arity() == 0 {
		panic(errors.Errorf("as-array: %s is a constant", f.name))
	}
	s := m.ArraySort(f.domain, f.rng)
	d := m.builtinDecl(ArrayFamily, OpAsArray, "as-array", nil, s, f)
	return m.MkApp(d)
}

func IsAsArray(e *Expr) bool {
	return e.IsAppOf(ArrayFamily, OpAsArray)
}

func IsConstArray(e *Expr) bool {
	return e.IsAppOf(ArrayFamily, OpConstArray)
}

func IsSelect(e *Expr) bool {
	return e.IsAppOf(ArrayFamily, OpSelect)
}

func IsStore(e *Expr) bool {
	return e.IsAppOf(ArrayFamily, OpStore)
}

// AsArrayFuncDecl returns f for as-array[f].
func AsArrayFuncDecl(e *Expr) *FuncDecl {
	if !IsAsArray(e) {
		panic(errors.Errorf("%s is not an as-array term", e))
	}
	return e.decl.param
}
