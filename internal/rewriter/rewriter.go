// Package rewriter is the simplifying application constructor used by the
// model evaluator and the cleanup pass: it folds builtin operators applied to
// values and otherwise rebuilds the application unchanged.
package rewriter

import (
	"math/big"

	"protomodel/internal/smt"
)

type Rewriter struct {
	m *smt.Manager
}

func New(m *smt.Manager) *Rewriter {
	return &Rewriter{m: m}
}

// MkApp returns a simplified term equivalent to f(args...).
func (r *Rewriter) MkApp(f *smt.FuncDecl, args []*smt.Expr) *smt.Expr {
	switch f.Family() {
	case smt.BasicFamily:
		return r.mkBasic(f, args)
	case smt.ArithFamily:
		return r.mkArith(f, args)
	case smt.BVFamily:
		return r.mkBv(f, args)
	case smt.ArrayFamily:
		return r.mkArray(f, args)
	}
	return r.m.MkApp(f, args...)
}

func (r *Rewriter) mkBasic(f *smt.FuncDecl, args []*smt.Expr) *smt.Expr {
	m := r.m
	switch f.Op() {
	case smt.OpNot:
		a := args[0]
		switch {
		case smt.IsTrue(a):
			return m.MkFalse()
		case smt.IsFalse(a):
			return m.MkTrue()
		case a.IsAppOf(smt.BasicFamily, smt.OpNot):
			return a.Arg(0)
		}
	case smt.OpAnd, smt.OpOr:
		// and: absorbing false, neutral true; or: the reverse
		absorbing, neutral := smt.IsFalse, smt.IsTrue
		if f.Op() == smt.OpOr {
			absorbing, neutral = smt.IsTrue, smt.IsFalse
		}
		kept := make([]*smt.Expr, 0, len(args))
		for _, a := range args {
			if absorbing(a) {
				return a
			}
			if !neutral(a) {
				kept = append(kept, a)
			}
		}
		switch {
		case len(kept) == 0:
			return m.MkBool(f.Op() == smt.OpAnd)
		case len(kept) == 1:
			return kept[0]
		case len(kept) == len(args):
			return m.MkApp(f, args...)
		case f.Op() == smt.OpAnd:
			return m.MkAnd(kept...)
		default:
			return m.MkOr(kept...)
		}
	case smt.OpImplies:
		a, b := args[0], args[1]
		switch {
		case smt.IsFalse(a), smt.IsTrue(b):
			return m.MkTrue()
		case smt.IsTrue(a):
			return b
		case smt.IsFalse(b):
			return r.mkBasic(r.notDecl(a), []*smt.Expr{a})
		}
	case smt.OpEq:
		a, b := args[0], args[1]
		if a == b {
			return m.MkTrue()
		}
		if smt.IsComparableValue(a) && smt.IsComparableValue(b) {
			return m.MkFalse()
		}
	case smt.OpIte:
		c, t, e := args[0], args[1], args[2]
		switch {
		case smt.IsTrue(c):
			return t
		case smt.IsFalse(c):
			return e
		case t == e:
			return t
		}
	}
	return m.MkApp(f, args...)
}

func (r *Rewriter) notDecl(a *smt.Expr) *smt.FuncDecl {
	return r.m.MkNot(a).Decl()
}

func numerals(args []*smt.Expr) ([]*big.Int, bool) {
	vals := make([]*big.Int, len(args))
	for i, a := range args {
		v, ok := smt.IsNumeral(a)
		if !ok {
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}

func (r *Rewriter) mkArith(f *smt.FuncDecl, args []*smt.Expr) *smt.Expr {
	m := r.m
	vals, ok := numerals(args)
	if !ok || len(vals) == 0 {
		return m.MkApp(f, args...)
	}
	switch f.Op() {
	case smt.OpAdd:
		sum := new(big.Int)
		for _, v := range vals {
			sum.Add(sum, v)
		}
		return m.MkIntNumeral(sum)
	case smt.OpSub:
		if len(vals) == 1 {
			return m.MkIntNumeral(new(big.Int).Neg(vals[0]))
		}
		diff := new(big.Int).Set(vals[0])
		for _, v := range vals[1:] {
			diff.Sub(diff, v)
		}
		return m.MkIntNumeral(diff)
	case smt.OpMul:
		prod := big.NewInt(1)
		for _, v := range vals {
			prod.Mul(prod, v)
		}
		return m.MkIntNumeral(prod)
	case smt.OpUminus:
		return m.MkIntNumeral(new(big.Int).Neg(vals[0]))
	case smt.OpLe:
		return m.MkBool(vals[0].Cmp(vals[1]) <= 0)
	case smt.OpLt:
		return m.MkBool(vals[0].Cmp(vals[1]) < 0)
	case smt.OpGe:
		return m.MkBool(vals[0].Cmp(vals[1]) >= 0)
	case smt.OpGt:
		return m.MkBool(vals[0].Cmp(vals[1]) > 0)
	}
	return m.MkApp(f, args...)
}

func (r *Rewriter) mkBv(f *smt.FuncDecl, args []*smt.Expr) *smt.Expr {
	m := r.m
	vals := make([]*big.Int, len(args))
	var size uint32
	for i, a := range args {
		v, sz, ok := smt.IsBvNumeral(a)
		if !ok {
			return m.MkApp(f, args...)
		}
		vals[i], size = v, sz
	}
	if len(vals) == 0 {
		return m.MkApp(f, args...)
	}
	switch f.Op() {
	case smt.OpBAdd:
		return m.MkBvNumeral(new(big.Int).Add(vals[0], vals[1]), size)
	case smt.OpBMul:
		return m.MkBvNumeral(new(big.Int).Mul(vals[0], vals[1]), size)
	case smt.OpBAnd:
		return m.MkBvNumeral(new(big.Int).And(vals[0], vals[1]), size)
	case smt.OpBOr:
		return m.MkBvNumeral(new(big.Int).Or(vals[0], vals[1]), size)
	case smt.OpBNot:
		mask := new(big.Int).Sub(smt.BvModulus(size), big.NewInt(1))
		return m.MkBvNumeral(new(big.Int).Xor(vals[0], mask), size)
	case smt.OpULt:
		return m.MkBool(vals[0].Cmp(vals[1]) < 0)
	case smt.OpULe:
		return m.MkBool(vals[0].Cmp(vals[1]) <= 0)
	}
	return m.MkApp(f, args...)
}

func (r *Rewriter) mkArray(f *smt.FuncDecl, args []*smt.Expr) *smt.Expr {
	if f.Op() != smt.OpSelect {
		return r.m.MkApp(f, args...)
	}
	a, idx := args[0], args[1:]
	for {
		switch {
		case smt.IsConstArray(a):
			return a.Arg(0)
		case smt.IsStore(a):
			n := a.NumArgs()
			stored := a.Args()[1 : n-1]
			switch compareIndices(stored, idx) {
			case indicesEqual:
				return a.Arg(n - 1)
			case indicesDistinct:
				a = a.Arg(0)
				continue
			}
		}
		return r.m.MkSelect(a, idx...)
	}
}

type indexCmp int

const (
	indicesUnknown indexCmp = iota
	indicesEqual
	indicesDistinct
)

func compareIndices(a, b []*smt.Expr) indexCmp {
	equal := true
	for i := range a {
		if a[i] == b[i] {
			continue
		}
		equal = false
		if smt.IsComparableValue(a[i]) && smt.IsComparableValue(b[i]) {
			return indicesDistinct
		}
	}
	if equal {
		return indicesEqual
	}
	return indicesUnknown
}
