package smt

import (
	"math/big"

	"github.com/pkg/errors"
)

func (m *Manager) intNumDecl() *FuncDecl {
	return m.builtinDecl(ArithFamily, OpNum, "num", nil, m.IntSort(), nil)
}

func (m *Manager) MkInt(value int64) *Expr {
	return m.MkIntNumeral(big.NewInt(value))
}

func (m *Manager) MkIntNumeral(value *big.Int) *Expr {
	return m.mkValueExpr(m.intNumDecl(), value)
}

// IsNumeral returns the value of an Int numeral.
func IsNumeral(e *Expr) (*big.Int, bool) {
	if !e.IsAppOf(ArithFamily, OpNum) {
		return nil, false
	}
	return new(big.Int).Set(e.val), true
}

func (m *Manager) checkInt(op string, args []*Expr) {
	for _, a := range args {
		if a.sort.kind != IntSort {
			panic(errors.Errorf("%s: argument %s is not an Int", op, a))
		}
	}
}

func (m *Manager) mkArith(op OpKind, name string, rng *Sort, args ...*Expr) *Expr {
	m.checkInt(name, args)
	return m.mkBuiltin(ArithFamily, op, name, rng, args...)
}

func (m *Manager) MkAdd(args ...*Expr) *Expr {
	return m.mkArith(OpAdd, "+", m.IntSort(), args...)
}

func (m *Manager) MkSub(args ...*Expr) *Expr {
	return m.mkArith(OpSub, "-", m.IntSort(), args...)
}

func (m *Manager) MkMul(args ...*Expr) *Expr {
	return m.mkArith(OpMul, "*", m.IntSort(), args...)
}

func (m *Manager) MkUminus(a *Expr) *Expr {
	return m.mkArith(OpUminus, "-", m.IntSort(), a)
}

func (m *Manager) MkLe(a, b *Expr) *Expr {
	return m.mkArith(OpLe, "<=", m.BoolSort(), a, b)
}

func (m *Manager) MkLt(a, b *Expr) *Expr {
	return m.mkArith(OpLt, "<", m.BoolSort(), a, b)
}

func (m *Manager) MkGe(a, b *Expr) *Expr {
	return m.mkArith(OpGe, ">=", m.BoolSort(), a, b)
}

func (m *Manager) MkGt(a, b *Expr) *Expr {
	return m.mkArith(OpGt, ">", m.BoolSort(), a, b)
}
