package smt

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
)

// BvModulus returns 2**size.
func BvModulus(size uint32) *big.Int {
	return math.BigPow(2, int64(size))
}

func (m *Manager) bvNumDecl(size uint32) *FuncDecl {
	return m.builtinDecl(BVFamily, OpBNum, "bv", nil, m.BvSort(size), nil)
}

// MkBvNumeral returns value mod 2**size as a bit-vector numeral.
func (m *Manager) MkBvNumeral(value *big.Int, size uint32) *Expr {
	v := new(big.Int).Mod(value, BvModulus(size))
	return m.mkValueExpr(m.bvNumDecl(size), v)
}

func (m *Manager) MkBvInt64(value int64, size uint32) *Expr {
	return m.MkBvNumeral(big.NewInt(value), size)
}

// IsBvNumeral returns the unsigned value and width of a bit-vector numeral.
func IsBvNumeral(e *Expr) (*big.Int, uint32, bool) {
	if !e.IsAppOf(BVFamily, OpBNum) {
		return nil, 0, false
	}
	return new(big.Int).Set(e.val), e.sort.size, true
}

func (m *Manager) checkBv(op string, args []*Expr) {
	for _, a := range args {
		if a.sort.kind != BVSort {
			panic(errors.Errorf("%s: argument %s is not a bit-vector", op, a))
		}
	}
	m.checkSameSort(op, args)
}

func (m *Manager) mkBv(op OpKind, name string, args ...*Expr) *Expr {
	m.checkBv(name, args)
	return m.mkBuiltin(BVFamily, op, name, args[0].sort, args...)
}

func (m *Manager) mkBvPred(op OpKind, name string, a, b *Expr) *Expr {
	m.checkBv(name, []*Expr{a, b})
	return m.mkBuiltin(BVFamily, op, name, m.BoolSort(), a, b)
}

func (m *Manager) MkBvAdd(a, b *Expr) *Expr {
	return m.mkBv(OpBAdd, "bvadd", a, b)
}

func (m *Manager) MkBvMul(a, b *Expr) *Expr {
	return m.mkBv(OpBMul, "bvmul", a, b)
}

func (m *Manager) MkBvAnd(a, b *Expr) *Expr {
	return m.mkBv(OpBAnd, "bvand", a, b)
}

func (m *Manager) MkBvOr(a, b *Expr) *Expr {
	return m.mkBv(OpBOr, "bvor", a, b)
}

func (m *Manager) MkBvNot(a *Expr) *Expr {
	return m.mkBv(OpBNot, "bvnot", a)
}

func (m *Manager) MkBvUlt(a, b *Expr) *Expr {
	return m.mkBvPred(OpULt, "bvult", a, b)
}

func (m *Manager) MkBvUle(a, b *Expr) *Expr {
	return m.mkBvPred(OpULe, "bvule", a, b)
}

// BvString renders a bit-vector numeral in binary, most significant bit first.
func BvString(e *Expr) string {
	v, size, ok := IsBvNumeral(e)
	if !ok {
		return e.String()
	}
	return fmt.Sprintf("#b%0*b", int(size), v)
}
