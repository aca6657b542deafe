package smt

import (
	"github.com/pkg/errors"
)

func (m *Manager) MkTrue() *Expr {
	return m.mkBuiltin(BasicFamily, OpTrue, "true", m.BoolSort())
}

func (m *Manager) MkFalse() *Expr {
	return m.mkBuiltin(BasicFamily, OpFalse, "false", m.BoolSort())
}

func (m *Manager) MkBool(value bool) *Expr {
	if value {
		return m.MkTrue()
	}
	return m.MkFalse()
}

func (m *Manager) checkBool(op string, args []*Expr) {
	for _, a := range args {
		if !a.sort.IsBool() {
			panic(errors.Errorf("%s: argument %s is not Boolean", op, a))
		}
	}
}

func (m *Manager) MkNot(a *Expr) *Expr {
	m.checkBool("not", []*Expr{a})
	return m.mkBuiltin(BasicFamily, OpNot, "not", m.BoolSort(), a)
}

func (m *Manager) MkAnd(args ...*Expr) *Expr {
	m.checkBool("and", args)
	return m.mkBuiltin(BasicFamily, OpAnd, "and", m.BoolSort(), args...)
}

func (m *Manager) MkOr(args ...*Expr) *Expr {
	m.checkBool("or", args)
	return m.mkBuiltin(BasicFamily, OpOr, "or", m.BoolSort(), args...)
}

func (m *Manager) MkImplies(a, b *Expr) *Expr {
	m.checkBool("=>", []*Expr{a, b})
	return m.mkBuiltin(BasicFamily, OpImplies, "=>", m.BoolSort(), a, b)
}

func (m *Manager) MkEq(a, b *Expr) *Expr {
	m.checkSameSort("=", []*Expr{a, b})
	return m.mkBuiltin(BasicFamily, OpEq, "=", m.BoolSort(), a, b)
}

func (m *Manager) MkIte(c, t, e *Expr) *Expr {
	m.checkBool("ite", []*Expr{c})
	m.checkSameSort("ite", []*Expr{t, e})
	return m.mkBuiltin(BasicFamily, OpIte, "ite", t.sort, c, t, e)
}

func IsTrue(e *Expr) bool {
	return e.IsAppOf(BasicFamily, OpTrue)
}

func IsFalse(e *Expr) bool {
	return e.IsAppOf(BasicFamily, OpFalse)
}
