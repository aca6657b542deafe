package factory

import (
	"math/big"

	"protomodel/internal/smt"
)

type ArithFactory struct {
	numberFactory
}

func NewArithFactory(m *smt.Manager) *ArithFactory {
	mk := func(n *big.Int, _ *smt.Sort) *smt.Expr {
		return m.MkIntNumeral(n)
	}
	isNum := func(v *smt.Expr) bool {
		_, ok := smt.IsNumeral(v)
		return ok
	}
	return &ArithFactory{newNumberFactory(smt.ArithFamily, mk, isNum)}
}
