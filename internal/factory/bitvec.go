package factory

import (
	"math/big"

	"protomodel/internal/smt"
)

// BVFactory produces bit-vector numerals. A sort of width n runs out of fresh
// values after 2**n of them.
type BVFactory struct {
	numberFactory
}

func NewBVFactory(m *smt.Manager) *BVFactory {
	mk := func(n *big.Int, s *smt.Sort) *smt.Expr {
		return m.MkBvNumeral(n, s.Size())
	}
	isNum := func(v *smt.Expr) bool {
		_, _, ok := smt.IsBvNumeral(v)
		return ok
	}
	bf := &BVFactory{newNumberFactory(smt.BVFamily, mk, isNum)}
	bf.bound = func(s *smt.Sort) *big.Int {
		return smt.BvModulus(s.Size())
	}
	return bf
}
