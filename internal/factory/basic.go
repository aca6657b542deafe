package factory

import "protomodel/internal/smt"

// BasicFactory produces Boolean values. Bool has no fresh values.
type BasicFactory struct {
	m *smt.Manager
}

func NewBasicFactory(m *smt.Manager) *BasicFactory {
	return &BasicFactory{m: m}
}

func (bf *BasicFactory) FamilyID() smt.FamilyID {
	return smt.BasicFamily
}

func (bf *BasicFactory) GetSomeValue(*smt.Sort) *smt.Expr {
	return bf.m.MkFalse()
}

func (bf *BasicFactory) GetSomeValues(*smt.Sort) (*smt.Expr, *smt.Expr, bool) {
	return bf.m.MkFalse(), bf.m.MkTrue(), true
}

func (bf *BasicFactory) GetFreshValue(*smt.Sort) *smt.Expr {
	return nil
}

func (bf *BasicFactory) RegisterValue(*smt.Expr) {}
