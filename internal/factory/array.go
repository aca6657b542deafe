package factory

import (
	"protomodel/internal/funcinterp"
	"protomodel/internal/smt"
)

// Host is the model under construction, as seen by factories that build
// values out of other values and auxiliary function tables.
type Host interface {
	GetSomeValue(s *smt.Sort) *smt.Expr
	GetSomeValues(s *smt.Sort) (*smt.Expr, *smt.Expr, bool)
	GetFreshValue(s *smt.Sort) *smt.Expr
	RegisterAuxDecl(f *smt.FuncDecl, fi *funcinterp.FuncInterp)
	HasInterpretation(f *smt.FuncDecl) bool
}

// ArrayFactory builds array values as as-array[k!n], where k!n is a fresh
// auxiliary function registered in the host with its own table.
type ArrayFactory struct {
	m      *smt.Manager
	host   Host
	values map[*smt.Sort]*Universe
}

func NewArrayFactory(m *smt.Manager, host Host) *ArrayFactory {
	return &ArrayFactory{
		m:      m,
		host:   host,
		values: make(map[*smt.Sort]*Universe),
	}
}

func (af *ArrayFactory) FamilyID() smt.FamilyID {
	return smt.ArrayFamily
}

func (af *ArrayFactory) universe(s *smt.Sort) *Universe {
	u, ok := af.values[s]
	if !ok {
		u = newUniverse()
		af.values[s] = u
	}
	return u
}

func (af *ArrayFactory) mkArrayInterp(s *smt.Sort) (*smt.Expr, *funcinterp.FuncInterp) {
	f := af.m.MkFreshFuncDecl("k", s.ArrayDomain(), s.ArrayRange())
	fi := funcinterp.New(f.Arity())
	af.host.RegisterAuxDecl(f, fi)
	v := af.m.MkAsArray(f)
	af.universe(s).add(v)
	return v, fi
}

// live reports whether v can still be handed out. An as-array value whose
// table the host has collected no longer denotes anything.
func (af *ArrayFactory) live(v *smt.Expr) bool {
	return !smt.IsAsArray(v) || af.host.HasInterpretation(smt.AsArrayFuncDecl(v))
}

func (af *ArrayFactory) GetSomeValue(s *smt.Sort) *smt.Expr {
	u := af.universe(s)
	u.retain(af.live)
	if v := u.first(); v != nil {
		return v
	}
	v, fi := af.mkArrayInterp(s)
	fi.SetElse(af.host.GetSomeValue(s.ArrayRange()))
	return v
}

func (af *ArrayFactory) GetSomeValues(s *smt.Sort) (*smt.Expr, *smt.Expr, bool) {
	r1, r2, ok := af.host.GetSomeValues(s.ArrayRange())
	if !ok {
		return nil, nil, false
	}
	v1, fi1 := af.mkArrayInterp(s)
	fi1.SetElse(r1)
	v2, fi2 := af.mkArrayInterp(s)
	fi2.SetElse(r2)
	return v1, v2, true
}

// GetFreshValue differs from every earlier array either in its default or,
// when the range has no fresh values, at a fresh index.
func (af *ArrayFactory) GetFreshValue(s *smt.Sort) *smt.Expr {
	if r := af.host.GetFreshValue(s.ArrayRange()); r != nil {
		v, fi := af.mkArrayInterp(s)
		fi.SetElse(r)
		return v
	}
	r1, r2, ok := af.host.GetSomeValues(s.ArrayRange())
	if !ok {
		return nil
	}
	idx := make([]*smt.Expr, len(s.ArrayDomain()))
	for i, d := range s.ArrayDomain() {
		if idx[i] = af.host.GetFreshValue(d); idx[i] == nil {
			return nil
		}
	}
	v, fi := af.mkArrayInterp(s)
	fi.InsertNewEntry(idx, r2)
	fi.SetElse(r1)
	return v
}

func (af *ArrayFactory) RegisterValue(v *smt.Expr) {
	af.universe(v.Sort()).add(v)
}
