package factory

import (
	"math/big"

	"protomodel/internal/smt"
)

// Universe is an insertion-ordered set of values.
type Universe struct {
	values []*smt.Expr
	index  map[*smt.Expr]struct{}
}

func newUniverse() *Universe {
	return &Universe{
		values: make([]*smt.Expr, 0),
		index:  make(map[*smt.Expr]struct{}),
	}
}

func (u *Universe) Len() int {
	return len(u.values)
}

func (u *Universe) Contains(v *smt.Expr) bool {
	_, ok := u.index[v]
	return ok
}

// AppendTo appends the values in insertion order to dst.
func (u *Universe) AppendTo(dst []*smt.Expr) []*smt.Expr {
	return append(dst, u.values...)
}

func (u *Universe) first() *smt.Expr {
	if len(u.values) == 0 {
		return nil
	}
	return u.values[0]
}

// retain drops the values for which keep is false.
func (u *Universe) retain(keep func(*smt.Expr) bool) {
	kept := u.values[:0]
	for _, v := range u.values {
		if keep(v) {
			kept = append(kept, v)
		} else {
			delete(u.index, v)
		}
	}
	u.values = kept
}

func (u *Universe) add(v *smt.Expr) bool {
	if u.Contains(v) {
		return false
	}
	u.index[v] = struct{}{}
	u.values = append(u.values, v)
	return true
}

type numberSet struct {
	values *Universe
	next   *big.Int
}

// numberFactory hands out values indexed by natural numbers, skipping the
// ones already registered.
type numberFactory struct {
	fid     smt.FamilyID
	sets    map[*smt.Sort]*numberSet
	mkValue func(n *big.Int, s *smt.Sort) *smt.Expr
	decode  func(v *smt.Expr) bool
	bound   func(s *smt.Sort) *big.Int
}

func newNumberFactory(fid smt.FamilyID, mkValue func(*big.Int, *smt.Sort) *smt.Expr, decode func(*smt.Expr) bool) numberFactory {
	return numberFactory{
		fid:     fid,
		sets:    make(map[*smt.Sort]*numberSet),
		mkValue: mkValue,
		decode:  decode,
	}
}

func (nf *numberFactory) FamilyID() smt.FamilyID {
	return nf.fid
}

func (nf *numberFactory) set(s *smt.Sort) *numberSet {
	set, ok := nf.sets[s]
	if !ok {
		set = &numberSet{
			values: newUniverse(),
			next:   new(big.Int),
		}
		nf.sets[s] = set
	}
	return set
}

func (nf *numberFactory) GetSomeValue(s *smt.Sort) *smt.Expr {
	if v := nf.set(s).values.first(); v != nil {
		return v
	}
	return nf.GetFreshValue(s)
}

func (nf *numberFactory) GetSomeValues(s *smt.Sort) (*smt.Expr, *smt.Expr, bool) {
	set := nf.set(s)
	for set.values.Len() < 2 {
		if nf.GetFreshValue(s) == nil {
			return nil, nil, false
		}
	}
	return set.values.values[0], set.values.values[1], true
}

func (nf *numberFactory) GetFreshValue(s *smt.Sort) *smt.Expr {
	set := nf.set(s)
	var limit *big.Int
	if nf.bound != nil {
		limit = nf.bound(s)
	}
	for {
		if limit != nil && set.next.Cmp(limit) >= 0 {
			return nil
		}
		v := nf.mkValue(set.next, s)
		set.next = new(big.Int).Add(set.next, big.NewInt(1))
		if set.values.add(v) {
			return v
		}
	}
}

func (nf *numberFactory) RegisterValue(v *smt.Expr) {
	if !nf.decode(v) {
		return
	}
	nf.set(v.Sort()).values.add(v)
}
