package factory

import (
	"protomodel/internal/smt"
)

type userSortInfo struct {
	universe *Universe
	finite   bool
	next     uint32
}

// UserSortFactory tracks the universes of uninterpreted sorts and hands out
// model values S!val!i for them. It is also the fallback for interpreted sorts
// whose family has no factory.
type UserSortFactory struct {
	m     *smt.Manager
	infos map[*smt.Sort]*userSortInfo
	sorts []*smt.Sort
}

func NewUserSortFactory(m *smt.Manager) *UserSortFactory {
	return &UserSortFactory{
		m:     m,
		infos: make(map[*smt.Sort]*userSortInfo),
		sorts: make([]*smt.Sort, 0),
	}
}

func (uf *UserSortFactory) FamilyID() smt.FamilyID {
	return smt.NullFamily
}

func (uf *UserSortFactory) info(s *smt.Sort) *userSortInfo {
	info, ok := uf.infos[s]
	if !ok {
		info = &userSortInfo{universe: newUniverse()}
		uf.infos[s] = info
		if s.IsUninterp() {
			uf.sorts = append(uf.sorts, s)
		}
	}
	return info
}

func (uf *UserSortFactory) mkFresh(s *smt.Sort, info *userSortInfo) *smt.Expr {
	for {
		v := uf.m.MkModelValue(info.next, s)
		info.next++
		if info.universe.add(v) {
			return v
		}
	}
}

// GetSomeValue never fails: an empty universe gets its first element even
// when it is frozen.
func (uf *UserSortFactory) GetSomeValue(s *smt.Sort) *smt.Expr {
	info := uf.info(s)
	if v := info.universe.first(); v != nil {
		return v
	}
	return uf.mkFresh(s, info)
}

func (uf *UserSortFactory) GetSomeValues(s *smt.Sort) (*smt.Expr, *smt.Expr, bool) {
	info := uf.info(s)
	for info.universe.Len() < 2 {
		if info.finite {
			return nil, nil, false
		}
		uf.mkFresh(s, info)
	}
	return info.universe.values[0], info.universe.values[1], true
}

// GetFreshValue returns nil once the universe of s is frozen.
func (uf *UserSortFactory) GetFreshValue(s *smt.Sort) *smt.Expr {
	info := uf.info(s)
	if info.finite {
		return nil
	}
	return uf.mkFresh(s, info)
}

func (uf *UserSortFactory) RegisterValue(v *smt.Expr) {
	uf.info(v.Sort()).universe.add(v)
}

func (uf *UserSortFactory) FreezeUniverse(s *smt.Sort) {
	uf.info(s).finite = true
}

func (uf *UserSortFactory) IsFinite(s *smt.Sort) bool {
	info, ok := uf.infos[s]
	return ok && info.finite
}

func (uf *UserSortFactory) GetKnownUniverse(s *smt.Sort) *Universe {
	return uf.info(s).universe
}

// NumSorts counts the uninterpreted sorts seen so far.
func (uf *UserSortFactory) NumSorts() int {
	return len(uf.sorts)
}

func (uf *UserSortFactory) GetSort(idx int) *smt.Sort {
	return uf.sorts[idx]
}
