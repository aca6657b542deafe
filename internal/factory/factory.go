// Package factory manufactures model values. Each theory family plugs in one
// ValueFactory; sorts no plugin claims are served by the UserSortFactory.
package factory

import (
	"protomodel/internal/smt"

	"github.com/pkg/errors"
)

var ErrDuplicateFactory = errors.New("value factory already registered")

type ValueFactory interface {
	FamilyID() smt.FamilyID
	// GetSomeValue returns an arbitrary value of sort s.
	GetSomeValue(s *smt.Sort) *smt.Expr
	// GetSomeValues returns two distinct values of sort s, ok is false when
	// the sort does not have two.
	GetSomeValues(s *smt.Sort) (v1, v2 *smt.Expr, ok bool)
	// GetFreshValue returns a value not returned or registered before, nil
	// when the sort is exhausted.
	GetFreshValue(s *smt.Sort) *smt.Expr
	// RegisterValue records a value observed outside the factory.
	RegisterValue(v *smt.Expr)
}

type Registry struct {
	plugins map[smt.FamilyID]ValueFactory
}

func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[smt.FamilyID]ValueFactory),
	}
}

func (r *Registry) Register(f ValueFactory) error {
	fid := f.FamilyID()
	if _, ok := r.plugins[fid]; ok {
		return errors.Wrapf(ErrDuplicateFactory, "family %d", fid)
	}
	r.plugins[fid] = f
	return nil
}

// Get returns the plugin of the family, nil when there is none.
func (r *Registry) Get(fid smt.FamilyID) ValueFactory {
	return r.plugins[fid]
}

