// Package model builds models for satisfiable problems. A ProtoModel is the
// mutable builder theories populate while the model is still partial; MkModel
// turns it into an immutable Model.
package model

import (
	"strings"

	"protomodel/internal/config"
	"protomodel/internal/factory"
	"protomodel/internal/funcinterp"
	"protomodel/internal/rewriter"
	"protomodel/internal/smt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ProtoModel is not safe for concurrent use.
type ProtoModel struct {
	core
	rw              *rewriter.Rewriter
	eval            *Evaluator
	factories       *factory.Registry
	userSortFactory *factory.UserSortFactory
	auxDecls        *smt.DeclSet
	partial         bool
	universeBuf     []*smt.Expr
}

func NewProtoModel(m *smt.Manager, params config.Params) *ProtoModel {
	p := &ProtoModel{
		core:            newCore(m),
		rw:              rewriter.New(m),
		factories:       factory.NewRegistry(),
		userSortFactory: factory.NewUserSortFactory(m),
		auxDecls:        smt.NewDeclSet(),
		partial:         params.PartialModels,
		universeBuf:     make([]*smt.Expr, 0),
	}
	p.eval = NewEvaluator(m, p.rw, p, p)
	p.mustRegisterFactory(factory.NewBasicFactory(m))
	p.mustRegisterFactory(p.userSortFactory)
	return p
}

func (p *ProtoModel) mustRegisterFactory(f factory.ValueFactory) {
	if err := p.RegisterFactory(f); err != nil {
		panic(err)
	}
}

// RegisterFactory plugs in the value factory of a theory family.
func (p *ProtoModel) RegisterFactory(f factory.ValueFactory) error {
	log.Debugf("registering value factory for %s", p.m.FamilyName(f.FamilyID()))
	return p.factories.Register(f)
}

// RegisterTheoryFactories plugs in the arithmetic, bit-vector and array
// factories.
func (p *ProtoModel) RegisterTheoryFactories() error {
	for _, f := range []factory.ValueFactory{
		factory.NewArithFactory(p.m),
		factory.NewBVFactory(p.m),
		factory.NewArrayFactory(p.m, p),
	} {
		if err := p.RegisterFactory(f); err != nil {
			return err
		}
	}
	return nil
}

// GetFactory returns nil when the family has no factory.
func (p *ProtoModel) GetFactory(fid smt.FamilyID) factory.ValueFactory {
	return p.factories.Get(fid)
}

// IsPartialModel reports whether function tables are left partial.
func (p *ProtoModel) IsPartialModel() bool {
	return p.partial
}

// RegisterAuxDecl registers the table of d and marks d auxiliary.
func (p *ProtoModel) RegisterAuxDecl(d *smt.FuncDecl, fi *funcinterp.FuncInterp) {
	p.RegisterFunc(d, fi)
	p.auxDecls.Add(d)
}

func (p *ProtoModel) IsAuxDecl(d *smt.FuncDecl) bool {
	return p.auxDecls.Contains(d)
}

func (p *ProtoModel) AuxDecls() []*smt.FuncDecl {
	return p.auxDecls.Elements()
}

// ReregisterDecl makes newFi the table of f. When f already has a table and
// aux is not nil, the old table is kept as the table of aux, which becomes
// auxiliary; with a nil aux the old table is released.
func (p *ProtoModel) ReregisterDecl(f *smt.FuncDecl, newFi *funcinterp.FuncInterp, aux *smt.FuncDecl) {
	fi := p.GetFuncInterp(f)
	if fi == nil {
		p.RegisterFunc(f, newFi)
		return
	}
	if fi == newFi {
		return
	}
	if aux != nil {
		p.RegisterAuxDecl(aux, fi)
	} else {
		fi.Release()
	}
	p.finterp[f] = newFi
}

// MkSomeInterpFor invents an interpretation for d, which must not have one:
// the value itself for a constant, a table with that value as else branch
// otherwise. It returns the invented value.
func (p *ProtoModel) MkSomeInterpFor(d *smt.FuncDecl) *smt.Expr {
	if p.HasInterpretation(d) {
		panic(errors.Errorf("%s already has an interpretation", d.Name()))
	}
	r := p.GetSomeValue(d.Range())
	if d.Arity() == 0 {
		p.RegisterConst(d, r)
	} else {
		fi := funcinterp.New(d.Arity())
		fi.SetElse(r)
		p.RegisterFunc(d, fi)
	}
	return r
}

func (p *ProtoModel) IsAsArray(e *smt.Expr) bool {
	return smt.IsAsArray(e)
}

// IsSelectOfModelValue reports whether e is (select as-array[f] ...) for an
// interpreted f.
func (p *ProtoModel) IsSelectOfModelValue(e *smt.Expr) bool {
	return smt.IsSelect(e) &&
		smt.IsAsArray(e.Arg(0)) &&
		p.HasInterpretation(smt.AsArrayFuncDecl(e.Arg(0)))
}

// Eval evaluates e in the current model. With completion, missing
// interpretations are invented and registered, and partial tables get an
// else branch, so only unsupported constructs make it fail. Without it,
// the returned expression on failure is e simplified as far as possible.
func (p *ProtoModel) Eval(e *smt.Expr, completion bool) (*smt.Expr, error) {
	p.eval.SetModelCompletion(completion)
	r, err := p.eval.Eval(e)
	if err != nil {
		log.Debugf("model evaluation of %s failed: %v", e, err)
	}
	return r, err
}

func (p *ProtoModel) valueFactory(s *smt.Sort) factory.ValueFactory {
	if s.IsUninterp() {
		return p.userSortFactory
	}
	if f := p.factories.Get(s.Family()); f != nil {
		return f
	}
	// no model construction support for the family, treat s as uninterpreted
	return p.userSortFactory
}

func (p *ProtoModel) GetSomeValue(s *smt.Sort) *smt.Expr {
	return p.valueFactory(s).GetSomeValue(s)
}

func (p *ProtoModel) GetSomeValues(s *smt.Sort) (*smt.Expr, *smt.Expr, bool) {
	return p.valueFactory(s).GetSomeValues(s)
}

// GetFreshValue returns nil when s has no value left that was not handed out.
func (p *ProtoModel) GetFreshValue(s *smt.Sort) *smt.Expr {
	return p.valueFactory(s).GetFreshValue(s)
}

func (p *ProtoModel) RegisterValue(v *smt.Expr) {
	p.valueFactory(v.Sort()).RegisterValue(v)
}

func (p *ProtoModel) checkUninterp(op string, s *smt.Sort) {
	if !s.IsUninterp() {
		panic(errors.Errorf("%s: %s is not an uninterpreted sort", op, s))
	}
}

func (p *ProtoModel) FreezeUniverse(s *smt.Sort) {
	p.checkUninterp("freeze universe", s)
	p.userSortFactory.FreezeUniverse(s)
}

func (p *ProtoModel) GetKnownUniverse(s *smt.Sort) *factory.Universe {
	p.checkUninterp("known universe", s)
	return p.userSortFactory.GetKnownUniverse(s)
}

// GetUniverse returns the known universe of s in a buffer owned by the
// builder; the next call overwrites it.
func (p *ProtoModel) GetUniverse(s *smt.Sort) []*smt.Expr {
	p.universeBuf = p.GetKnownUniverse(s).AppendTo(p.universeBuf[:0])
	return p.universeBuf
}

func (p *ProtoModel) NumUninterpretedSorts() int {
	return p.userSortFactory.NumSorts()
}

func (p *ProtoModel) GetUninterpretedSort(idx int) *smt.Sort {
	if idx < 0 || idx >= p.NumUninterpretedSorts() {
		panic(errors.Errorf("uninterpreted sort index %d out of range", idx))
	}
	return p.userSortFactory.GetSort(idx)
}

// IsFinite reports whether s is uninterpreted with a frozen universe.
func (p *ProtoModel) IsFinite(s *smt.Sort) bool {
	return s.IsUninterp() && p.userSortFactory.IsFinite(s)
}

func (p *ProtoModel) String() string {
	var sb strings.Builder
	p.write(&sb)
	for _, d := range p.auxDecls.Elements() {
		sb.WriteString("aux " + d.Name() + "\n")
	}
	return sb.String()
}
