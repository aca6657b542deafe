package model

import (
	"fmt"
	"strings"

	"protomodel/internal/funcinterp"
	"protomodel/internal/rewriter"
	"protomodel/internal/smt"

	log "github.com/sirupsen/logrus"
)

// Model is the finished, read-only model produced by ProtoModel.MkModel.
type Model struct {
	core
	eval      *Evaluator
	usorts    map[*smt.Sort][]*smt.Expr
	usortList []*smt.Sort
}

func newModel(m *smt.Manager, rw *rewriter.Rewriter) *Model {
	md := &Model{
		core:      newCore(m),
		usorts:    make(map[*smt.Sort][]*smt.Expr),
		usortList: make([]*smt.Sort, 0),
	}
	md.eval = NewEvaluator(m, rw, md, nil)
	return md
}

func (md *Model) registerUsort(s *smt.Sort, universe []*smt.Expr) {
	if _, ok := md.usorts[s]; !ok {
		md.usortList = append(md.usortList, s)
	}
	values := make([]*smt.Expr, len(universe))
	copy(values, universe)
	md.usorts[s] = values
}

func (md *Model) UninterpretedSorts() []*smt.Sort {
	return md.usortList
}

// GetUniverse returns the universe recorded for s, nil for unknown sorts.
func (md *Model) GetUniverse(s *smt.Sort) []*smt.Expr {
	return md.usorts[s]
}

// Eval evaluates e without model completion.
func (md *Model) Eval(e *smt.Expr) (*smt.Expr, error) {
	return md.eval.Eval(e)
}

func (md *Model) String() string {
	var sb strings.Builder
	md.write(&sb)
	for _, s := range md.usortList {
		names := make([]string, len(md.usorts[s]))
		for i, v := range md.usorts[s] {
			names[i] = v.String()
		}
		fmt.Fprintf(&sb, "%s -> {%s}\n", s.Name(), strings.Join(names, " "))
	}
	return sb.String()
}

// MkModel finalizes the builder. Constant interpretations are copied and stay
// queryable on the builder; function tables are moved into the model and the
// builder keeps none of them, nor any function or auxiliary declaration. The
// universe of every uninterpreted sort is snapshotted into the model.
func (p *ProtoModel) MkModel() *Model {
	log.Debugf("building model: %d constants, %d functions", len(p.constDecls), len(p.funcDecls))
	md := newModel(p.m, p.rw)
	for _, d := range p.constDecls {
		md.RegisterConst(d, p.interp[d])
	}
	for _, d := range p.funcDecls {
		md.RegisterFunc(d, p.finterp[d])
		d.DecRef()
	}
	p.finterp = make(map[*smt.FuncDecl]*funcinterp.FuncInterp)
	p.decls = filterDecls(p.decls, func(f *smt.FuncDecl) bool {
		_, ok := p.interp[f]
		return ok
	})
	p.funcDecls = p.funcDecls[:0]
	p.auxDecls = smt.NewDeclSet()

	for i := 0; i < p.NumUninterpretedSorts(); i++ {
		s := p.GetUninterpretedSort(i)
		md.registerUsort(s, p.GetUniverse(s))
	}
	return md
}

// Finalize is MkModel.
func (p *ProtoModel) Finalize() *Model {
	return p.MkModel()
}
