package model

import (
	"protomodel/internal/funcinterp"
	"protomodel/internal/rewriter"
	"protomodel/internal/smt"

	"github.com/pkg/errors"
)

var (
	// ErrEvaluation reports an interpretation the model does not have.
	ErrEvaluation = errors.New("model evaluation failed")
	// ErrUnsupported reports a construct the evaluator cannot reduce.
	ErrUnsupported = errors.New("unsupported construct")
)

type interpSource interface {
	GetConstInterp(d *smt.FuncDecl) *smt.Expr
	GetFuncInterp(d *smt.FuncDecl) *funcinterp.FuncInterp
}

// completer fabricates missing interpretations in completion mode.
type completer interface {
	MkSomeInterpFor(d *smt.FuncDecl) *smt.Expr
	GetSomeValue(s *smt.Sort) *smt.Expr
}

// Evaluator reduces expressions to values using the interpretations of a
// model. Sub-terms are visited once each through an explicit work stack.
type Evaluator struct {
	m          *smt.Manager
	rw         *rewriter.Rewriter
	src        interpSource
	cmp        completer
	completion bool
}

// NewEvaluator returns an evaluator over src. cmp may be nil, in which case
// completion is never performed.
func NewEvaluator(m *smt.Manager, rw *rewriter.Rewriter, src interpSource, cmp completer) *Evaluator {
	return &Evaluator{
		m:   m,
		rw:  rw,
		src: src,
		cmp: cmp,
	}
}

func (ev *Evaluator) SetModelCompletion(completion bool) {
	ev.completion = completion && ev.cmp != nil
}

func (ev *Evaluator) ModelCompletion() bool {
	return ev.completion
}

// maxEvalDepth bounds nested else branches, which an interpretation that
// refers to its own function would otherwise unfold forever.
const maxEvalDepth = 512

type evalState struct {
	err   error
	depth int
}

func (st *evalState) fail(err error) {
	if st.err == nil {
		st.err = err
	}
}

// Eval reduces e. On failure the returned expression is e simplified as far
// as the available interpretations allow, and the error wraps ErrEvaluation
// or ErrUnsupported.
func (ev *Evaluator) Eval(e *smt.Expr) (*smt.Expr, error) {
	st := &evalState{}
	r := ev.walk(e, nil, st)
	return r, st.err
}

func (ev *Evaluator) walk(root *smt.Expr, bindings []*smt.Expr, st *evalState) *smt.Expr {
	cache := make(map[*smt.Expr]*smt.Expr)
	todo := []*smt.Expr{root}
	for len(todo) > 0 {
		e := todo[len(todo)-1]
		if _, ok := cache[e]; ok {
			todo = todo[:len(todo)-1]
			continue
		}
		switch e.Kind() {
		case smt.VarExpr:
			r := e
			if int(e.Index()) < len(bindings) {
				r = bindings[e.Index()]
			}
			cache[e] = r
		case smt.QuantifierExpr:
			st.fail(errors.Wrapf(ErrUnsupported, "quantifier %s", e))
			cache[e] = e
		default:
			args := make([]*smt.Expr, 0, e.NumArgs())
			visited := true
			for _, a := range e.Args() {
				if r, ok := cache[a]; ok {
					args = append(args, r)
				} else {
					visited = false
					todo = append(todo, a)
				}
			}
			if !visited {
				continue
			}
			cache[e] = ev.reduceApp(e, args, st)
		}
		todo = todo[:len(todo)-1]
	}
	return cache[root]
}

func (ev *Evaluator) reduceApp(e *smt.Expr, args []*smt.Expr, st *evalState) *smt.Expr {
	d := e.Decl()
	if len(args) == 0 && !d.IsUninterp() {
		// numerals, model values and the like
		return e
	}
	if d.IsUninterp() {
		if d.Arity() == 0 {
			return ev.evalConst(e, d, st)
		}
		return ev.evalFuncApp(d, args, st)
	}
	if d.Family() == smt.ArrayFamily && d.Op() == smt.OpSelect && smt.IsAsArray(args[0]) {
		f := smt.AsArrayFuncDecl(args[0])
		if ev.completion || ev.src.GetFuncInterp(f) != nil {
			return ev.evalFuncApp(f, args[1:], st)
		}
		st.fail(errors.Wrapf(ErrEvaluation, "no interpretation for %s", f.Name()))
	}
	return ev.rw.MkApp(d, args)
}

func (ev *Evaluator) evalConst(e *smt.Expr, d *smt.FuncDecl, st *evalState) *smt.Expr {
	if v := ev.src.GetConstInterp(d); v != nil {
		return v
	}
	if ev.completion {
		return ev.cmp.MkSomeInterpFor(d)
	}
	st.fail(errors.Wrapf(ErrEvaluation, "no interpretation for %s", d.Name()))
	return e
}

func (ev *Evaluator) evalFuncApp(d *smt.FuncDecl, args []*smt.Expr, st *evalState) *smt.Expr {
	fi := ev.src.GetFuncInterp(d)
	if fi == nil {
		if !ev.completion {
			st.fail(errors.Wrapf(ErrEvaluation, "no interpretation for %s", d.Name()))
			return ev.m.MkApp(d, args...)
		}
		ev.cmp.MkSomeInterpFor(d)
		fi = ev.src.GetFuncInterp(d)
	}
	for _, a := range args {
		if !smt.IsValue(a) {
			st.fail(errors.Wrapf(ErrEvaluation, "argument %s of %s is not a value", a, d.Name()))
			return ev.m.MkApp(d, args...)
		}
	}
	if entry := fi.GetEntry(args); entry != nil {
		return entry.Result()
	}
	if fi.IsPartial() {
		if !ev.completion {
			st.fail(errors.Wrapf(ErrEvaluation, "%s is partial", d.Name()))
			return ev.m.MkApp(d, args...)
		}
		fi.SetElse(ev.cmp.GetSomeValue(d.Range()))
	}
	if st.depth >= maxEvalDepth {
		st.fail(errors.Wrapf(ErrUnsupported, "recursive interpretation of %s", d.Name()))
		return ev.m.MkApp(d, args...)
	}
	st.depth++
	defer func() { st.depth-- }()
	return ev.walk(fi.Else(), args, st)
}
