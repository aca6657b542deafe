package model

import (
	"protomodel/internal/funcinterp"
	"protomodel/internal/smt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Cleanup replaces the uninterpreted constants occurring in the else branch
// of every table by their interpretations, inventing one where missing, and
// drops auxiliary declarations no rewritten else branch refers to.
//
// Reachability is computed over the rewritten branches of all tables in one
// pass, auxiliary ones included.
func (p *ProtoModel) Cleanup() {
	found := smt.NewDeclSet()
	// inventing an array value registers a new table, so the list may grow
	for i := 0; i < len(p.funcDecls); i++ {
		p.cleanupFuncInterp(p.finterp[p.funcDecls[i]], found)
	}
	p.collectValueRefs(found)

	if found.Len() == p.auxDecls.Len() {
		return
	}
	keep := func(f *smt.FuncDecl) bool {
		return !p.auxDecls.Contains(f) || found.Contains(f)
	}
	p.decls = filterDecls(p.decls, keep)
	p.funcDecls = filterDecls(p.funcDecls, keep)
	for _, faux := range p.auxDecls.Elements() {
		if found.Contains(faux) {
			continue
		}
		log.Debugf("eliminating auxiliary declaration %s", faux.Name())
		fi, ok := p.finterp[faux]
		if !ok {
			panic(errors.Errorf("auxiliary declaration %s has no table", faux.Name()))
		}
		delete(p.finterp, faux)
		faux.DecRef()
		fi.Release()
	}
	p.auxDecls = found
}

func (p *ProtoModel) markAuxRef(e *smt.Expr, found *smt.DeclSet) {
	if f := e.Decl(); p.auxDecls.Contains(f) {
		found.Add(f)
	}
	if smt.IsAsArray(e) {
		if f := smt.AsArrayFuncDecl(e); p.auxDecls.Contains(f) {
			found.Add(f)
		}
	}
}

func (p *ProtoModel) cleanupFuncInterp(fi *funcinterp.FuncInterp, found *smt.DeclSet) {
	if fi.IsPartial() {
		return
	}
	fiElse := fi.Else()
	log.Debugf("cleaning up %s", fiElse)

	cache := make(map[*smt.Expr]*smt.Expr)
	todo := []*smt.Expr{fiElse}
	for len(todo) > 0 {
		a := todo[len(todo)-1]
		if _, ok := cache[a]; ok {
			todo = todo[:len(todo)-1]
			continue
		}
		if smt.IsUninterpConst(a) {
			todo = todo[:len(todo)-1]
			aDecl := a.Decl()
			ai := p.GetConstInterp(aDecl)
			if ai == nil {
				ai = p.MkSomeInterpFor(aDecl)
			}
			if ai.IsApp() {
				p.markAuxRef(ai, found)
			}
			cache[a] = ai
			continue
		}
		if !a.IsApp() {
			cache[a] = a
			todo = todo[:len(todo)-1]
			continue
		}
		args := make([]*smt.Expr, 0, a.NumArgs())
		visited := true
		for _, arg := range a.Args() {
			if r, ok := cache[arg]; ok {
				args = append(args, r)
			} else {
				visited = false
				todo = append(todo, arg)
			}
		}
		if !visited {
			continue
		}
		p.markAuxRef(a, found)
		newT := a
		if len(args) > 0 {
			newT = p.rw.MkApp(a.Decl(), args)
		}
		if newT != a && newT.IsApp() {
			p.markAuxRef(newT, found)
		}
		todo = todo[:len(todo)-1]
		cache[a] = newT
	}

	r, ok := cache[fiElse]
	if !ok {
		panic(errors.Errorf("cleanup left %s unresolved", fiElse))
	}
	fi.SetElse(r)
}

// collectValueRefs marks auxiliary declarations reachable through as-array
// values held by constants and table entries.
func (p *ProtoModel) collectValueRefs(found *smt.DeclSet) {
	if p.auxDecls.Len() == 0 {
		return
	}
	roots := make([]*smt.Expr, 0, len(p.constDecls))
	for _, d := range p.constDecls {
		roots = append(roots, p.interp[d])
	}
	for _, d := range p.funcDecls {
		for _, e := range p.finterp[d].Entries() {
			roots = append(roots, e.Result())
			roots = append(roots, e.Args()...)
		}
	}
	visited := make(map[*smt.Expr]struct{})
	for len(roots) > 0 {
		e := roots[len(roots)-1]
		roots = roots[:len(roots)-1]
		if _, ok := visited[e]; ok || !e.IsApp() {
			continue
		}
		visited[e] = struct{}{}
		if smt.IsAsArray(e) {
			p.markAuxRef(e, found)
		}
		roots = append(roots, e.Args()...)
	}
}
