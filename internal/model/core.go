package model

import (
	"fmt"
	"strings"

	"protomodel/internal/funcinterp"
	"protomodel/internal/smt"

	"github.com/pkg/errors"
)

// core is the declaration registry shared by the builder and the final model:
// constants map to values, functions to tables. Registering takes a
// reference on the declaration.
type core struct {
	m          *smt.Manager
	interp     map[*smt.FuncDecl]*smt.Expr
	finterp    map[*smt.FuncDecl]*funcinterp.FuncInterp
	decls      []*smt.FuncDecl
	constDecls []*smt.FuncDecl
	funcDecls  []*smt.FuncDecl
}

func newCore(m *smt.Manager) core {
	return core{
		m:          m,
		interp:     make(map[*smt.FuncDecl]*smt.Expr),
		finterp:    make(map[*smt.FuncDecl]*funcinterp.FuncInterp),
		decls:      make([]*smt.FuncDecl, 0),
		constDecls: make([]*smt.FuncDecl, 0),
		funcDecls:  make([]*smt.FuncDecl, 0),
	}
}

func (c *core) Manager() *smt.Manager {
	return c.m
}

// RegisterConst sets the interpretation of the constant d to v.
func (c *core) RegisterConst(d *smt.FuncDecl, v *smt.Expr) {
	if d.Arity() != 0 {
		panic(errors.Errorf("%s has arity %d, it needs a function table", d.Name(), d.Arity()))
	}
	if _, ok := c.finterp[d]; ok {
		panic(errors.Errorf("%s already has a function table", d.Name()))
	}
	v.IncRef()
	if old, ok := c.interp[d]; ok {
		old.DecRef()
	} else {
		d.IncRef()
		c.decls = append(c.decls, d)
		c.constDecls = append(c.constDecls, d)
	}
	c.interp[d] = v
}

// RegisterFunc sets the table of d to fi, releasing the table it replaces.
func (c *core) RegisterFunc(d *smt.FuncDecl, fi *funcinterp.FuncInterp) {
	if fi.Arity() != d.Arity() {
		panic(errors.Errorf("table of arity %d for %s of arity %d", fi.Arity(), d.Name(), d.Arity()))
	}
	if _, ok := c.interp[d]; ok {
		panic(errors.Errorf("%s already has a constant interpretation", d.Name()))
	}
	if old, ok := c.finterp[d]; ok {
		if old != fi {
			old.Release()
		}
	} else {
		d.IncRef()
		c.decls = append(c.decls, d)
		c.funcDecls = append(c.funcDecls, d)
	}
	c.finterp[d] = fi
}

func (c *core) HasInterpretation(d *smt.FuncDecl) bool {
	if _, ok := c.interp[d]; ok {
		return true
	}
	_, ok := c.finterp[d]
	return ok
}

// GetConstInterp returns nil when d has no constant interpretation.
func (c *core) GetConstInterp(d *smt.FuncDecl) *smt.Expr {
	return c.interp[d]
}

// GetFuncInterp returns nil when d has no table.
func (c *core) GetFuncInterp(d *smt.FuncDecl) *funcinterp.FuncInterp {
	return c.finterp[d]
}

// Decls lists every interpreted declaration in registration order. The slice
// is owned by the registry.
func (c *core) Decls() []*smt.FuncDecl {
	return c.decls
}

func (c *core) ConstDecls() []*smt.FuncDecl {
	return c.constDecls
}

func (c *core) FuncDecls() []*smt.FuncDecl {
	return c.funcDecls
}

func (c *core) NumConstants() int {
	return len(c.constDecls)
}

func (c *core) NumFunctions() int {
	return len(c.funcDecls)
}

func (c *core) write(sb *strings.Builder) {
	for _, d := range c.constDecls {
		fmt.Fprintf(sb, "%s -> %s\n", d.Name(), c.interp[d])
	}
	for _, d := range c.funcDecls {
		fmt.Fprintf(sb, "%s -> %s\n", d.Name(), c.finterp[d])
	}
}

// filterDecls keeps the declarations for which keep holds, in place.
func filterDecls(decls []*smt.FuncDecl, keep func(*smt.FuncDecl) bool) []*smt.FuncDecl {
	j := 0
	for _, f := range decls {
		if keep(f) {
			decls[j] = f
			j++
		}
	}
	for i := j; i < len(decls); i++ {
		decls[i] = nil
	}
	return decls[:j]
}
