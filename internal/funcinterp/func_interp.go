// Package funcinterp holds function tables: a finite list of entries mapping
// argument values to results, plus an else branch used for every other input.
// A table whose else branch is unset is partial.
package funcinterp

import (
	"fmt"
	"strings"

	"protomodel/internal/smt"

	"github.com/pkg/errors"
)

type Entry struct {
	args   []*smt.Expr
	result *smt.Expr
}

func (e *Entry) Args() []*smt.Expr {
	return e.args
}

func (e *Entry) Arg(i int) *smt.Expr {
	return e.args[i]
}

func (e *Entry) Result() *smt.Expr {
	return e.result
}

func (e *Entry) matches(args []*smt.Expr) bool {
	for i := range e.args {
		if e.args[i] != args[i] {
			return false
		}
	}
	return true
}

type FuncInterp struct {
	arity    int
	entries  []*Entry
	elseExpr *smt.Expr
}

func New(arity int) *FuncInterp {
	return &FuncInterp{
		arity:   arity,
		entries: make([]*Entry, 0),
	}
}

func (fi *FuncInterp) Arity() int {
	return fi.arity
}

func (fi *FuncInterp) IsPartial() bool {
	return fi.elseExpr == nil
}

// Else returns the else branch, nil while the table is partial. Bound
// variable i in the else branch stands for argument i.
func (fi *FuncInterp) Else() *smt.Expr {
	return fi.elseExpr
}

func (fi *FuncInterp) SetElse(e *smt.Expr) {
	if e != nil {
		e.IncRef()
	}
	if fi.elseExpr != nil {
		fi.elseExpr.DecRef()
	}
	fi.elseExpr = e
}

func (fi *FuncInterp) NumEntries() int {
	return len(fi.entries)
}

func (fi *FuncInterp) Entries() []*Entry {
	return fi.entries
}

func (fi *FuncInterp) checkArgs(args []*smt.Expr) {
	if len(args) != fi.arity {
		panic(errors.Errorf("function table of arity %d given %d arguments", fi.arity, len(args)))
	}
}

// GetEntry returns the entry for args. Arguments are compared by identity,
// which is value equality for hash-consed values.
func (fi *FuncInterp) GetEntry(args []*smt.Expr) *Entry {
	fi.checkArgs(args)
	for _, e := range fi.entries {
		if e.matches(args) {
			return e
		}
	}
	return nil
}

// InsertNewEntry appends an entry without looking for an existing one for args.
func (fi *FuncInterp) InsertNewEntry(args []*smt.Expr, result *smt.Expr) {
	fi.checkArgs(args)
	e := &Entry{
		args:   make([]*smt.Expr, len(args)),
		result: result,
	}
	copy(e.args, args)
	for _, a := range e.args {
		a.IncRef()
	}
	result.IncRef()
	fi.entries = append(fi.entries, e)
}

// InsertEntry sets the result for args, replacing an existing entry.
func (fi *FuncInterp) InsertEntry(args []*smt.Expr, result *smt.Expr) {
	if e := fi.GetEntry(args); e != nil {
		result.IncRef()
		e.result.DecRef()
		e.result = result
		return
	}
	fi.InsertNewEntry(args, result)
}

// MaxOccResult returns the result shared by the largest number of entries,
// the earliest one on ties, or nil for an empty table.
func (fi *FuncInterp) MaxOccResult() *smt.Expr {
	var (
		counts = make(map[*smt.Expr]int, len(fi.entries))
		best   *smt.Expr
		max    int
	)
	for _, e := range fi.entries {
		counts[e.result]++
		if n := counts[e.result]; n > max {
			best, max = e.result, n
		}
	}
	return best
}

// Compress drops entries whose result equals a ground else branch.
func (fi *FuncInterp) Compress() {
	if fi.elseExpr == nil || !smt.IsGround(fi.elseExpr) {
		return
	}
	kept := fi.entries[:0]
	for _, e := range fi.entries {
		if e.result == fi.elseExpr {
			releaseEntry(e)
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(fi.entries); i++ {
		fi.entries[i] = nil
	}
	fi.entries = kept
}

func releaseEntry(e *Entry) {
	for _, a := range e.args {
		a.DecRef()
	}
	e.result.DecRef()
}

// Release drops every reference the table holds. The table is empty and
// partial afterwards.
func (fi *FuncInterp) Release() {
	for _, e := range fi.entries {
		releaseEntry(e)
	}
	fi.entries = fi.entries[:0]
	fi.SetElse(nil)
}

func (fi *FuncInterp) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, e := range fi.entries {
		sb.WriteString("  ")
		for i, a := range e.args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.String())
		}
		fmt.Fprintf(&sb, " -> %s\n", e.result)
	}
	if fi.elseExpr != nil {
		fmt.Fprintf(&sb, "  else -> %s\n", fi.elseExpr)
	}
	sb.WriteString("}")
	return sb.String()
}
