package smt

import (
	"github.com/pkg/errors"
)

type OpKind uint16

const (
	OpUninterp OpKind = iota

	OpTrue
	OpFalse
	OpEq
	OpIte
	OpAnd
	OpOr
	OpNot
	OpImplies

	OpNum
	OpAdd
	OpSub
	OpMul
	OpUminus
	OpLe
	OpLt
	OpGe
	OpGt

	OpBNum
	OpBAdd
	OpBMul
	OpBAnd
	OpBOr
	OpBNot
	OpULt
	OpULe

	OpSelect
	OpStore
	OpConstArray
	OpAsArray

	OpModelValue
)

// FuncDecl dom1,dom2,dom3... -> rng
type FuncDecl struct {
	id     uint32
	name   string
	family FamilyID
	op     OpKind
	domain []*Sort
	rng    *Sort
	param  *FuncDecl
	refs   int
}

func (f *FuncDecl) ID() uint32 {
	return f.id
}

func (f *FuncDecl) Name() string {
	return f.name
}

func (f *FuncDecl) Family() FamilyID {
	return f.family
}

func (f *FuncDecl) Op() OpKind {
	return f.op
}

func (f *FuncDecl) Arity() int {
	return len(f.domain)
}

func (f *FuncDecl) Domain(i int) *Sort {
	return f.domain[i]
}

func (f *FuncDecl) DomainSorts() []*Sort {
	return f.domain
}

func (f *FuncDecl) Range() *Sort {
	return f.rng
}

// Param is the function an as-array declaration refers to.
func (f *FuncDecl) Param() *FuncDecl {
	return f.param
}

func (f *FuncDecl) IsUninterp() bool {
	return f.family == NullFamily
}

func (f *FuncDecl) String() string {
	return f.name
}

func (f *FuncDecl) IncRef() {
	f.refs++
}

// DecRef releases one reference. Releasing an unreferenced declaration is a
// bookkeeping bug in the caller.
func (f *FuncDecl) DecRef() {
	if f.refs <= 0 {
		panic(errors.Errorf("double release of declaration %s", f.name))
	}
	f.refs--
}

func (f *FuncDecl) RefCount() int {
	return f.refs
}
