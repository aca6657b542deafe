package smt

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

type ExprKind uint8

const (
	AppExpr ExprKind = iota
	VarExpr
	QuantifierExpr
)

// Expr is a node of the shared expression DAG. Applications, numerals and
// variables are hash-consed by the Manager, so two structurally equal nodes
// are the same pointer.
type Expr struct {
	id   uint32
	kind ExprKind
	sort *Sort

	decl *FuncDecl
	args []*Expr
	val  *big.Int // numerals and model value indices

	idx uint32 // variable index

	bound []*Sort
	body  *Expr

	refs int
}

func (e *Expr) ID() uint32 {
	return e.id
}

func (e *Expr) Kind() ExprKind {
	return e.kind
}

func (e *Expr) Sort() *Sort {
	return e.sort
}

func (e *Expr) IsApp() bool {
	return e.kind == AppExpr
}

func (e *Expr) IsVar() bool {
	return e.kind == VarExpr
}

func (e *Expr) IsQuantifier() bool {
	return e.kind == QuantifierExpr
}

func (e *Expr) Decl() *FuncDecl {
	return e.decl
}

func (e *Expr) Args() []*Expr {
	return e.args
}

func (e *Expr) Arg(i int) *Expr {
	return e.args[i]
}

func (e *Expr) NumArgs() int {
	return len(e.args)
}

// Index is the position of a bound variable among the arguments of the
// enclosing function (or quantifier).
func (e *Expr) Index() uint32 {
	return e.idx
}

func (e *Expr) Bound() []*Sort {
	return e.bound
}

func (e *Expr) Body() *Expr {
	return e.body
}

func (e *Expr) IsAppOf(fid FamilyID, op OpKind) bool {
	return e.kind == AppExpr && e.decl.family == fid && e.decl.op == op
}

func (e *Expr) IncRef() {
	e.refs++
}

func (e *Expr) DecRef() {
	if e.refs <= 0 {
		panic(errors.Errorf("double release of expression %s", e))
	}
	e.refs--
}

func (e *Expr) RefCount() int {
	return e.refs
}

func (e *Expr) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *Expr) write(sb *strings.Builder) {
	switch e.kind {
	case VarExpr:
		fmt.Fprintf(sb, "(:var %d)", e.idx)
		return
	case QuantifierExpr:
		sb.WriteString("(forall (")
		for i, s := range e.bound {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(sb, "(x%d %s)", i, s)
		}
		sb.WriteString(") ")
		e.body.write(sb)
		sb.WriteByte(')')
		return
	}
	switch {
	case e.IsAppOf(ArithFamily, OpNum):
		if e.val.Sign() < 0 {
			fmt.Fprintf(sb, "(- %s)", new(big.Int).Neg(e.val))
		} else {
			sb.WriteString(e.val.String())
		}
		return
	case e.IsAppOf(BVFamily, OpBNum):
		fmt.Fprintf(sb, "#x%0*x", int((e.sort.size+3)/4), e.val)
		return
	case e.IsAppOf(ArrayFamily, OpAsArray):
		fmt.Fprintf(sb, "(_ as-array %s)", e.decl.param.name)
		return
	case e.IsAppOf(ArrayFamily, OpConstArray):
		fmt.Fprintf(sb, "((as const %s) ", e.sort)
		e.args[0].write(sb)
		sb.WriteByte(')')
		return
	}
	if len(e.args) == 0 {
		sb.WriteString(e.decl.name)
		return
	}
	sb.WriteByte('(')
	sb.WriteString(e.decl.name)
	for _, a := range e.args {
		sb.WriteByte(' ')
		a.write(sb)
	}
	sb.WriteByte(')')
}

// IsUninterpConst reports whether e is a zero-arity application of an
// uninterpreted declaration.
func IsUninterpConst(e *Expr) bool {
	return e.kind == AppExpr && e.decl.family == NullFamily && len(e.args) == 0
}

// IsValue reports whether e denotes a concrete model value.
func IsValue(e *Expr) bool {
	if e.kind != AppExpr {
		return false
	}
	switch e.decl.family {
	case BasicFamily:
		return e.decl.op == OpTrue || e.decl.op == OpFalse
	case ArithFamily:
		return e.decl.op == OpNum
	case BVFamily:
		return e.decl.op == OpBNum
	case ArrayFamily:
		switch e.decl.op {
		case OpAsArray:
			return true
		case OpConstArray:
			return IsValue(e.args[0])
		}
	case ModelValueFamily:
		return true
	}
	return false
}

// IsComparableValue reports whether equality between e and another value of
// the same kind is decided by node identity.
func IsComparableValue(e *Expr) bool {
	return IsValue(e) && !e.IsAppOf(ArrayFamily, OpAsArray) && !e.IsAppOf(ArrayFamily, OpConstArray)
}

// IsGround reports whether e contains no bound variables.
func IsGround(e *Expr) bool {
	visited := make(map[*Expr]struct{})
	todo := []*Expr{e}
	for len(todo) > 0 {
		n := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		if _, ok := visited[n]; ok {
			continue
		}
		visited[n] = struct{}{}
		switch n.kind {
		case VarExpr:
			return false
		case QuantifierExpr:
			todo = append(todo, n.body)
		default:
			todo = append(todo, n.args...)
		}
	}
	return true
}
