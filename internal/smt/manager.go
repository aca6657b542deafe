package smt

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// Manager owns every sort, declaration and expression node. Nodes are
// interned, so pointer identity doubles as structural identity.
type Manager struct {
	families  []string
	familyIDs map[string]FamilyID

	sorts map[string]*Sort
	decls map[string]*FuncDecl
	exprs map[string]*Expr
	fresh map[string]uint32
	names map[string]struct{}

	nextID uint32
}

func NewManager() *Manager {
	m := &Manager{
		families:  make([]string, 0, 8),
		familyIDs: make(map[string]FamilyID),
		sorts:     make(map[string]*Sort),
		decls:     make(map[string]*FuncDecl),
		exprs:     make(map[string]*Expr),
		fresh:     make(map[string]uint32),
		names:     make(map[string]struct{}),
	}
	for _, name := range []string{"basic", "arith", "bv", "array", "model-value"} {
		m.MkFamilyID(name)
	}
	return m
}

// MkFamilyID returns the id of the named theory family, registering it on
// first use.
func (m *Manager) MkFamilyID(name string) FamilyID {
	if fid, ok := m.familyIDs[name]; ok {
		return fid
	}
	fid := FamilyID(len(m.families))
	m.families = append(m.families, name)
	m.familyIDs[name] = fid
	return fid
}

func (m *Manager) FamilyName(fid FamilyID) string {
	if fid == NullFamily {
		return "null"
	}
	if int(fid) < 0 || int(fid) >= len(m.families) {
		return fmt.Sprintf("family#%d", fid)
	}
	return m.families[fid]
}

func (m *Manager) id() uint32 {
	m.nextID++
	return m.nextID
}

func (m *Manager) internSort(key string, s *Sort) *Sort {
	if old, ok := m.sorts[key]; ok {
		return old
	}
	s.id = m.id()
	m.sorts[key] = s
	return s
}

func (m *Manager) BoolSort() *Sort {
	return m.internSort("Bool", &Sort{name: "Bool", family: BasicFamily, kind: BoolSort})
}

func (m *Manager) IntSort() *Sort {
	return m.internSort("Int", &Sort{name: "Int", family: ArithFamily, kind: IntSort})
}

func (m *Manager) BvSort(size uint32) *Sort {
	if size == 0 {
		panic(errors.New("bit-vector sort of width 0"))
	}
	name := fmt.Sprintf("BV%d", size)
	return m.internSort(name, &Sort{name: name, family: BVFamily, kind: BVSort, size: size})
}

func (m *Manager) ArraySort(domain []*Sort, rng *Sort) *Sort {
	if len(domain) == 0 {
		panic(errors.New("array sort without index sorts"))
	}
	s := &Sort{
		family: ArrayFamily,
		kind:   ArraySort,
		domain: make([]*Sort, len(domain)),
		rng:    rng,
	}
	copy(s.domain, domain)
	s.name = s.String()
	return m.internSort("a:"+s.name, s)
}

// MkUninterpretedSort returns the uninterpreted sort with the given name.
func (m *Manager) MkUninterpretedSort(name string) *Sort {
	return m.internSort("u:"+name, &Sort{name: name, family: NullFamily, kind: UninterpretedSort})
}

// MkSort returns a sort owned by the given family. It is used for theories
// that have no builtin support in this package.
func (m *Manager) MkSort(name string, fid FamilyID) *Sort {
	if fid == NullFamily {
		return m.MkUninterpretedSort(name)
	}
	return m.internSort(fmt.Sprintf("c:%d:%s", fid, name), &Sort{name: name, family: fid, kind: CustomSort})
}

func sortsKey(sorts []*Sort) string {
	ids := make([]string, len(sorts))
	for i, s := range sorts {
		ids[i] = fmt.Sprint(s.id)
	}
	return strings.Join(ids, ",")
}

func (m *Manager) internDecl(key string, f *FuncDecl) *FuncDecl {
	if old, ok := m.decls[key]; ok {
		return old
	}
	f.id = m.id()
	m.decls[key] = f
	return f
}

func newDecl(name string, fid FamilyID, op OpKind, domain []*Sort, rng *Sort) *FuncDecl {
	f := &FuncDecl{
		name:   name,
		family: fid,
		op:     op,
		domain: make([]*Sort, len(domain)),
		rng:    rng,
	}
	copy(f.domain, domain)
	return f
}

// MkFuncDecl returns the uninterpreted declaration name : domain -> rng.
func (m *Manager) MkFuncDecl(name string, domain []*Sort, rng *Sort) *FuncDecl {
	key := fmt.Sprintf("u:%s:%s>%d", name, sortsKey(domain), rng.id)
	m.names[name] = struct{}{}
	return m.internDecl(key, newDecl(name, NullFamily, OpUninterp, domain, rng))
}

// MkFreshFuncDecl returns an uninterpreted declaration whose name has not been
// handed out before.
func (m *Manager) MkFreshFuncDecl(prefix string, domain []*Sort, rng *Sort) *FuncDecl {
	for {
		idx := m.fresh[prefix]
		m.fresh[prefix] = idx + 1
		name := fmt.Sprintf("%s!%d", prefix, idx)
		if _, taken := m.names[name]; !taken {
			return m.MkFuncDecl(name, domain, rng)
		}
	}
}

func (m *Manager) builtinDecl(fid FamilyID, op OpKind, name string, domain []*Sort, rng *Sort, param *FuncDecl) *FuncDecl {
	key := fmt.Sprintf("b:%d:%d:%s:%s>%d", fid, op, name, sortsKey(domain), rng.id)
	if param != nil {
		key = fmt.Sprintf("%s[%d]", key, param.id)
	}
	f := newDecl(name, fid, op, domain, rng)
	f.param = param
	return m.internDecl(key, f)
}

func argsKey(prefix string, d *FuncDecl, args []*Expr) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:%d(", prefix, d.id)
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprint(&sb, a.id)
	}
	sb.WriteByte(')')
	return sb.String()
}

func (m *Manager) internExpr(key string, e *Expr) *Expr {
	if old, ok := m.exprs[key]; ok {
		return old
	}
	e.id = m.id()
	m.exprs[key] = e
	return e
}

// MkApp builds the application f(args...). Argument count and sorts must
// match the declaration.
func (m *Manager) MkApp(f *FuncDecl, args ...*Expr) *Expr {
	if len(args) != len(f.domain) {
		panic(errors.Errorf("%s expects %d arguments, got %d", f.name, len(f.domain), len(args)))
	}
	for i, a := range args {
		if a.sort != f.domain[i] {
			panic(errors.Errorf("argument %d of %s has sort %s, expected %s", i, f.name, a.sort, f.domain[i]))
		}
	}
	if f.op == OpNum || f.op == OpBNum || f.op == OpModelValue {
		panic(errors.Errorf("%s is a value declaration", f.name))
	}
	e := &Expr{
		kind: AppExpr,
		sort: f.rng,
		decl: f,
		args: make([]*Expr, len(args)),
	}
	copy(e.args, args)
	return m.internExpr(argsKey("a", f, args), e)
}

// MkConst declares name : s and returns the constant.
func (m *Manager) MkConst(name string, s *Sort) *Expr {
	return m.MkApp(m.MkFuncDecl(name, nil, s))
}

func (m *Manager) mkValueExpr(f *FuncDecl, val *big.Int) *Expr {
	e := &Expr{
		kind: AppExpr,
		sort: f.rng,
		decl: f,
		val:  new(big.Int).Set(val),
	}
	return m.internExpr(fmt.Sprintf("n:%d:%s", f.id, val), e)
}

// MkModelValue returns the idx-th model value of sort s, printed as s!val!idx.
func (m *Manager) MkModelValue(idx uint32, s *Sort) *Expr {
	name := fmt.Sprintf("%s!val!%d", s.name, idx)
	f := m.builtinDecl(ModelValueFamily, OpModelValue, name, nil, s, nil)
	return m.mkValueExpr(f, new(big.Int).SetUint64(uint64(idx)))
}

// ModelValueIndex returns the index of a model value.
func ModelValueIndex(e *Expr) (uint32, bool) {
	if !e.IsAppOf(ModelValueFamily, OpModelValue) {
		return 0, false
	}
	return uint32(e.val.Uint64()), true
}

func (m *Manager) MkVar(idx uint32, s *Sort) *Expr {
	return m.internExpr(fmt.Sprintf("v:%d:%d", idx, s.id), &Expr{kind: VarExpr, sort: s, idx: idx})
}

// MkForall binds the variables 0..len(bound)-1 of body.
func (m *Manager) MkForall(bound []*Sort, body *Expr) *Expr {
	if !body.sort.IsBool() {
		panic(errors.Errorf("quantifier body %s is not Boolean", body))
	}
	e := &Expr{
		kind:  QuantifierExpr,
		sort:  m.BoolSort(),
		bound: make([]*Sort, len(bound)),
		body:  body,
	}
	copy(e.bound, bound)
	return m.internExpr(fmt.Sprintf("q:%s:%d", sortsKey(bound), body.id), e)
}

func sortsOf(args []*Expr) []*Sort {
	sorts := make([]*Sort, len(args))
	for i, a := range args {
		sorts[i] = a.sort
	}
	return sorts
}

func (m *Manager) mkBuiltin(fid FamilyID, op OpKind, name string, rng *Sort, args ...*Expr) *Expr {
	f := m.builtinDecl(fid, op, name, sortsOf(args), rng, nil)
	return m.MkApp(f, args...)
}

func (m *Manager) checkSameSort(op string, args []*Expr) {
	for _, a := range args[1:] {
		if a.sort != args[0].sort {
			panic(errors.Errorf("%s: mixed sorts %s and %s", op, args[0].sort, a.sort))
		}
	}
}
