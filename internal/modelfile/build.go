package modelfile

import (
	"math/big"
	"strconv"
	"strings"

	"protomodel/internal/funcinterp"
	"protomodel/internal/model"
	"protomodel/internal/smt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type builder struct {
	m     *smt.Manager
	p     *model.ProtoModel
	sorts map[string]*smt.Sort
	decls map[string]*smt.FuncDecl
}

// Build declares everything the file describes in p, registers the constant
// interpretations and function tables, and returns the expressions listed
// under eval.
func (f *File) Build(p *model.ProtoModel) ([]*smt.Expr, error) {
	b := &builder{
		m:     p.Manager(),
		p:     p,
		sorts: make(map[string]*smt.Sort),
		decls: make(map[string]*smt.FuncDecl),
	}
	for _, name := range f.Sorts {
		if _, ok := b.sorts[name]; ok {
			return nil, errors.Errorf("sort %s declared twice", name)
		}
		b.sorts[name] = b.m.MkUninterpretedSort(name)
	}
	for _, d := range f.Decls {
		if err := b.declare(d); err != nil {
			return nil, errors.Wrapf(err, "declaration %s", d.Name)
		}
	}
	for _, u := range f.Universes {
		if err := b.universe(u); err != nil {
			return nil, errors.Wrapf(err, "universe of %s", u.Sort)
		}
	}
	for i := range f.Constants {
		if err := b.constant(&f.Constants[i]); err != nil {
			return nil, errors.Wrapf(err, "constant %s", f.Constants[i].Name)
		}
	}
	for i := range f.Functions {
		if err := b.function(&f.Functions[i]); err != nil {
			return nil, errors.Wrapf(err, "function %s", f.Functions[i].Name)
		}
	}
	exprs := make([]*smt.Expr, 0, len(f.Eval))
	for i := range f.Eval {
		e, err := b.expr(&f.Eval[i], nil)
		if err != nil {
			return nil, errors.Wrapf(err, "eval %d", i)
		}
		exprs = append(exprs, e)
	}
	log.Debugf("loaded %d sorts, %d declarations, %d expressions", len(f.Sorts), len(f.Decls), len(exprs))
	return exprs, nil
}

func (b *builder) declare(d Decl) error {
	if _, ok := b.decls[d.Name]; ok {
		return errors.New("declared twice")
	}
	domain := make([]*smt.Sort, len(d.Domain))
	for i, name := range d.Domain {
		s, err := b.sort(name)
		if err != nil {
			return err
		}
		domain[i] = s
	}
	rng, err := b.sort(d.Range)
	if err != nil {
		return err
	}
	b.decls[d.Name] = b.m.MkFuncDecl(d.Name, domain, rng)
	return nil
}

func (b *builder) universe(u Universe) error {
	s, ok := b.sorts[u.Sort]
	if !ok {
		return errors.Wrapf(ErrUnknownSymbol, "sort %s", u.Sort)
	}
	for i := uint32(0); i < u.Size; i++ {
		b.p.RegisterValue(b.m.MkModelValue(i, s))
	}
	if u.Finite {
		b.p.FreezeUniverse(s)
	}
	return nil
}

func (b *builder) value(n *yaml.Node, s *smt.Sort) (*smt.Expr, error) {
	v, err := b.expr(n, nil)
	if err != nil {
		return nil, err
	}
	if !smt.IsValue(v) {
		return nil, errors.Errorf("%s is not a value", v)
	}
	if v.Sort() != s {
		return nil, errors.Errorf("%s has sort %s, expected %s", v, v.Sort(), s)
	}
	return v, nil
}

func (b *builder) constant(c *Constant) error {
	d, ok := b.decls[c.Name]
	if !ok {
		return ErrUnknownSymbol
	}
	if d.Arity() != 0 {
		return errors.Errorf("arity %d, expected a constant", d.Arity())
	}
	v, err := b.value(&c.Value, d.Range())
	if err != nil {
		return err
	}
	b.p.RegisterConst(d, v)
	b.p.RegisterValue(v)
	return nil
}

func (b *builder) function(fn *Function) error {
	d, ok := b.decls[fn.Name]
	if !ok {
		return ErrUnknownSymbol
	}
	if d.Arity() == 0 {
		return errors.New("constants take a value, not a table")
	}
	// the else branch may refer to the auxiliary declaration
	var aux *smt.FuncDecl
	if fn.Aux != "" {
		var err error
		if aux, err = b.auxDecl(fn.Aux, d); err != nil {
			return err
		}
	}
	fi := funcinterp.New(d.Arity())
	for i, entry := range fn.Entries {
		if len(entry.Args) != d.Arity() {
			return errors.Errorf("entry %d has %d arguments, expected %d", i, len(entry.Args), d.Arity())
		}
		args := make([]*smt.Expr, len(entry.Args))
		for j := range entry.Args {
			a, err := b.value(&entry.Args[j], d.Domain(j))
			if err != nil {
				return errors.Wrapf(err, "entry %d", i)
			}
			args[j] = a
		}
		r, err := b.value(&entry.Value, d.Range())
		if err != nil {
			return errors.Wrapf(err, "entry %d", i)
		}
		fi.InsertEntry(args, r)
	}
	if fn.Else.Kind != 0 {
		e, err := b.expr(&fn.Else, d.DomainSorts())
		if err != nil {
			return errors.Wrap(err, "else")
		}
		if e.Sort() != d.Range() {
			return errors.Errorf("else has sort %s, expected %s", e.Sort(), d.Range())
		}
		fi.SetElse(e)
	}

	switch {
	case aux != nil:
		b.p.ReregisterDecl(d, fi, aux)
	case b.p.HasInterpretation(d):
		b.p.ReregisterDecl(d, fi, nil)
	default:
		b.p.RegisterFunc(d, fi)
	}
	return nil
}

// auxDecl returns the declaration name with the signature of f, declaring it
// when the file does not.
func (b *builder) auxDecl(name string, f *smt.FuncDecl) (*smt.FuncDecl, error) {
	aux, ok := b.decls[name]
	if !ok {
		aux = b.m.MkFuncDecl(name, f.DomainSorts(), f.Range())
		b.decls[name] = aux
		return aux, nil
	}
	if aux.Arity() != f.Arity() || aux.Range() != f.Range() {
		return nil, errors.Errorf("auxiliary %s does not match the signature of %s", name, f.Name())
	}
	for i := 0; i < f.Arity(); i++ {
		if aux.Domain(i) != f.Domain(i) {
			return nil, errors.Errorf("auxiliary %s does not match the signature of %s", name, f.Name())
		}
	}
	return aux, nil
}

func (b *builder) sort(name string) (*smt.Sort, error) {
	name = strings.TrimSpace(name)
	if s, ok := b.sorts[name]; ok {
		return s, nil
	}
	switch {
	case name == "Bool":
		return b.m.BoolSort(), nil
	case name == "Int":
		return b.m.IntSort(), nil
	case strings.HasPrefix(name, "BV"):
		size, err := strconv.ParseUint(name[2:], 10, 32)
		if err != nil || size == 0 {
			return nil, errors.Errorf("bad bit-vector sort %s", name)
		}
		return b.m.BvSort(uint32(size)), nil
	case strings.HasPrefix(name, "Array<") && strings.HasSuffix(name, ">"):
		parts := splitSorts(name[len("Array<") : len(name)-1])
		if len(parts) < 2 {
			return nil, errors.Errorf("bad array sort %s", name)
		}
		sorts := make([]*smt.Sort, len(parts))
		for i, part := range parts {
			s, err := b.sort(part)
			if err != nil {
				return nil, err
			}
			sorts[i] = s
		}
		return b.m.ArraySort(sorts[:len(sorts)-1], sorts[len(sorts)-1]), nil
	}
	return nil, errors.Wrapf(ErrUnknownSymbol, "sort %s", name)
}

// splitSorts splits a comma separated sort list, ignoring commas nested in
// angle brackets.
func splitSorts(s string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, c := range s {
		switch c {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// expr builds the expression at n. vars are the sorts of $0, $1, ...
// Ill-sorted applications are reported as errors.
func (b *builder) expr(n *yaml.Node, vars []*smt.Sort) (e *smt.Expr, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, err = nil, errors.Errorf("line %d: %v", n.Line, r)
		}
	}()
	return b.parse(n, vars)
}

func (b *builder) parse(n *yaml.Node, vars []*smt.Sort) (*smt.Expr, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return b.scalar(n, vars)
	case yaml.SequenceNode:
		return b.sexpr(n, vars)
	case 0:
		return nil, errors.New("missing expression")
	}
	return nil, errors.Errorf("line %d: unexpected YAML node", n.Line)
}

func (b *builder) scalar(n *yaml.Node, vars []*smt.Sort) (*smt.Expr, error) {
	v := n.Value
	switch n.Tag {
	case "!!int", "!!float":
		// YAML resolves decimals past 64 bits as floats
		i, ok := new(big.Int).SetString(v, 0)
		if !ok {
			return nil, errors.Errorf("line %d: %s is not an integer numeral", n.Line, v)
		}
		return b.m.MkIntNumeral(i), nil
	case "!!bool":
		t, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n.Line)
		}
		return b.m.MkBool(t), nil
	}
	switch {
	case strings.HasPrefix(v, "#b"), strings.HasPrefix(v, "#x"):
		return b.bvLiteral(n)
	case strings.HasPrefix(v, "$"):
		idx, err := strconv.Atoi(v[1:])
		if err != nil || idx < 0 || idx >= len(vars) {
			return nil, errors.Errorf("line %d: no argument %s here", n.Line, v)
		}
		return b.m.MkVar(uint32(idx), vars[idx]), nil
	case strings.Contains(v, "!val!"):
		i := strings.Index(v, "!val!")
		s, ok := b.sorts[v[:i]]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownSymbol, "line %d: sort %s", n.Line, v[:i])
		}
		idx, err := strconv.ParseUint(v[i+len("!val!"):], 10, 32)
		if err != nil {
			return nil, errors.Errorf("line %d: bad value %s", n.Line, v)
		}
		return b.m.MkModelValue(uint32(idx), s), nil
	}
	d, ok := b.decls[v]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSymbol, "line %d: %s", n.Line, v)
	}
	if d.Arity() != 0 {
		return nil, errors.Errorf("line %d: %s takes %d arguments", n.Line, v, d.Arity())
	}
	return b.m.MkApp(d), nil
}

func (b *builder) bvLiteral(n *yaml.Node) (*smt.Expr, error) {
	digits := n.Value[2:]
	var (
		val  *big.Int
		ok   bool
		size = len(digits)
	)
	if n.Value[1] == 'x' {
		val, ok = new(big.Int).SetString(digits, 16)
		size *= 4
	} else {
		val, ok = new(big.Int).SetString(digits, 2)
	}
	if !ok || size == 0 {
		return nil, errors.Errorf("line %d: bad bit-vector literal %s", n.Line, n.Value)
	}
	return b.m.MkBvNumeral(val, uint32(size)), nil
}

func (b *builder) sexpr(n *yaml.Node, vars []*smt.Sort) (*smt.Expr, error) {
	if len(n.Content) == 0 {
		return nil, errors.Errorf("line %d: empty application", n.Line)
	}
	head := n.Content[0]
	if head.Kind != yaml.ScalarNode {
		return nil, errors.Errorf("line %d: operator must be a symbol", n.Line)
	}
	op, rest := head.Value, n.Content[1:]

	// forms whose operands are not all expressions
	switch op {
	case "as-array":
		if len(rest) != 1 {
			return nil, errors.Errorf("line %d: as-array takes a function name", n.Line)
		}
		f, ok := b.decls[rest[0].Value]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownSymbol, "line %d: %s", n.Line, rest[0].Value)
		}
		return b.m.MkAsArray(f), nil
	case "const":
		if len(rest) != 2 {
			return nil, errors.Errorf("line %d: const takes a sort and a value", n.Line)
		}
		s, err := b.sort(rest[0].Value)
		if err != nil {
			return nil, err
		}
		v, err := b.parse(rest[1], vars)
		if err != nil {
			return nil, err
		}
		return b.m.MkConstArray(s, v), nil
	case "bv":
		if len(rest) != 2 {
			return nil, errors.Errorf("line %d: bv takes a value and a width", n.Line)
		}
		val, ok := new(big.Int).SetString(rest[0].Value, 0)
		size, err := strconv.ParseUint(rest[1].Value, 10, 32)
		if !ok || err != nil || size == 0 {
			return nil, errors.Errorf("line %d: bad bit-vector [bv %s %s]", n.Line, rest[0].Value, rest[1].Value)
		}
		return b.m.MkBvNumeral(val, uint32(size)), nil
	}

	args := make([]*smt.Expr, len(rest))
	for i, c := range rest {
		a, err := b.parse(c, vars)
		if err != nil {
			return nil, err
		}
		args[i] = a
	}
	return b.apply(n, op, args)
}

func (b *builder) apply(n *yaml.Node, op string, args []*smt.Expr) (*smt.Expr, error) {
	m := b.m
	arity := func(want int) error {
		if len(args) != want {
			return errors.Errorf("line %d: %s takes %d arguments, got %d", n.Line, op, want, len(args))
		}
		return nil
	}
	atLeast := func(want int) error {
		if len(args) < want {
			return errors.Errorf("line %d: %s takes at least %d arguments, got %d", n.Line, op, want, len(args))
		}
		return nil
	}

	var (
		unary  func(*smt.Expr) *smt.Expr
		binary func(a, b *smt.Expr) *smt.Expr
		nary   func(...*smt.Expr) *smt.Expr
	)
	switch op {
	case "+":
		nary = m.MkAdd
	case "*":
		nary = m.MkMul
	case "-":
		if len(args) == 1 {
			unary = m.MkUminus
		} else {
			nary = m.MkSub
		}
	case "<=":
		binary = m.MkLe
	case "<":
		binary = m.MkLt
	case ">=":
		binary = m.MkGe
	case ">":
		binary = m.MkGt
	case "=":
		binary = m.MkEq
	case "=>":
		binary = m.MkImplies
	case "and":
		nary = m.MkAnd
	case "or":
		nary = m.MkOr
	case "not":
		unary = m.MkNot
	case "ite":
		if err := arity(3); err != nil {
			return nil, err
		}
		return m.MkIte(args[0], args[1], args[2]), nil
	case "bvadd":
		binary = m.MkBvAdd
	case "bvmul":
		binary = m.MkBvMul
	case "bvand":
		binary = m.MkBvAnd
	case "bvor":
		binary = m.MkBvOr
	case "bvnot":
		unary = m.MkBvNot
	case "bvult":
		binary = m.MkBvUlt
	case "bvule":
		binary = m.MkBvUle
	case "select":
		if err := atLeast(2); err != nil {
			return nil, err
		}
		return m.MkSelect(args[0], args[1:]...), nil
	case "store":
		if err := atLeast(3); err != nil {
			return nil, err
		}
		return m.MkStore(args[0], args[1:]...), nil
	default:
		d, ok := b.decls[op]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownSymbol, "line %d: %s", n.Line, op)
		}
		if err := arity(d.Arity()); err != nil {
			return nil, err
		}
		return m.MkApp(d, args...), nil
	}

	switch {
	case unary != nil:
		if err := arity(1); err != nil {
			return nil, err
		}
		return unary(args[0]), nil
	case binary != nil:
		if err := arity(2); err != nil {
			return nil, err
		}
		return binary(args[0], args[1]), nil
	default:
		if err := atLeast(2); err != nil {
			return nil, err
		}
		return nary(args...), nil
	}
}
