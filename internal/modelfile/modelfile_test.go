package modelfile

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"protomodel/internal/config"
	"protomodel/internal/model"
	"protomodel/internal/smt"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sample = `
sorts: [U]
universes:
  - sort: U
    size: 2
    finite: true
decls:
  - name: c
    range: Int
  - name: u
    range: U
  - name: f
    domain: [Int]
    range: Int
  - name: g
    domain: [Int, Int]
    range: Int
  - name: a
    range: Array<Int,Int>
  - name: x
    range: BV4
constants:
  - name: c
    value: 4
  - name: u
    value: U!val!1
  - name: a
    value: [const, "Array<Int,Int>", 9]
  - name: x
    value: "#b1111"
functions:
  - name: f
    entries:
      - args: [0]
        value: 1
      - args: [2]
        value: 3
      - args: [4]
        value: 1
  - name: g
    else: [+, $0, $1, c]
eval:
  - [f, 0]
  - [f, 7]
  - [g, 1, 2]
  - [select, a, 5]
  - [bvadd, x, [bv, 2, 4]]
  - [ite, [<=, c, 3], 10, 20]
  - [=, u, U!val!0]
`

func newProtoModel(t *testing.T) (*smt.Manager, *model.ProtoModel) {
	m := smt.NewManager()
	p := model.NewProtoModel(m, config.Default())
	require.NoError(t, p.RegisterTheoryFactories())
	return m, p
}

func Test_BuildSample(t *testing.T) {
	m, p := newProtoModel(t)
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	exprs, err := f.Build(p)
	require.NoError(t, err)
	require.Len(t, exprs, 7)

	assert.Equal(t, 4, p.NumConstants())
	assert.Equal(t, 2, p.NumFunctions())
	u := p.GetUninterpretedSort(0)
	assert.True(t, p.IsFinite(u))
	assert.Equal(t, 2, p.GetKnownUniverse(u).Len())

	p.CompletePartialFuncs()
	p.Cleanup()
	md := p.MkModel()

	want := []*smt.Expr{
		m.MkInt(1),
		m.MkInt(1),
		m.MkInt(7),
		m.MkInt(9),
		m.MkBvInt64(1, 4),
		m.MkInt(20),
		m.MkFalse(),
	}
	for i, e := range exprs {
		r, err := md.Eval(e)
		require.NoError(t, err, "eval %s", e)
		assert.Equal(t, want[i], r, "eval %s", e)
	}
}

func Test_BuildReregister(t *testing.T) {
	m, p := newProtoModel(t)
	f, err := Parse([]byte(`
decls:
  - name: f
    domain: [Int]
    range: Int
functions:
  - name: f
    entries:
      - args: [0]
        value: 5
    else: 6
  - name: f
    else: [f_old, $0]
    aux: f_old
eval:
  - [f, 0]
  - [f, 1]
`))
	require.NoError(t, err)
	exprs, err := f.Build(p)
	require.NoError(t, err)

	aux := p.AuxDecls()
	require.Len(t, aux, 1)
	assert.Equal(t, "f_old", aux[0].Name())

	p.Cleanup()
	require.Len(t, p.AuxDecls(), 1)
	r, err := p.Eval(exprs[0], false)
	require.NoError(t, err)
	assert.Equal(t, m.MkInt(5), r)
	r, err = p.Eval(exprs[1], false)
	require.NoError(t, err)
	assert.Equal(t, m.MkInt(6), r)
}

func Test_BuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		unknown bool
	}{
		{
			name:    "unknown sort",
			input:   "decls:\n  - name: c\n    range: Real\n",
			unknown: true,
		},
		{
			name:    "unknown symbol",
			input:   "eval:\n  - [+, d, 1]\n",
			unknown: true,
		},
		{
			name:  "ill-sorted",
			input: "eval:\n  - [+, true, 1]\n",
		},
		{
			name:  "not a value",
			input: "decls:\n  - name: c\n    range: Int\nconstants:\n  - name: c\n    value: [+, 1, 2]\n",
		},
		{
			name:  "arity",
			input: "decls:\n  - name: f\n    domain: [Int]\n    range: Int\neval:\n  - [f, 1, 2]\n",
		},
		{
			name:  "free argument",
			input: "eval:\n  - $0\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, p := newProtoModel(t)
			f, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			_, err = f.Build(p)
			require.Error(t, err)
			assert.Equal(t, tt.unknown, errors.Is(err, ErrUnknownSymbol), err.Error())
		})
	}
}

func Test_Sorts(t *testing.T) {
	m, p := newProtoModel(t)
	b := &builder{m: m, p: p, sorts: map[string]*smt.Sort{}, decls: map[string]*smt.FuncDecl{}}

	s, err := b.sort("Array<Int, Array<BV8,Bool>>")
	require.NoError(t, err)
	assert.Equal(t, m.ArraySort([]*smt.Sort{m.IntSort()}, m.ArraySort([]*smt.Sort{m.BvSort(8)}, m.BoolSort())), s)

	_, err = b.sort("BV0")
	assert.Error(t, err)
	_, err = b.sort("Array<Int>")
	assert.Error(t, err)
}

func Test_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"U"}, f.Sorts)
	assert.Len(t, f.Eval, 7)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func Test_FunctionElse(t *testing.T) {
	m, p := newProtoModel(t)
	f, err := Parse([]byte(`
decls:
  - name: f
    domain: [Int]
    range: Int
  - name: g
    domain: [Int]
    range: Int
  - name: h
    domain: [Int]
    range: Int
functions:
  - name: f
    else: 3
  - name: g
    else: [+, $0, 1]
  - name: h
    entries:
      - args: [1]
        value: 2
`))
	require.NoError(t, err)
	require.Len(t, f.Functions, 3)
	assert.Equal(t, yaml.ScalarNode, f.Functions[0].Else.Kind)
	assert.Equal(t, yaml.SequenceNode, f.Functions[1].Else.Kind)
	assert.Zero(t, f.Functions[2].Else.Kind)

	exprs, err := f.Build(p)
	require.NoError(t, err)
	assert.Empty(t, exprs)
	decl := func(name string) *smt.FuncDecl {
		return m.MkFuncDecl(name, []*smt.Sort{m.IntSort()}, m.IntSort())
	}
	assert.Equal(t, m.MkInt(3), p.GetFuncInterp(decl("f")).Else())
	assert.False(t, p.GetFuncInterp(decl("g")).IsPartial())
	r, err := p.Eval(m.MkApp(decl("g"), m.MkInt(4)), false)
	require.NoError(t, err)
	assert.Equal(t, m.MkInt(5), r)
	hi := p.GetFuncInterp(decl("h"))
	assert.True(t, hi.IsPartial())
	assert.Equal(t, 1, hi.NumEntries())
}

const hugeInt = "123456789012345678901234567890123456789012345678901234567890123456789012345678901234567890"

func Test_UnboundedNumerals(t *testing.T) {
	m, p := newProtoModel(t)
	f, err := Parse([]byte(`
eval:
  - ` + hugeInt + `
  - 0x1f
  - "#x1000000000000000000000000000000000000000000000000000000000000000000"
  - [bv, 0x10000000000000000000000000000000000000000000000000000000000000000, 260]
  - [bv, 5, 3]
`))
	require.NoError(t, err)
	exprs, err := f.Build(p)
	require.NoError(t, err)
	require.Len(t, exprs, 5)

	n, ok := new(big.Int).SetString(hugeInt, 10)
	require.True(t, ok)
	assert.Equal(t, m.MkIntNumeral(n), exprs[0])
	assert.Equal(t, m.MkInt(31), exprs[1])
	assert.Equal(t, m.MkBvNumeral(new(big.Int).Lsh(big.NewInt(1), 264), 268), exprs[2])
	assert.Equal(t, m.MkBvNumeral(new(big.Int).Lsh(big.NewInt(1), 256), 260), exprs[3])
	assert.Equal(t, m.MkBvInt64(5, 3), exprs[4])

	_, err = mustParse(t, "eval:\n  - 1.5\n").Build(p)
	assert.Error(t, err)
}

func mustParse(t *testing.T, input string) *File {
	f, err := Parse([]byte(input))
	require.NoError(t, err)
	return f
}
