package model

import (
	"testing"

	"protomodel/internal/config"
	"protomodel/internal/funcinterp"
	"protomodel/internal/smt"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_EvalFailureWithoutCompletion(t *testing.T) {
	m, p := newTestModel(t, config.Default())
	c := m.MkConst("c", m.IntSort())
	e := m.MkAdd(c, m.MkInt(1))

	r, err := p.Eval(e, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEvaluation))
	assert.NotNil(t, r)
	assert.False(t, p.HasInterpretation(c.Decl()))
}

func Test_EvalWithCompletion(t *testing.T) {
	m, p := newTestModel(t, config.Default())
	c := m.MkConst("c", m.IntSort())
	f := intFunc(m, "f")
	e := m.MkAdd(m.MkApp(f, c), m.MkInt(1))

	r, err := p.Eval(e, true)
	require.NoError(t, err)
	assert.Equal(t, m.MkInt(1), r)
	assert.Equal(t, m.MkInt(0), p.GetConstInterp(c.Decl()))
	require.NotNil(t, p.GetFuncInterp(f))
	assert.Equal(t, m.MkInt(0), p.GetFuncInterp(f).Else())
}

func Test_EvalCompletesPartialTable(t *testing.T) {
	m, p := newTestModel(t, config.Default())
	f := intFunc(m, "f")
	fi := funcinterp.New(1)
	fi.InsertNewEntry([]*smt.Expr{m.MkInt(1)}, m.MkInt(7))
	p.RegisterFunc(f, fi)

	_, err := p.Eval(m.MkApp(f, m.MkInt(2)), false)
	assert.True(t, errors.Is(err, ErrEvaluation))
	assert.True(t, fi.IsPartial())

	r, err := p.Eval(m.MkApp(f, m.MkInt(1)), false)
	require.NoError(t, err)
	assert.Equal(t, m.MkInt(7), r)

	r, err = p.Eval(m.MkApp(f, m.MkInt(2)), true)
	require.NoError(t, err)
	assert.False(t, fi.IsPartial())
	assert.Equal(t, fi.Else(), r)
}

func Test_EvalElseWithArguments(t *testing.T) {
	m, p := newTestModel(t, config.Default())
	f := intFunc(m, "f")
	fi := funcinterp.New(1)
	fi.SetElse(m.MkAdd(m.MkVar(0, m.IntSort()), m.MkInt(1)))
	p.RegisterFunc(f, fi)

	r, err := p.Eval(m.MkApp(f, m.MkInt(5)), false)
	require.NoError(t, err)
	assert.Equal(t, m.MkInt(6), r)

	r, err = p.Eval(m.MkLt(m.MkApp(f, m.MkInt(1)), m.MkApp(f, m.MkInt(2))), false)
	require.NoError(t, err)
	assert.True(t, smt.IsTrue(r))
}

func Test_EvalSelectOfAsArray(t *testing.T) {
	m, p := newTestModel(t, config.Default())
	f := intFunc(m, "f")
	fi := funcinterp.New(1)
	fi.InsertNewEntry([]*smt.Expr{m.MkInt(1)}, m.MkInt(7))
	fi.SetElse(m.MkInt(0))
	p.RegisterFunc(f, fi)

	arr := m.MkAsArray(f)
	assert.True(t, p.IsAsArray(arr))
	sel := m.MkSelect(arr, m.MkInt(1))
	assert.True(t, p.IsSelectOfModelValue(sel))
	assert.False(t, p.IsSelectOfModelValue(m.MkSelect(m.MkAsArray(intFunc(m, "g")), m.MkInt(1))))

	r, err := p.Eval(sel, false)
	require.NoError(t, err)
	assert.Equal(t, m.MkInt(7), r)
	r, err = p.Eval(m.MkSelect(arr, m.MkInt(3)), false)
	require.NoError(t, err)
	assert.Equal(t, m.MkInt(0), r)
}

func Test_EvalSelectOfUninterpretedArray(t *testing.T) {
	m, p := newTestModel(t, config.Default())
	g := intFunc(m, "g")
	sel := m.MkSelect(m.MkAsArray(g), m.MkInt(1))

	r, err := p.Eval(sel, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEvaluation))
	assert.Equal(t, sel, r)
	assert.False(t, p.HasInterpretation(g))

	r, err = p.Eval(sel, true)
	require.NoError(t, err)
	assert.True(t, smt.IsValue(r))
	assert.True(t, p.HasInterpretation(g))
}

func Test_EvalSelfReferentialElse(t *testing.T) {
	m, p := newTestModel(t, config.Default())
	f := intFunc(m, "f")
	fi := funcinterp.New(1)
	fi.SetElse(m.MkApp(f, m.MkVar(0, m.IntSort())))
	p.RegisterFunc(f, fi)

	for _, completion := range []bool{false, true} {
		_, err := p.Eval(m.MkAdd(m.MkApp(f, m.MkInt(1)), m.MkInt(2)), completion)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupported))
	}

	// nesting below the bound still evaluates
	h := intFunc(m, "h")
	hi := funcinterp.New(1)
	hi.SetElse(m.MkApp(f, m.MkVar(0, m.IntSort())))
	hi.InsertNewEntry([]*smt.Expr{m.MkInt(1)}, m.MkInt(8))
	p.RegisterFunc(h, hi)
	k := intFunc(m, "k")
	ki := funcinterp.New(1)
	ki.SetElse(m.MkApp(h, m.MkVar(0, m.IntSort())))
	p.RegisterFunc(k, ki)
	r, err := p.Eval(m.MkApp(k, m.MkInt(1)), false)
	require.NoError(t, err)
	assert.Equal(t, m.MkInt(8), r)
}

func Test_EvalQuantifierUnsupported(t *testing.T) {
	m, p := newTestModel(t, config.Default())
	x := m.MkVar(0, m.IntSort())
	q := m.MkForall([]*smt.Sort{m.IntSort()}, m.MkLe(x, x))

	_, err := p.Eval(q, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))
	assert.False(t, errors.Is(err, ErrEvaluation))
}

func Test_EvalBitVectors(t *testing.T) {
	m, p := newTestModel(t, config.Default())
	x := m.MkFuncDecl("x", nil, m.BvSort(4))
	p.RegisterConst(x, m.MkBvInt64(15, 4))

	r, err := p.Eval(m.MkBvAdd(m.MkApp(x), m.MkBvInt64(2, 4)), false)
	require.NoError(t, err)
	assert.Equal(t, m.MkBvInt64(1, 4), r)
}

func Test_MkModelMovesTables(t *testing.T) {
	m, p := newTestModel(t, config.Default())
	c := m.MkFuncDecl("c", nil, m.IntSort())
	p.RegisterConst(c, m.MkInt(4))

	f := intFunc(m, "f")
	fi := funcinterp.New(1)
	fi.InsertNewEntry([]*smt.Expr{m.MkInt(2)}, m.MkInt(3))
	fi.SetElse(m.MkInt(1))
	p.RegisterFunc(f, fi)
	fRefs := f.RefCount()

	md := p.MkModel()

	// constants are copied
	assert.Equal(t, m.MkInt(4), p.GetConstInterp(c))
	assert.Equal(t, m.MkInt(4), md.GetConstInterp(c))
	assert.Equal(t, 2, m.MkInt(4).RefCount())

	// tables are moved
	assert.Equal(t, 0, p.NumFunctions())
	assert.Nil(t, p.GetFuncInterp(f))
	assert.Equal(t, []*smt.FuncDecl{c}, p.Decls())
	assert.Same(t, fi, md.GetFuncInterp(f))
	assert.Equal(t, fRefs, f.RefCount())

	r, err := md.Eval(m.MkApp(f, m.MkInt(2)))
	require.NoError(t, err)
	assert.Equal(t, m.MkInt(3), r)
	r, err = md.Eval(m.MkAdd(m.MkApp(c), m.MkApp(f, m.MkInt(9))))
	require.NoError(t, err)
	assert.Equal(t, m.MkInt(5), r)
}

func Test_ModelEvalNeverCompletes(t *testing.T) {
	m, p := newTestModel(t, config.Default())
	md := p.MkModel()
	c := m.MkConst("c", m.IntSort())

	_, err := md.Eval(c)
	assert.True(t, errors.Is(err, ErrEvaluation))
	assert.False(t, md.HasInterpretation(c.Decl()))
}

func Test_MkModelUniverses(t *testing.T) {
	m, p := newTestModel(t, config.Default())
	u := m.MkUninterpretedSort("U")
	p.RegisterValue(m.MkModelValue(0, u))
	p.RegisterValue(m.MkModelValue(1, u))
	p.FreezeUniverse(u)

	md := p.Finalize()
	require.Equal(t, []*smt.Sort{u}, md.UninterpretedSorts())
	universe := md.GetUniverse(u)
	assert.Equal(t, []*smt.Expr{m.MkModelValue(0, u), m.MkModelValue(1, u)}, universe)

	// the snapshot does not alias the builder's buffer
	p.GetUniverse(m.MkUninterpretedSort("V"))
	assert.Equal(t, 2, len(md.GetUniverse(u)))
	assert.Equal(t, m.MkModelValue(0, u), md.GetUniverse(u)[0])
	assert.Contains(t, md.String(), "U -> {U!val!0 U!val!1}")
}

func Test_FullPipeline(t *testing.T) {
	m, p := newTestModel(t, config.Default())
	as := m.ArraySort([]*smt.Sort{m.IntSort()}, m.IntSort())
	a := m.MkFuncDecl("a", nil, as)

	f := intFunc(m, "f")
	fi := funcinterp.New(1)
	fi.InsertNewEntry([]*smt.Expr{m.MkInt(0)}, m.MkInt(4))
	p.RegisterFunc(f, fi)

	g := intFunc(m, "g")
	gi := funcinterp.New(1)
	gi.SetElse(m.MkSelect(m.MkApp(a), m.MkVar(0, m.IntSort())))
	p.RegisterFunc(g, gi)

	p.CompletePartialFuncs()
	p.Cleanup()

	// a got an array value backed by an auxiliary table
	av := p.GetConstInterp(a)
	require.NotNil(t, av)
	require.True(t, smt.IsAsArray(av))
	k := smt.AsArrayFuncDecl(av)
	assert.True(t, p.IsAuxDecl(k))

	md := p.MkModel()
	assert.Empty(t, p.AuxDecls())
	r, err := md.Eval(m.MkApp(g, m.MkInt(3)))
	require.NoError(t, err)
	assert.Equal(t, m.MkInt(0), r)
	r, err = md.Eval(m.MkApp(f, m.MkInt(0)))
	require.NoError(t, err)
	assert.Equal(t, m.MkInt(4), r)
}
