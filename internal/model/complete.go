package model

import (
	"protomodel/internal/smt"

	log "github.com/sirupsen/logrus"
)

// CompletePartialFunc gives the partial table of f an else branch: the result
// most entries share, or some value of the range for an empty table. It is a
// no-op when f has no table or a total one.
func (p *ProtoModel) CompletePartialFunc(f *smt.FuncDecl) {
	fi := p.GetFuncInterp(f)
	if fi == nil || !fi.IsPartial() {
		return
	}
	elseValue := fi.MaxOccResult()
	if elseValue == nil {
		elseValue = p.GetSomeValue(f.Range())
	}
	log.Debugf("completing %s with else %s", f.Name(), elseValue)
	fi.SetElse(elseValue)
}

// CompletePartialFuncs completes every table unless partial models were
// requested.
func (p *ProtoModel) CompletePartialFuncs() {
	if p.partial {
		return
	}
	// GetSomeValue may register new function declarations; index, don't range
	for i := 0; i < len(p.funcDecls); i++ {
		p.CompletePartialFunc(p.funcDecls[i])
	}
}

// Compress drops the entries of every table that repeat its else branch.
func (p *ProtoModel) Compress() {
	for _, f := range p.funcDecls {
		p.finterp[f].Compress()
	}
}
