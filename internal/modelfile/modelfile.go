// Package modelfile reads model descriptions written in YAML and loads them
// into a ProtoModel.
//
// Expressions are YAML scalars or sequences read as s-expressions:
//
//	42, -3, 0x1f          Int numerals
//	true, false
//	"#b0101", "#x0f"      bit-vector numerals, quoted
//	c                     a declared constant
//	U!val!0               a value of the uninterpreted sort U
//	$0                    argument 0, inside else branches
//	[+, c, 1]             builtin operators
//	[f, 0]                a declared function
//	[bv, 15, 4]           the bit-vector 15 of width 4
//	[as-array, f]
//	[const, "Array<Int,Int>", 0]
//
// Sorts are written Bool, Int, BV<n>, Array<D1,...,Dn,R> or the name of a
// declared uninterpreted sort.
package modelfile

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrUnknownSymbol reports a sort, declaration or operator that is not
// declared in the file.
var ErrUnknownSymbol = errors.New("unknown symbol")

type File struct {
	Sorts     []string    `yaml:"sorts"`
	Universes []Universe  `yaml:"universes"`
	Decls     []Decl      `yaml:"decls"`
	Constants []Constant  `yaml:"constants"`
	Functions []Function  `yaml:"functions"`
	Eval      []yaml.Node `yaml:"eval"`
}

// Universe registers the first Size values of Sort, and freezes the
// universe when Finite is set.
type Universe struct {
	Sort   string `yaml:"sort"`
	Size   uint32 `yaml:"size"`
	Finite bool   `yaml:"finite"`
}

type Decl struct {
	Name   string   `yaml:"name"`
	Domain []string `yaml:"domain"`
	Range  string   `yaml:"range"`
}

type Constant struct {
	Name  string    `yaml:"name"`
	Value yaml.Node `yaml:"value"`
}

type Entry struct {
	Args  []yaml.Node `yaml:"args"`
	Value yaml.Node   `yaml:"value"`
}

// Function is a function table. A missing Else leaves the table partial.
// When Aux is set and the function already has a table, the old table is
// kept as the table of the auxiliary declaration Aux.
type Function struct {
	Name    string     `yaml:"name"`
	Entries []Entry    `yaml:"entries"`
	Else    yaml.Node  `yaml:"else"`
	Aux     string     `yaml:"aux"`
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parsing model file")
	}
	return &f, nil
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading model file %s", path)
	}
	return Parse(data)
}
