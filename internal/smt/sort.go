package smt

import (
	"fmt"
	"strings"
)

// FamilyID identifies the theory that owns a sort or a declaration.
type FamilyID int32

const (
	NullFamily       FamilyID = -1 // uninterpreted sorts and declarations
	BasicFamily      FamilyID = 0
	ArithFamily      FamilyID = 1
	BVFamily         FamilyID = 2
	ArrayFamily      FamilyID = 3
	ModelValueFamily FamilyID = 4
)

type SortKind uint8

const (
	UninterpretedSort SortKind = iota
	BoolSort
	IntSort
	BVSort
	ArraySort
	CustomSort // sort of a family registered through Manager.MkFamilyID
)

type Sort struct {
	id     uint32
	name   string
	family FamilyID
	kind   SortKind
	size   uint32
	domain []*Sort
	rng    *Sort
}

func (s *Sort) ID() uint32 {
	return s.id
}

func (s *Sort) Name() string {
	return s.name
}

func (s *Sort) Family() FamilyID {
	return s.family
}

func (s *Sort) Kind() SortKind {
	return s.kind
}

// Size is the width of a bit-vector sort, 0 otherwise.
func (s *Sort) Size() uint32 {
	return s.size
}

func (s *Sort) IsUninterp() bool {
	return s.family == NullFamily
}

func (s *Sort) IsBool() bool {
	return s.kind == BoolSort
}

func (s *Sort) ArrayDomain() []*Sort {
	return s.domain
}

func (s *Sort) ArrayRange() *Sort {
	return s.rng
}

func (s *Sort) String() string {
	switch s.kind {
	case BVSort:
		return fmt.Sprintf("(_ BitVec %d)", s.size)
	case ArraySort:
		parts := make([]string, 0, len(s.domain)+1)
		for _, d := range s.domain {
			parts = append(parts, d.String())
		}
		parts = append(parts, s.rng.String())
		return fmt.Sprintf("(Array %s)", strings.Join(parts, " "))
	}
	return s.name
}
