package smt

import "sort"

// DeclSet is a set of declarations keyed by identity.
type DeclSet struct {
	elements map[*FuncDecl]struct{}
}

func NewDeclSet(elements ...*FuncDecl) *DeclSet {
	s := &DeclSet{
		elements: make(map[*FuncDecl]struct{}, len(elements)),
	}
	for _, elem := range elements {
		s.elements[elem] = struct{}{}
	}
	return s
}

func (set *DeclSet) Add(f *FuncDecl) {
	set.elements[f] = struct{}{}
}

func (set *DeclSet) Contains(f *FuncDecl) bool {
	_, ok := set.elements[f]
	return ok
}

func (set *DeclSet) Len() int {
	return len(set.elements)
}

// Elements returns the members ordered by creation.
func (set *DeclSet) Elements() []*FuncDecl {
	result := make([]*FuncDecl, 0, len(set.elements))
	for elem := range set.elements {
		result = append(result, elem)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].id < result[j].id
	})
	return result
}
