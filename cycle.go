package acorn

import (
	"fmt"
	"reflect"
	"strings"
)

// activation is one link in the chain of types currently being constructed
// by a single top-level call. A nil *activation is the empty chain.
type activation struct {
	parent *activation
	target reflect.Type
}

// contains reports whether t is already being constructed further up.
func (a *activation) contains(t reflect.Type) bool {
	for link := a; link != nil; link = link.parent {
		if link.target == t {
			return true
		}
	}
	return false
}

// guard fails with ErrCircularDependency when t is already on the chain.
func (a *activation) guard(t reflect.Type) error {
	if a.contains(t) {
		return circularError(a.path(), t)
	}
	return nil
}

// enter pushes t onto the chain.
func (a *activation) enter(t reflect.Type) (*activation, error) {
	if err := a.guard(t); err != nil {
		return nil, err
	}
	return &activation{parent: a, target: t}, nil
}

// path returns the chain from the outermost type inwards.
func (a *activation) path() []reflect.Type {
	var stack []reflect.Type
	for link := a; link != nil; link = link.parent {
		stack = append(stack, link.target)
	}
	for i, j := 0, len(stack)-1; i < j; i, j = i+1, j-1 {
		stack[i], stack[j] = stack[j], stack[i]
	}
	return stack
}

func circularError(stack []reflect.Type, t reflect.Type) error {
	chain := make([]string, len(stack)+1)
	for i, s := range stack {
		chain[i] = s.String()
	}
	chain[len(stack)] = t.String()

	return fmt.Errorf("%w: %s", ErrCircularDependency, strings.Join(chain, " -> "))
}
