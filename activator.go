package acorn

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// CreateInstance constructs a value of type t using the constructors declared
// for t in the provider's [Registry].
//
// Constructor selection is fixed: a type with one constructor uses it; a type
// with several uses its zero-parameter constructor, and fails with
// [ErrAmbiguousConstructor] when there is none. Each parameter is then
// resolved independently, first from overrides (typed entries before raw
// ones), then from the provider's services, then from the parameter's
// default. overrides may be nil.
func CreateInstance(p *Provider, t reflect.Type, overrides *Overrides) (any, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: provider is nil", ErrInvalidArgument)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: type is nil", ErrInvalidArgument)
	}
	return p.activate(nil, t, overrides)
}

// Create is a generic helper around [CreateInstance]:
//
//	page, err := acorn.Create[*ProfilePage](p, acorn.With(acorn.Raw("id", 7)))
func Create[T any](p *Provider, overrides *Overrides) (T, error) {
	var zero T
	instance, err := CreateInstance(p, TypeOf[T](), overrides)
	if err != nil {
		return zero, err
	}
	return convert[T](instance)
}

// activate runs one constructor of t with chain extended by t.
func (p *Provider) activate(chain *activation, t reflect.Type, overrides *Overrides) (any, error) {
	next, err := chain.enter(t)
	if err != nil {
		return nil, err
	}

	ctor, err := selectConstructor(p.registry, t)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("constructor selected",
		zap.Stringer("type", t),
		zap.Int("params", len(ctor.params)),
		zap.Int("overrides", overrides.Len()))

	args, err := p.resolveArguments(next, t, ctor, overrides)
	if err != nil {
		return nil, err
	}

	instance, err := ctor.invoke(args)
	if err != nil {
		return nil, fmt.Errorf("constructing %s: %w", typeName(t), err)
	}
	return instance, nil
}

// selectConstructor picks the constructor of t: the only one, or the
// zero-parameter one among several.
func selectConstructor(r *Registry, t reflect.Type) (Constructor, error) {
	ctors := r.Constructors(t)

	switch len(ctors) {
	case 0:
		return Constructor{}, fmt.Errorf("%w: %s", ErrNoPublicConstructor, typeName(t))
	case 1:
		return ctors[0], nil
	}

	for _, c := range ctors {
		if len(c.params) == 0 {
			return c, nil
		}
	}
	return Constructor{}, fmt.Errorf("%w: %s has %d constructors and none without parameters",
		ErrAmbiguousConstructor, typeName(t), len(ctors))
}
