package acorn

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// TypeOf returns the [reflect.Type] of T. It is the usual way to name a
// contract or implementation type, including interface types:
//
//	acorn.TypeOf[Logger]()
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Param describes one formal parameter of a [Constructor].
type Param struct {
	Name     string
	Type     reflect.Type
	Optional bool
	// Default is used when Optional is set and no other source supplies a
	// value. A nil Default means the zero value of Type.
	Default any
}

// Constructor is an explicit description of one public initializer of a
// type: its ordered parameters and the function that builds the instance.
// Build one with [Ctor] or [NewConstructor].
type Constructor struct {
	out    reflect.Type
	params []Param
	invoke func(args []any) (any, error)
	err    error
}

// Ctor describes a Go constructor function. The function must have the
// signature func(deps...) T or func(deps...) (T, error), and names supplies
// one parameter name per argument, in order. Errors are deferred until the
// constructor is handed to [Registry.Define].
//
//	acorn.Ctor(NewService, "logger", "retries").WithDefault("retries", 3)
func Ctor(fn any, names ...string) Constructor {
	val := reflect.ValueOf(fn)
	if !val.IsValid() || val.Kind() != reflect.Func || val.IsNil() {
		return Constructor{err: fmt.Errorf("%w: constructor must be a non-nil function", ErrInvalidArgument)}
	}
	typ := val.Type()

	if typ.IsVariadic() {
		return Constructor{err: fmt.Errorf("%w: constructor must not be variadic", ErrInvalidArgument)}
	}
	if typ.NumOut() == 0 || typ.NumOut() > 2 {
		return Constructor{err: fmt.Errorf("%w: constructor must return (T) or (T, error)", ErrInvalidArgument)}
	}
	hasError := typ.NumOut() == 2
	if hasError && !typ.Out(1).Implements(errorType) {
		return Constructor{err: fmt.Errorf("%w: second return value must implement error", ErrInvalidArgument)}
	}
	if len(names) != typ.NumIn() {
		return Constructor{err: fmt.Errorf("%w: constructor %s takes %d parameters, %d names given", ErrInvalidArgument, typ, typ.NumIn(), len(names))}
	}

	params := make([]Param, typ.NumIn())
	for i := range params {
		params[i] = Param{Name: names[i], Type: typ.In(i)}
	}

	invoke := func(args []any) (any, error) {
		in := make([]reflect.Value, len(args))
		for i, arg := range args {
			v, ok := argumentValue(arg, typ.In(i))
			if !ok {
				return nil, fmt.Errorf("%w: argument %d is %T, want %s", ErrTypeMismatch, i, arg, typ.In(i))
			}
			in[i] = v
		}
		results := val.Call(in)
		if hasError && !results[1].IsNil() {
			return nil, results[1].Interface().(error)
		}
		return results[0].Interface(), nil
	}

	return NewConstructor(typ.Out(0), params, invoke)
}

// NewConstructor describes an initializer without reflection over a Go
// function. out is the type the invoke function returns, and invoke receives
// one argument per param, each assignable to the param's type or nil.
func NewConstructor(out reflect.Type, params []Param, invoke func(args []any) (any, error)) Constructor {
	if out == nil {
		return Constructor{err: fmt.Errorf("%w: constructor output type is nil", ErrInvalidArgument)}
	}
	if invoke == nil {
		return Constructor{err: fmt.Errorf("%w: constructor for %s has no invoke function", ErrInvalidArgument, out)}
	}

	c := Constructor{out: out, params: make([]Param, len(params)), invoke: invoke}
	for i, p := range params {
		if p.Name == "" {
			return Constructor{err: fmt.Errorf("%w: parameter %d of %s has no name", ErrInvalidArgument, i, out)}
		}
		if p.Type == nil {
			return Constructor{err: fmt.Errorf("%w: parameter %q of %s has no type", ErrInvalidArgument, p.Name, out)}
		}
		for _, prev := range c.params[:i] {
			if strings.EqualFold(prev.Name, p.Name) {
				return Constructor{err: fmt.Errorf("%w: parameter name %q repeated on %s", ErrInvalidArgument, p.Name, out)}
			}
		}
		if p.Optional {
			def, ok := argumentValue(p.Default, p.Type)
			if !ok {
				return Constructor{err: fmt.Errorf("%w: default %T for %q is not usable as %s", ErrInvalidArgument, p.Default, p.Name, p.Type)}
			}
			p.Default = def.Interface()
		}
		c.params[i] = p
	}
	return c
}

// WithDefault marks the named parameter optional with the given default. It
// returns a modified copy; the receiver is unchanged.
func (c Constructor) WithDefault(name string, value any) Constructor {
	if c.err != nil {
		return c
	}
	params := make([]Param, len(c.params))
	copy(params, c.params)

	for i := range params {
		if params[i].Name != name {
			continue
		}
		def, ok := argumentValue(value, params[i].Type)
		if !ok {
			c.err = fmt.Errorf("%w: default %T for %q is not usable as %s", ErrInvalidArgument, value, name, params[i].Type)
			return c
		}
		params[i].Optional = true
		params[i].Default = def.Interface()
		c.params = params
		return c
	}

	c.err = fmt.Errorf("%w: %s has no parameter %q", ErrInvalidArgument, c.out, name)
	return c
}

// Out returns the type the constructor produces.
func (c Constructor) Out() reflect.Type { return c.out }

// Params returns a copy of the constructor's ordered parameter list.
func (c Constructor) Params() []Param {
	out := make([]Param, len(c.params))
	copy(out, c.params)
	return out
}

// Err reports a problem found while describing the constructor.
func (c Constructor) Err() error { return c.err }

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

// Registry is the factory table: for each implementation type it holds the
// constructors the activator may choose from. A [Collection] shares its
// registry; each [Provider] gets a copy taken at [Collection.Build], so later
// declarations only affect providers built after them.
type Registry struct {
	mu    sync.RWMutex
	ctors map[reflect.Type][]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[reflect.Type][]Constructor)}
}

// Define declares the public constructors of t, replacing any earlier
// declaration. Declaring t with no constructors is allowed and makes every
// activation of t fail with [ErrNoPublicConstructor].
func (r *Registry) Define(t reflect.Type, ctors ...Constructor) error {
	if t == nil {
		return fmt.Errorf("%w: type is nil", ErrInvalidArgument)
	}

	list := make([]Constructor, 0, len(ctors))
	for i, c := range ctors {
		if c.err != nil {
			return fmt.Errorf("defining %s, constructor %d: %w", typeName(t), i, c.err)
		}
		if c.out == nil || c.invoke == nil {
			return fmt.Errorf("%w: constructor %d of %s is empty", ErrInvalidArgument, i, typeName(t))
		}
		if !c.out.AssignableTo(t) {
			return fmt.Errorf("%w: constructor %d of %s returns %s", ErrInvalidArgument, i, typeName(t), c.out)
		}
		list = append(list, c)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[t] = list
	return nil
}

// Define is a generic helper around [Registry.Define]:
//
//	acorn.Define[*ConsoleLogger](reg, acorn.Ctor(NewConsoleLogger))
func Define[T any](r *Registry, ctors ...Constructor) error {
	return r.Define(TypeOf[T](), ctors...)
}

// Constructors returns the constructors declared for t.
func (r *Registry) Constructors(t reflect.Type) []Constructor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.ctors[t]
	out := make([]Constructor, len(list))
	copy(out, list)
	return out
}

// snapshot returns a registry with the same declarations that later Define
// calls on r do not affect.
func (r *Registry) snapshot() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := NewRegistry()
	for t, list := range r.ctors {
		out.ctors[t] = append([]Constructor(nil), list...)
	}
	return out
}

// Defined reports whether t has been declared, even with no constructors.
func (r *Registry) Defined(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ctors[t]
	return ok
}

// ---------------------------------------------------------------------------
// Value coercion
// ---------------------------------------------------------------------------

// argumentValue converts v to a value of type t when that can be done without
// changing its meaning: nil becomes the zero value, assignable values pass
// through, numbers convert between numeric kinds when the value fits, and
// values convert between types that share a kind (type Title string and
// string).
func argumentValue(v any, t reflect.Type) (reflect.Value, bool) {
	if v == nil {
		return reflect.Zero(t), true
	}

	rv := reflect.ValueOf(v)
	vt := rv.Type()

	switch {
	case vt.AssignableTo(t):
		if t.Kind() == reflect.Interface {
			out := reflect.New(t).Elem()
			out.Set(rv)
			return out, true
		}
		return rv, true
	case isNumeric(vt.Kind()) && isNumeric(t.Kind()):
		return convertNumber(rv, t)
	case vt.Kind() == t.Kind() && vt.ConvertibleTo(t):
		return rv.Convert(t), true
	}
	return reflect.Value{}, false
}

// convertNumber converts rv to the numeric type t, refusing conversions that
// would wrap, truncate a fraction or overflow.
func convertNumber(rv reflect.Value, t reflect.Type) (reflect.Value, bool) {
	out := reflect.New(t).Elem()

	switch {
	case isSigned(rv.Kind()):
		n := rv.Int()
		switch {
		case isSigned(t.Kind()):
			if out.OverflowInt(n) {
				return reflect.Value{}, false
			}
			out.SetInt(n)
		case isUnsigned(t.Kind()):
			if n < 0 || out.OverflowUint(uint64(n)) {
				return reflect.Value{}, false
			}
			out.SetUint(uint64(n))
		default:
			out.SetFloat(float64(n))
		}

	case isUnsigned(rv.Kind()):
		n := rv.Uint()
		switch {
		case isSigned(t.Kind()):
			if n > math.MaxInt64 || out.OverflowInt(int64(n)) {
				return reflect.Value{}, false
			}
			out.SetInt(int64(n))
		case isUnsigned(t.Kind()):
			if out.OverflowUint(n) {
				return reflect.Value{}, false
			}
			out.SetUint(n)
		default:
			out.SetFloat(float64(n))
		}

	default:
		f := rv.Float()
		switch {
		case isSigned(t.Kind()):
			// 2^63 is exact as a float64; anything at or above it overflows int64.
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 || out.OverflowInt(int64(f)) {
				return reflect.Value{}, false
			}
			out.SetInt(int64(f))
		case isUnsigned(t.Kind()):
			if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 || out.OverflowUint(uint64(f)) {
				return reflect.Value{}, false
			}
			out.SetUint(uint64(f))
		default:
			if out.OverflowFloat(f) {
				return reflect.Value{}, false
			}
			out.SetFloat(f)
		}
	}
	return out, true
}

func isNumeric(k reflect.Kind) bool {
	return isSigned(k) || isUnsigned(k) || k == reflect.Float32 || k == reflect.Float64
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}
