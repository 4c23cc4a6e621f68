package acorn

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidArgument is returned when a registration is given a nil type,
	// or an implementation or instance that does not satisfy its contract.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateRegistration is returned when a contract type is registered
	// more than once in the same [Collection].
	ErrDuplicateRegistration = errors.New("duplicate registration")

	// ErrServiceNotRegistered is returned by [Provider.Resolve] when no
	// descriptor exists for the requested contract. [Provider.GetService]
	// reports the same situation as a plain miss instead.
	ErrServiceNotRegistered = errors.New("service not registered")

	// ErrNoPublicConstructor is returned when the target type has no
	// constructors in the [Registry].
	ErrNoPublicConstructor = errors.New("no public constructor")

	// ErrAmbiguousConstructor is returned when the target type has several
	// constructors and none of them takes zero parameters.
	ErrAmbiguousConstructor = errors.New("ambiguous constructor")

	// ErrTypeMismatch is returned when an override matches a parameter by name
	// but its value cannot be used as the parameter's type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrNoSuitableArgument is returned when no source produced a value for a
	// required constructor parameter.
	ErrNoSuitableArgument = errors.New("no suitable argument")

	// ErrCircularDependency is returned when activating a type transitively
	// requires activating the same type again. The message includes the chain.
	ErrCircularDependency = errors.New("circular dependency detected")

	// ErrAlreadyShutdown is returned by [Provider.Shutdown] on the second call.
	ErrAlreadyShutdown = errors.New("provider already shut down")
)

// ArgumentError describes a failure to produce the value of one constructor
// parameter. It unwraps to one of the sentinel errors above.
type ArgumentError struct {
	Target reflect.Type
	Param  Param
	Detail string
	Err    error
}

func (e *ArgumentError) Error() string {
	msg := fmt.Sprintf("%v: parameter %q of type %s on %s", e.Err, e.Param.Name, typeName(e.Param.Type), typeName(e.Target))
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// typeName returns the package-qualified name of t, looking through pointers,
// so messages name the type a reader can grep for.
func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	prefix := ""
	base := t
	for base.Kind() == reflect.Pointer && base.Name() == "" {
		prefix += "*"
		base = base.Elem()
	}
	if base.PkgPath() == "" || base.Name() == "" {
		return t.String()
	}
	return prefix + base.PkgPath() + "." + base.Name()
}
