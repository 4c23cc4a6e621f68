package acorn

import (
	"fmt"
	"reflect"
)

// resolveArguments produces one argument per parameter of ctor. Parameters
// are independent: one may come from overrides and the next from services.
func (p *Provider) resolveArguments(chain *activation, target reflect.Type, ctor Constructor, overrides *Overrides) ([]any, error) {
	args := make([]any, len(ctor.params))
	for i, param := range ctor.params {
		arg, err := p.resolveArgument(chain, target, param, overrides)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	return args, nil
}

// resolveArgument applies the cascade for one parameter:
//
//  1. a typed override with a matching name, whose declared type must be
//     assignable to the parameter; a mismatch fails without trying further
//  2. a raw override with a matching name, converted best-effort
//  3. a service registered for the parameter's type
//  4. the parameter's default, if it is optional
//
// Names match ignoring case.
func (p *Provider) resolveArgument(chain *activation, target reflect.Type, param Param, overrides *Overrides) (any, error) {
	if o, ok := overrides.match(param.Name, true); ok {
		if !o.declared.AssignableTo(param.Type) {
			return nil, &ArgumentError{
				Target: target,
				Param:  param,
				Detail: fmt.Sprintf("override %q is declared as %s", o.name, typeName(o.declared)),
				Err:    ErrTypeMismatch,
			}
		}
		v, _ := argumentValue(o.value, param.Type)
		return v.Interface(), nil
	}

	if o, ok := overrides.match(param.Name, false); ok {
		v, ok := argumentValue(o.value, param.Type)
		if !ok {
			return nil, &ArgumentError{
				Target: target,
				Param:  param,
				Detail: fmt.Sprintf("raw override %q holds %T", o.name, o.value),
				Err:    ErrTypeMismatch,
			}
		}
		return v.Interface(), nil
	}

	instance, ok, err := p.getService(chain, param.Type)
	if err != nil {
		return nil, fmt.Errorf("resolving parameter %q of %s: %w", param.Name, typeName(target), err)
	}
	if ok {
		return instance, nil
	}

	if param.Optional {
		return param.Default, nil
	}

	detail := "no service registered and no default"
	if overrides != nil {
		detail = fmt.Sprintf("no match among %d overrides, no service registered and no default", overrides.Len())
	}
	return nil, &ArgumentError{
		Target: target,
		Param:  param,
		Detail: detail,
		Err:    ErrNoSuitableArgument,
	}
}
