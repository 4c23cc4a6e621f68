package acorn

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Override is one named value supplied to a single activation. It is either
// typed, carrying a declared type that is checked against the parameter, or
// raw, which is used best-effort without a declared type.
type Override struct {
	name     string
	value    any
	declared reflect.Type
	typed    bool
}

// Typed returns an override whose declared type is T. A parameter matched by
// name must accept T or activation fails with [ErrTypeMismatch].
func Typed[T any](name string, value T) Override {
	return Override{name: name, value: value, declared: TypeOf[T](), typed: true}
}

// Raw returns an override with no declared type. A parameter matched by name
// receives the value converted as far as Go allows.
func Raw(name string, value any) Override {
	return Override{name: name, value: value}
}

// Name returns the override's name.
func (o Override) Name() string { return o.name }

// Typed reports whether the override carries a declared type.
func (o Override) Typed() bool { return o.typed }

// Overrides is the ordered set of values supplied to one activation. A nil
// *Overrides means no overrides were supplied at all.
type Overrides struct {
	entries []Override
}

// With builds an [Overrides] from the given entries, keeping their order.
func With(entries ...Override) *Overrides {
	o := &Overrides{entries: make([]Override, len(entries))}
	copy(o.entries, entries)
	return o
}

// FromMap builds raw overrides from an unstructured value bag. Entries are
// ordered by key.
func FromMap(values map[string]any) *Overrides {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	o := &Overrides{entries: make([]Override, 0, len(keys))}
	for _, k := range keys {
		o.entries = append(o.entries, Raw(k, values[k]))
	}
	return o
}

// FromStruct builds typed overrides from the exported fields of a struct or
// pointer to struct. Each field's declared type becomes the override's type.
// A field tag `acorn:"name"` renames the override and `acorn:"-"` skips the
// field.
func FromStruct(v any) (*Overrides, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: overrides struct is a nil pointer", ErrInvalidArgument)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: overrides must be a struct, got %T", ErrInvalidArgument, v)
	}

	o := &Overrides{}
	for _, f := range reflect.VisibleFields(rv.Type()) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("acorn"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		fv, err := rv.FieldByIndexErr(f.Index)
		if err != nil || !fv.CanInterface() {
			continue
		}
		o.entries = append(o.entries, Override{
			name:     name,
			value:    fv.Interface(),
			declared: f.Type,
			typed:    true,
		})
	}
	return o, nil
}

// Len returns the number of entries.
func (o *Overrides) Len() int {
	if o == nil {
		return 0
	}
	return len(o.entries)
}

// match returns the first entry of the requested kind whose name equals name
// ignoring case.
func (o *Overrides) match(name string, typed bool) (Override, bool) {
	if o == nil {
		return Override{}, false
	}
	for _, e := range o.entries {
		if e.typed == typed && strings.EqualFold(e.name, name) {
			return e, true
		}
	}
	return Override{}, false
}
