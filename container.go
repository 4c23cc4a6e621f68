package acorn

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Collection is the mutable set of service registrations. Register services
// with the Add methods, then call [Collection.Build] to snapshot them into a
// [Provider]. A collection can be built any number of times; each provider
// starts with no activated singletons.
type Collection struct {
	mu sync.RWMutex

	registry    *Registry
	descriptors map[reflect.Type]*descriptor
}

// NewCollection returns an empty collection whose providers activate types
// using registry. A nil registry gets a fresh, empty one.
func NewCollection(registry *Registry) *Collection {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Collection{
		registry:    registry,
		descriptors: make(map[reflect.Type]*descriptor),
	}
}

// Registry returns the collection's factory table. Declare constructors on it
// before calling [Collection.Build]; each provider keeps a copy taken at
// build time.
func (c *Collection) Registry() *Registry {
	return c.registry
}

// AddSingleton registers impl as the single instance of contract per
// provider.
func (c *Collection) AddSingleton(contract, impl reflect.Type) error {
	return c.add(contract, impl, Singleton, nil)
}

// AddSingletonInstance registers impl as a singleton with instance already in
// the collection's cache. Providers built from the collection start with an
// empty cache, so they activate impl on first use like any other singleton.
func (c *Collection) AddSingletonInstance(contract, impl reflect.Type, instance any) error {
	if instance == nil {
		return fmt.Errorf("%w: instance is nil", ErrInvalidArgument)
	}
	return c.add(contract, impl, Singleton, instance)
}

// AddTransient registers impl to be activated anew on every resolution of
// contract.
func (c *Collection) AddTransient(contract, impl reflect.Type) error {
	return c.add(contract, impl, Transient, nil)
}

func (c *Collection) add(contract, impl reflect.Type, lifetime Lifetime, instance any) error {
	d, err := newDescriptor(impl, contract, lifetime, instance)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.descriptors[contract]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRegistration, typeName(contract))
	}
	c.descriptors[contract] = d
	return nil
}

// RemoveServices drops the registration for contract, if any.
func (c *Collection) RemoveServices(contract reflect.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.descriptors, contract)
}

// Contains reports whether contract is registered.
func (c *Collection) Contains(contract reflect.Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.descriptors[contract]
	return ok
}

// Len returns the number of registrations.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.descriptors)
}

// Build snapshots the registrations and the registry into a new [Provider].
// Every descriptor is copied without its cached instance, so singletons are
// never shared between providers. Build only fails when [WithValidation] is given and the
// graph cannot be satisfied.
func (c *Collection) Build(opts ...BuildOption) (*Provider, error) {
	o := buildOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	c.mu.RLock()
	descriptors := make(map[reflect.Type]*descriptor, len(c.descriptors))
	for contract, d := range c.descriptors {
		descriptors[contract] = d.copyWithoutInstance()
	}
	c.mu.RUnlock()

	p := &Provider{
		descriptors: descriptors,
		registry:    c.registry.snapshot(),
		logger:      o.logger,
	}

	if o.validate {
		if err := p.validate(); err != nil {
			return nil, err
		}
	}

	p.logger.Debug("provider built", zap.Int("services", len(descriptors)))
	return p, nil
}

// ---------------------------------------------------------------------------
// Generic helpers
// ---------------------------------------------------------------------------

// AddSingleton registers I as the singleton implementation of contract C:
//
//	acorn.AddSingleton[Logger, *ConsoleLogger](services)
func AddSingleton[C, I any](c *Collection) error {
	return c.AddSingleton(TypeOf[C](), TypeOf[I]())
}

// AddTransient registers I as the transient implementation of contract C.
func AddTransient[C, I any](c *Collection) error {
	return c.AddTransient(TypeOf[C](), TypeOf[I]())
}

// AddInstance registers instance as a singleton of contract C with
// implementation type I.
func AddInstance[C, I any](c *Collection, instance I) error {
	return c.AddSingletonInstance(TypeOf[C](), TypeOf[I](), instance)
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

type buildState int

const (
	unvisited buildState = iota
	visiting
	visited
)

// validate walks the constructor graph depth-first from every registered
// implementation without activating anything.
func (p *Provider) validate() error {
	contracts := make([]reflect.Type, 0, len(p.descriptors))
	for t := range p.descriptors {
		contracts = append(contracts, t)
	}
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].String() < contracts[j].String()
	})

	states := make(map[reflect.Type]buildState)
	for _, contract := range contracts {
		if err := p.validateType(p.descriptors[contract].implementation, states, nil); err != nil {
			return fmt.Errorf("validating %s: %w", typeName(contract), err)
		}
	}
	return nil
}

func (p *Provider) validateType(t reflect.Type, states map[reflect.Type]buildState, stack []reflect.Type) error {
	switch states[t] {
	case visiting:
		return circularError(stack, t)
	case visited:
		return nil
	}

	ctor, err := selectConstructor(p.registry, t)
	if err != nil {
		return err
	}

	states[t] = visiting
	stack = append(stack, t)

	for _, param := range ctor.params {
		d, ok := p.descriptors[param.Type]
		if !ok {
			if param.Optional {
				continue
			}
			return &ArgumentError{
				Target: t,
				Param:  param,
				Detail: "no service registered and no default",
				Err:    ErrNoSuitableArgument,
			}
		}
		if err := p.validateType(d.implementation, states, stack); err != nil {
			return err
		}
	}

	states[t] = visited
	return nil
}

// findCycle reports a dependency cycle reachable from t through registered
// services. Singletons and transients are activated without overrides, so
// these edges are exactly the ones activation will follow. Other problems are
// left for activation to report.
func (p *Provider) findCycle(t reflect.Type, states map[reflect.Type]buildState, stack []reflect.Type) error {
	switch states[t] {
	case visiting:
		return circularError(stack, t)
	case visited:
		return nil
	}

	ctor, err := selectConstructor(p.registry, t)
	if err != nil {
		states[t] = visited
		return nil
	}

	states[t] = visiting
	stack = append(stack, t)

	for _, param := range ctor.params {
		d, ok := p.descriptors[param.Type]
		if !ok {
			continue
		}
		if err := p.findCycle(d.implementation, states, stack); err != nil {
			return err
		}
	}

	states[t] = visited
	return nil
}
