package acorn

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// descriptor is one registration: a contract bound to an implementation with
// a lifetime. The cached instance is the only mutable state and goes from
// empty to filled at most once.
type descriptor struct {
	contract       reflect.Type
	implementation reflect.Type
	lifetime       Lifetime

	mu       sync.Mutex
	instance any
	filled   bool

	checked  sync.Once
	cycleErr error
}

func newDescriptor(implementation, contract reflect.Type, lifetime Lifetime, instance any) (*descriptor, error) {
	if implementation == nil {
		return nil, fmt.Errorf("%w: implementation type is nil", ErrInvalidArgument)
	}
	if contract == nil {
		return nil, fmt.Errorf("%w: contract type is nil", ErrInvalidArgument)
	}
	if !implementation.AssignableTo(contract) {
		return nil, fmt.Errorf("%w: %s does not implement %s", ErrInvalidArgument, typeName(implementation), typeName(contract))
	}

	d := &descriptor{
		contract:       contract,
		implementation: implementation,
		lifetime:       lifetime,
	}
	if instance != nil {
		if !reflect.TypeOf(instance).AssignableTo(contract) {
			return nil, fmt.Errorf("%w: instance %T does not implement %s", ErrInvalidArgument, instance, typeName(contract))
		}
		d.instance, d.filled = instance, true
	}
	return d, nil
}

// copyWithoutInstance returns a descriptor with the same configuration and an
// empty cache.
func (d *descriptor) copyWithoutInstance() *descriptor {
	return &descriptor{
		contract:       d.contract,
		implementation: d.implementation,
		lifetime:       d.lifetime,
	}
}

// getOrCreateInstance returns the cached singleton, activating and caching it
// on first use, or activates a fresh transient every time.
func (d *descriptor) getOrCreateInstance(p *Provider, chain *activation) (any, error) {
	if d.lifetime == Transient {
		return p.activate(chain, d.implementation, nil)
	}

	// Both checks run before locking so a cycle fails instead of deadlocking
	// on d.mu. The chain covers this goroutine; the graph walk covers
	// goroutines that each hold one lock of the cycle.
	if err := chain.guard(d.implementation); err != nil {
		return nil, err
	}
	d.checked.Do(func() {
		d.cycleErr = p.findCycle(d.implementation, make(map[reflect.Type]buildState), nil)
	})
	if d.cycleErr != nil {
		return nil, d.cycleErr
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.filled {
		return d.instance, nil
	}

	instance, err := p.activate(chain, d.implementation, nil)
	if err != nil {
		return nil, err
	}
	d.instance, d.filled = instance, true

	p.logger.Debug("singleton cached",
		zap.Stringer("contract", d.contract),
		zap.Stringer("implementation", d.implementation))
	p.track(instance)

	return instance, nil
}
