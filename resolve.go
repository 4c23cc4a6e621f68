package acorn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Provider resolves contract types to instances. It is an immutable snapshot
// of a [Collection]; only the singleton caches inside it change, each filled
// at most once. A Provider is safe for concurrent use.
type Provider struct {
	descriptors map[reflect.Type]*descriptor
	registry    *Registry
	logger      *zap.Logger

	mu sync.Mutex
	// closers holds activated singletons that implement io.Closer, in
	// activation order. Dependencies are always activated before their
	// dependents, so Shutdown closes them in reverse.
	closers  []io.Closer
	shutdown bool
}

// GetService returns the instance for contract. When nothing is registered
// for contract it reports (nil, false, nil); a registered service that fails
// to activate reports the activation error.
func (p *Provider) GetService(contract reflect.Type) (any, bool, error) {
	return p.getService(nil, contract)
}

// Resolve is like [Provider.GetService] but treats a missing registration as
// [ErrServiceNotRegistered].
func (p *Provider) Resolve(contract reflect.Type) (any, error) {
	instance, ok, err := p.GetService(contract)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotRegistered, typeName(contract))
	}
	return instance, nil
}

// Contains reports whether a service is registered for contract, without
// activating it.
func (p *Provider) Contains(contract reflect.Type) bool {
	_, ok := p.descriptors[contract]
	return ok
}

// Registry returns the provider's copy of the factory table used to activate
// types.
func (p *Provider) Registry() *Registry {
	return p.registry
}

func (p *Provider) getService(chain *activation, contract reflect.Type) (any, bool, error) {
	d, ok := p.descriptors[contract]
	if !ok {
		return nil, false, nil
	}
	instance, err := d.getOrCreateInstance(p, chain)
	if err != nil {
		return nil, false, err
	}
	return instance, true, nil
}

// track records an activated singleton for Shutdown. Singletons activated
// once Shutdown has started are not tracked and are never closed.
func (p *Provider) track(instance any) {
	closer, ok := instance.(io.Closer)
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shutdown {
		p.logger.Debug("singleton activated after shutdown", zap.String("type", fmt.Sprintf("%T", instance)))
		return
	}
	p.closers = append(p.closers, closer)
}

// Shutdown closes every activated singleton that implements [io.Closer], in
// reverse activation order, so dependents are closed before their
// dependencies. Transients belong to their callers and are not closed. If ctx
// expires the remaining closers are skipped and the context error is
// included in the result.
//
// Closers run without holding the provider's lock, so a Close method may
// still resolve services. A second call returns [ErrAlreadyShutdown].
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return ErrAlreadyShutdown
	}
	p.shutdown = true
	closers := p.closers
	p.closers = nil
	p.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.logger.Debug("provider shut down", zap.Int("closed", len(closers)), zap.Int("errors", len(errs)))

	return errors.Join(errs...)
}

// ---------------------------------------------------------------------------
// Generic helpers
// ---------------------------------------------------------------------------

// GetService is a generic helper around [Provider.GetService]:
//
//	logger, ok, err := acorn.GetService[Logger](p)
func GetService[T any](p *Provider) (T, bool, error) {
	var zero T
	instance, ok, err := p.GetService(TypeOf[T]())
	if err != nil || !ok {
		return zero, ok, err
	}
	out, err := convert[T](instance)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

// Resolve is a generic helper around [Provider.Resolve]:
//
//	logger, err := acorn.Resolve[Logger](p)
func Resolve[T any](p *Provider) (T, error) {
	var zero T
	instance, err := p.Resolve(TypeOf[T]())
	if err != nil {
		return zero, err
	}
	return convert[T](instance)
}

func convert[T any](instance any) (T, error) {
	var zero T
	if instance == nil {
		return zero, nil
	}
	out, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("cannot convert %T to %s", instance, TypeOf[T]())
	}
	return out, nil
}
