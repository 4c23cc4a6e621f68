// Package acorn provides a small service-activation container: it registers
// service contracts, snapshots them into immutable providers, and constructs
// objects by resolving each constructor argument from caller overrides,
// registered services, or declared defaults.
//
// Go cannot see parameter names through reflection, so every activatable
// type declares its constructors explicitly in a [Registry], usually with
// [Ctor]:
//
//	services := acorn.NewCollection(nil)
//	reg := services.Registry()
//	acorn.Define[*ConsoleLogger](reg, acorn.Ctor(NewConsoleLogger))
//	acorn.Define[*Service](reg, acorn.Ctor(NewService, "logger"))
//
//	acorn.AddSingleton[Logger, *ConsoleLogger](services)
//
//	p, _ := services.Build()
//	svc, err := acorn.Create[*Service](p, nil)
//
// # Lifetimes
//
// [Singleton] descriptors are activated on first resolution and cached for the
// life of the provider that owns them. [Transient] descriptors are activated
// on every resolution. Building a collection again always yields a provider
// with empty caches.
//
// # Constructor selection
//
// A type with one constructor uses it. A type with several uses the one with
// no parameters, or fails with [ErrAmbiguousConstructor].
//
// # Argument resolution
//
// Each parameter is resolved on its own, in this order:
//
//  1. a [Typed] override with the same name, ignoring case; its declared type
//     must be assignable to the parameter or activation fails with
//     [ErrTypeMismatch]
//  2. a [Raw] override with the same name, ignoring case
//  3. the service registered for the parameter's type
//  4. the parameter's default, declared with [Constructor.WithDefault]
//
// When none apply, activation fails with [ErrNoSuitableArgument].
package acorn
