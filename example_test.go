package acorn_test

import (
	"errors"
	"fmt"

	"github.com/ARTM2000/acorn"
)

// Types used in examples only.
type Logger interface {
	Log(msg string)
}

type ConsoleLogger struct{ Prefix string }

func (l *ConsoleLogger) Log(msg string) { fmt.Println(l.Prefix + msg) }

func NewConsoleLogger() *ConsoleLogger { return &ConsoleLogger{Prefix: "> "} }

type Service struct {
	Logger Logger
	Limit  int
}

func NewService(logger Logger, limit int) *Service {
	return &Service{Logger: logger, Limit: limit}
}

func newServices() *acorn.Collection {
	services := acorn.NewCollection(nil)
	reg := services.Registry()
	_ = acorn.Define[*ConsoleLogger](reg, acorn.Ctor(NewConsoleLogger))
	_ = acorn.Define[*Service](reg, acorn.Ctor(NewService, "logger", "limit").WithDefault("limit", 10))
	return services
}

func ExampleCreateInstance() {
	services := newServices()
	_ = acorn.AddSingleton[Logger, *ConsoleLogger](services)
	p, _ := services.Build()

	svc, err := acorn.Create[*Service](p, nil)
	if err != nil {
		panic(err)
	}
	svc.Logger.Log("ready")
	fmt.Println(svc.Limit)
	// Output:
	// > ready
	// 10
}

func ExampleWith() {
	services := newServices()
	_ = acorn.AddSingleton[Logger, *ConsoleLogger](services)
	p, _ := services.Build()

	svc, _ := acorn.Create[*Service](p, acorn.With(acorn.Raw("Limit", 3)))
	fmt.Println(svc.Limit)

	_, err := acorn.Create[*Service](p, acorn.With(acorn.Typed("limit", "3")))
	fmt.Println(errors.Is(err, acorn.ErrTypeMismatch))
	// Output:
	// 3
	// true
}

func ExampleCollection_Build() {
	services := newServices()
	_ = acorn.AddSingleton[Logger, *ConsoleLogger](services)

	p1, _ := services.Build()
	p2, _ := services.Build()

	a, _ := acorn.Resolve[Logger](p1)
	b, _ := acorn.Resolve[Logger](p1)
	c, _ := acorn.Resolve[Logger](p2)
	fmt.Println(a == b, a == c)
	// Output: true false
}

func ExampleProvider_GetService() {
	p, _ := newServices().Build()

	_, ok, err := acorn.GetService[Logger](p)
	fmt.Println(ok, err)

	_, err = acorn.Resolve[Logger](p)
	fmt.Println(errors.Is(err, acorn.ErrServiceNotRegistered))
	// Output:
	// false <nil>
	// true
}
