package acorn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// Shared test types and constructors used across test files.

// mustDefine fails the test if the constructors cannot be declared.
func mustDefine[T any](t *testing.T, r *Registry, ctors ...Constructor) {
	t.Helper()
	require.NoError(t, Define[T](r, ctors...))
}

// mustBuild fails the test if the provider cannot be built.
func mustBuild(t *testing.T, c *Collection, opts ...BuildOption) *Provider {
	t.Helper()
	p, err := c.Build(opts...)
	require.NoError(t, err)
	return p
}

// newTestCollection returns a collection whose registry knows every fixture
// type below. Nothing is registered as a service yet.
func newTestCollection(t *testing.T) *Collection {
	t.Helper()
	c := NewCollection(nil)
	r := c.Registry()

	mustDefine[*consoleLogger](t, r, Ctor(newConsoleLogger))
	mustDefine[*testConfig](t, r, Ctor(newTestConfig))
	mustDefine[*testDatabase](t, r, Ctor(newTestDatabase, "config", "logger"))
	mustDefine[*testUserService](t, r, Ctor(newTestUserService, "db", "logger"))
	mustDefine[*counter](t, r, Ctor(newCounter, "count"))
	mustDefine[*testClosable](t, r, Ctor(newTestClosable))
	mustDefine[*testCircA](t, r, Ctor(newTestCircA, "b"))
	mustDefine[*testCircB](t, r, Ctor(newTestCircB, "c"))
	mustDefine[*testCircC](t, r, Ctor(newTestCircC, "a"))
	return c
}

type testLogger interface {
	Log(msg string)
}

type consoleLogger struct {
	Prefix string
	Lines  []string
}

func (l *consoleLogger) Log(msg string) { l.Lines = append(l.Lines, l.Prefix+": "+msg) }

type testConfig struct{ DSN string }

type testDatabase struct {
	Config *testConfig
	Logger testLogger
}

type testUserService struct {
	DB     *testDatabase
	Logger testLogger
}

type counter struct{ Count int }

type testCircA struct{ B *testCircB }
type testCircB struct{ C *testCircC }
type testCircC struct{ A *testCircA }

func newConsoleLogger() *consoleLogger     { return &consoleLogger{Prefix: "app"} }
func newTestConfig() *testConfig           { return &testConfig{DSN: "postgres://localhost"} }
func newCounter(count int) *counter        { return &counter{Count: count} }
func newTestCircA(b *testCircB) *testCircA { return &testCircA{B: b} }
func newTestCircB(c *testCircC) *testCircB { return &testCircB{C: c} }
func newTestCircC(a *testCircA) *testCircC { return &testCircC{A: a} }

func newTestDatabase(cfg *testConfig, log testLogger) *testDatabase {
	return &testDatabase{Config: cfg, Logger: log}
}

func newTestUserService(db *testDatabase, log testLogger) *testUserService {
	return &testUserService{DB: db, Logger: log}
}

// testClosable is a singleton that implements io.Closer for shutdown tests.
type testClosable struct {
	Name   string
	Closed bool
	Order  *[]string // shared slice to record close order
}

func newTestClosable() *testClosable { return &testClosable{Name: "closable"} }

func (c *testClosable) Close() error {
	c.Closed = true
	if c.Order != nil {
		*c.Order = append(*c.Order, c.Name)
	}
	return nil
}

// testFailCloser implements io.Closer but returns an error.
type testFailCloser struct{ Attempts int }

func (f *testFailCloser) Close() error {
	f.Attempts++
	return errors.New("close failed")
}
