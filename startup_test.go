package acorn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStartup struct {
	calls        []string
	servicesErr  error
	configureErr error
	configured   testLogger
}

func (s *recordingStartup) ConfigureServices(services *Collection) error {
	s.calls = append(s.calls, "ConfigureServices")
	if s.servicesErr != nil {
		return s.servicesErr
	}
	if err := Define[*consoleLogger](services.Registry(), Ctor(newConsoleLogger)); err != nil {
		return err
	}
	return AddSingleton[testLogger, *consoleLogger](services)
}

func (s *recordingStartup) Configure(provider *Provider) error {
	s.calls = append(s.calls, "Configure")
	if s.configureErr != nil {
		return s.configureErr
	}
	logger, err := Resolve[testLogger](provider)
	s.configured = logger
	return err
}

func TestBootstrap(t *testing.T) {
	t.Run("runs each step once in order", func(t *testing.T) {
		s := &recordingStartup{}
		p, err := Bootstrap(s)
		require.NoError(t, err)

		assert.Equal(t, []string{"ConfigureServices", "Configure"}, s.calls)

		logger, err := Resolve[testLogger](p)
		require.NoError(t, err)
		assert.Same(t, s.configured, logger, "Configure sees the returned provider")
	})

	t.Run("configure services failure stops the sequence", func(t *testing.T) {
		s := &recordingStartup{servicesErr: errors.New("bad registration")}
		_, err := Bootstrap(s)

		assert.EqualError(t, err, "configure services: bad registration")
		assert.Equal(t, []string{"ConfigureServices"}, s.calls)
	})

	t.Run("build failure", func(t *testing.T) {
		s := &brokenStartup{}
		_, err := Bootstrap(s, WithValidation())

		assert.ErrorIs(t, err, ErrNoPublicConstructor)
		assert.Contains(t, err.Error(), "build provider")
		assert.False(t, s.configured)
	})

	t.Run("configure failure", func(t *testing.T) {
		s := &recordingStartup{configureErr: errors.New("late")}
		_, err := Bootstrap(s)

		assert.EqualError(t, err, "configure: late")
	})
}

// brokenStartup registers a service whose implementation has no constructor.
type brokenStartup struct{ configured bool }

func (s *brokenStartup) ConfigureServices(services *Collection) error {
	return AddSingleton[testLogger, *consoleLogger](services)
}

func (s *brokenStartup) Configure(*Provider) error {
	s.configured = true
	return nil
}
