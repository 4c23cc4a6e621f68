package acorn

import "fmt"

// Startup is the application's composition root. [Bootstrap] calls
// ConfigureServices once, builds the provider, then calls Configure once.
type Startup interface {
	// ConfigureServices registers services and declares constructors through
	// services.Registry().
	ConfigureServices(services *Collection) error

	// Configure runs after the provider is built. It may resolve services.
	Configure(provider *Provider) error
}

// Bootstrap runs the three-step startup sequence and returns the provider to
// pass to the rest of the application. It stops at the first failing step.
func Bootstrap(s Startup, opts ...BuildOption) (*Provider, error) {
	services := NewCollection(nil)

	if err := s.ConfigureServices(services); err != nil {
		return nil, fmt.Errorf("configure services: %w", err)
	}

	provider, err := services.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("build provider: %w", err)
	}

	if err := s.Configure(provider); err != nil {
		return nil, fmt.Errorf("configure: %w", err)
	}
	return provider, nil
}
