// Command userapp serves a few pages, each activated per request by acorn.
// Run it with:
//
//	go run ./cmd/userapp
package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/ARTM2000/acorn"
	"go.uber.org/zap"
)

// startup is the composition root handed to acorn.Bootstrap.
type startup struct {
	nav *Navigator
}

func (s *startup) ConfigureServices(services *acorn.Collection) error {
	reg := services.Registry()

	return errors.Join(
		acorn.Define[*Config](reg, acorn.Ctor(LoadConfig)),
		acorn.Define[*zap.Logger](reg, acorn.Ctor(NewLogger, "config")),
		acorn.Define[*memoryUsers](reg, acorn.Ctor(NewMemoryUsers)),
		acorn.Define[*HomePage](reg, acorn.Ctor(NewHomePage, "config")),
		acorn.Define[*UserPage](reg,
			acorn.Ctor(NewUserPage, "users", "logger", "id", "tab").WithDefault("tab", "profile")),

		acorn.AddSingleton[*Config, *Config](services),
		acorn.AddSingleton[*zap.Logger, *zap.Logger](services),
		acorn.AddSingleton[UserStore, *memoryUsers](services),
	)
}

func (s *startup) Configure(p *acorn.Provider) error {
	logger, err := acorn.Resolve[*zap.Logger](p)
	if err != nil {
		return err
	}

	s.nav = NewNavigator(p, logger)
	s.nav.Route("/", acorn.TypeOf[*HomePage]())
	s.nav.Route("/users/{id}", acorn.TypeOf[*UserPage]())
	return nil
}

func main() {
	// The provider logs through a logger built before the container exists.
	bootLogger, err := NewLogger(LoadConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer bootLogger.Sync()

	s := &startup{}
	p, err := acorn.Bootstrap(s, acorn.WithLogger(bootLogger.Named("acorn")), acorn.WithValidation())
	if err != nil {
		bootLogger.Fatal("bootstrap failed", zap.Error(err))
	}
	defer p.Shutdown(context.Background())

	cfg, err := acorn.Resolve[*Config](p)
	if err != nil {
		bootLogger.Fatal("config unavailable", zap.Error(err))
	}

	addr := ":" + cfg.Port
	bootLogger.Info("listening", zap.String("app", cfg.Name), zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := http.ListenAndServe(addr, s.nav); err != nil {
		bootLogger.Fatal("server error", zap.Error(err))
	}
}
