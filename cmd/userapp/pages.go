package main

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

var errNotFound = errors.New("not found")

// Page is anything the navigator can activate and render.
type Page interface {
	Render(w io.Writer) error
}

// ---------------------------------------------------------------------------
// Domain
// ---------------------------------------------------------------------------

// UserStore looks users up by id.
type UserStore interface {
	FindByID(id string) (string, bool)
}

type memoryUsers struct {
	names map[string]string
}

func NewMemoryUsers() *memoryUsers {
	return &memoryUsers{names: map[string]string{
		"1": "Alice",
		"2": "Bob",
	}}
}

func (m *memoryUsers) FindByID(id string) (string, bool) {
	name, ok := m.names[id]
	return name, ok
}

// ---------------------------------------------------------------------------
// Pages
// ---------------------------------------------------------------------------

type HomePage struct {
	cfg *Config
}

func NewHomePage(cfg *Config) *HomePage {
	return &HomePage{cfg: cfg}
}

func (p *HomePage) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Welcome to %s\n", p.cfg.Name)
	return err
}

// UserPage shows one user. id comes from the route and tab from the query
// string, falling back to "profile".
type UserPage struct {
	users  UserStore
	logger *zap.Logger
	id     string
	tab    string
}

func NewUserPage(users UserStore, logger *zap.Logger, id, tab string) *UserPage {
	return &UserPage{users: users, logger: logger, id: id, tab: tab}
}

func (p *UserPage) Render(w io.Writer) error {
	name, ok := p.users.FindByID(p.id)
	if !ok {
		return fmt.Errorf("user %q: %w", p.id, errNotFound)
	}
	p.logger.Debug("rendering user", zap.String("id", p.id), zap.String("tab", p.tab))
	_, err := fmt.Fprintf(w, "%s [%s]\n", name, p.tab)
	return err
}
