package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/ARTM2000/acorn"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Navigator maps routes to page types and activates a fresh page for every
// request. Route parameters and the first value of each query parameter are
// passed to the page's constructor as raw overrides; route parameters win.
// Query parameters named after a constructor parameter that a registered
// service fills are dropped, so clients cannot replace injected services.
type Navigator struct {
	provider *acorn.Provider
	logger   *zap.Logger
	mux      chi.Router
}

func NewNavigator(p *acorn.Provider, logger *zap.Logger) *Navigator {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	return &Navigator{provider: p, logger: logger, mux: r}
}

// Route shows page for GET requests matching pattern.
func (n *Navigator) Route(pattern string, page reflect.Type) {
	n.mux.Get(pattern, n.show(page, n.serviceParams(page)))
}

// serviceParams returns the lower-cased names of page's constructor
// parameters that a registered service fills.
func (n *Navigator) serviceParams(page reflect.Type) map[string]bool {
	names := make(map[string]bool)
	for _, ctor := range n.provider.Registry().Constructors(page) {
		for _, param := range ctor.Params() {
			if n.provider.Contains(param.Type) {
				names[strings.ToLower(param.Name)] = true
			}
		}
	}
	return names
}

func (n *Navigator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.mux.ServeHTTP(w, r)
}

func (n *Navigator) show(page reflect.Type, services map[string]bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values := make(map[string]any)
		for key, vs := range r.URL.Query() {
			if len(vs) > 0 && !services[strings.ToLower(key)] {
				values[key] = vs[0]
			}
		}
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				values[key] = rctx.URLParams.Values[i]
			}
		}

		instance, err := acorn.CreateInstance(n.provider, page, acorn.FromMap(values))
		if err != nil {
			n.fail(w, r, err)
			return
		}
		p, ok := instance.(Page)
		if !ok {
			n.fail(w, r, fmt.Errorf("%s is not a page", page))
			return
		}

		var buf bytes.Buffer
		if err := p.Render(&buf); err != nil {
			n.fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	}
}

// fail reports err and maps it to a status code.
func (n *Navigator) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errNotFound):
		status = http.StatusNotFound
	case errors.Is(err, acorn.ErrNoSuitableArgument), errors.Is(err, acorn.ErrTypeMismatch):
		status = http.StatusBadRequest
	}

	n.logger.Warn("page failed",
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err))
	http.Error(w, http.StatusText(status), status)
}
