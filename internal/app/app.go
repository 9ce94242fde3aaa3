// ABOUTME: Composition root wiring session store, API client, and query cache
// ABOUTME: Everything downstream receives these by reference, nothing is global

package app

import (
	"context"
	"net/http"
	"time"

	"github.com/sloobman/ControlSystem/internal/api"
	"github.com/sloobman/ControlSystem/internal/config"
	"github.com/sloobman/ControlSystem/internal/query"
	"github.com/sloobman/ControlSystem/internal/session"
)

// App bundles the client's long-lived collaborators. Exactly one App exists
// per process; commands and TUI screens receive it rather than constructing
// their own clients.
type App struct {
	Config  *config.Config
	Session *session.Store
	Client  *api.Client
	Cache   *query.Cache
}

// New builds the object graph: rehydrates the persisted session, wires the
// session store into the API client as the token source, and stacks the
// query cache on top.
func New(cfg *config.Config) *App {
	sess := session.New(cfg.ConfigDir)
	sess.Rehydrate()

	client := api.New(cfg.APIURL,
		api.WithTokenSource(sess.Token),
		api.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		}),
	)

	return &App{
		Config:  cfg,
		Session: sess,
		Client:  client,
		Cache:   query.NewCache(client),
	}
}

// Login authenticates against the backend and persists the session.
func (a *App) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	auth, err := a.Client.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := a.Session.SetAuthenticated(auth.User, auth.Token); err != nil {
		return nil, err
	}
	return auth, nil
}

// Register creates an account, then persists the returned session.
func (a *App) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	auth, err := a.Client.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := a.Session.SetAuthenticated(auth.User, auth.Token); err != nil {
		return nil, err
	}
	return auth, nil
}

// Logout clears the persisted session and drops every cached resource so a
// following login starts from a clean slate.
func (a *App) Logout() error {
	a.Cache.Reset()
	return a.Session.ClearAuthenticated()
}
