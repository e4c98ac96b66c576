// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"needles/cli/internal/auth"
	"needles/cli/internal/backend"
	"needles/cli/internal/boutique"
	"needles/cli/internal/config"
	apperrors "needles/cli/internal/errors"
	"needles/cli/internal/httperrors"
	"needles/cli/internal/keychain"
	"needles/cli/internal/logging"
	"needles/cli/internal/nav"
	"needles/cli/internal/session"
	"needles/cli/internal/store"
	"needles/cli/internal/store/pgstore"
	"needles/cli/internal/xdg"
)

// app is everything a command needs, wired once per invocation.
type app struct {
	cfg      config.Config
	log      zerolog.Logger
	store    store.Store
	state    *session.State
	api      *backend.Client
	router   *nav.Router
	auth     *auth.Service
	boutique *boutique.Service

	closers []func()
}

// newApp loads configuration and builds the session pipeline for a command
// living at route. A 401 anywhere sends the router back to the entry route,
// which tells the user to sign in again. An empty route means the entry route
// itself, for commands that run while signed out.
func newApp(cmd *cobra.Command, route string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &app{cfg: cfg}
	a.log = logging.New(os.Stderr, cfg.LogLevel)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a.store = a.openStore(ctx)

	a.state = session.New(a.store, session.WithLogger(a.log))
	a.api = backend.New(backend.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout(),
		State:   a.state,
		Store:   a.store,
		Logger:  a.log,
	})
	a.router = nav.NewRouter(cfg.EntryRoute, func(from, to string) {
		a.log.Debug().Str("from", from).Str("to", to).Msg("navigate")
		if to == cfg.EntryRoute {
			pterm.Warning.Println("Your session has expired. Run `needles login` to sign in again.")
		}
	})
	if route == "" {
		route = cfg.EntryRoute
	}
	a.router.Visit(route)
	a.api.OnSessionInvalidated(a.router.OnSessionInvalidated)

	a.auth = auth.NewService(a.api, a.state, a.store, a.log)
	a.boutique = boutique.NewService(a.api, a.auth, a.log)
	return a, nil
}

// openStore opens the configured store. Any failure degrades to an
// in-memory store so the command still runs, without persistence.
func (a *app) openStore(ctx context.Context) store.Store {
	st, err := a.openBackendStore(ctx)
	if err != nil {
		a.log.Warn().Err(apperrors.Wrap(apperrors.StorageUnavailable, "session will not persist", err)).
			Str("store", a.cfg.Store.Backend).
			Msg("falling back to in-memory store")
		return store.NewMemory()
	}
	return st
}

func (a *app) openBackendStore(ctx context.Context) (store.Store, error) {
	switch a.cfg.Store.Backend {
	case "memory":
		return store.NewMemory(), nil
	case "keyring", "file":
		dir, err := xdg.StateDir()
		if err != nil {
			return nil, err
		}
		km, err := keychain.Open(keychain.Options{
			Backend:      keychain.Backend(a.cfg.Store.Backend),
			FileDir:      dir,
			FilePassword: os.Getenv(config.EnvKeyringPassword),
		})
		if err != nil {
			return nil, err
		}
		return km, nil
	case "postgres":
		if a.cfg.Store.DSN == "" {
			return nil, fmt.Errorf("store dsn is empty; set %s", config.EnvStoreDSN)
		}
		pg, err := pgstore.Open(ctx, a.cfg.Store.DSN, a.cfg.Store.Namespace)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pg.Close)
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", a.cfg.Store.Backend)
	}
}

// Close releases store connections.
func (a *app) Close() {
	for _, c := range a.closers {
		c()
	}
}

// host is the backend host name for error messages.
func (a *app) host() string {
	return httperrors.ExtractHostFromURL(a.cfg.BaseURL)
}
