// Package app is the composition root: it builds the storefront client and
// the contract server from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/aishop/storefront/internal/core/domain"
	"github.com/aishop/storefront/internal/core/ports"
	"github.com/aishop/storefront/internal/core/service"
	"github.com/aishop/storefront/internal/infrastructure/apiclient"
	"github.com/aishop/storefront/internal/infrastructure/config"
	mongodb "github.com/aishop/storefront/internal/infrastructure/db/mongo"
	redisdb "github.com/aishop/storefront/internal/infrastructure/db/redis"
	"github.com/aishop/storefront/internal/infrastructure/navigation"
	"github.com/aishop/storefront/internal/infrastructure/queue"
	"github.com/aishop/storefront/internal/infrastructure/storage"
)

// ErrWatchUnsupported is returned by Watch for backends without change events.
var ErrWatchUnsupported = errors.New("store backend does not support watching")

// App is one client instance, the equivalent of a browser tab.
type App struct {
	Config *config.Config
	Log    zerolog.Logger

	Backend   ports.KVBackend
	Store     *storage.SafeStore
	Client    *apiclient.Client
	Navigator *navigation.Navigator
	Document  *navigation.Document

	Session  *service.SessionService
	Recent   *service.RecentlyViewedService
	Wishlist *service.WishlistService
	Theme    *service.ThemeService

	closers []func(ctx context.Context) error
}

// Option customises New.
type Option func(*options)

type options struct {
	backend    ports.KVBackend
	httpClient *http.Client
}

// WithBackend bypasses STORE_BACKEND and uses b directly.
func WithBackend(b ports.KVBackend) Option {
	return func(o *options) { o.backend = b }
}

// WithHTTPClient replaces the API transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// New wires the client object graph. Call Start before use and Close when done.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{Config: cfg, Log: log}

	backend := o.backend
	if backend == nil {
		var err error
		backend, err = a.openBackend(ctx)
		if err != nil {
			return nil, err
		}
	}
	a.Backend = backend
	a.Store = storage.NewSafeStore(backend, log)
	tokens := storage.NewTokenStore(a.Store)

	var clientOpts []apiclient.Option
	if o.httpClient != nil {
		clientOpts = append(clientOpts, apiclient.WithHTTPClient(o.httpClient))
	}
	a.Client = apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, tokens, log, clientOpts...)

	a.Navigator = navigation.New(log)
	a.Document = navigation.NewDocument(log)

	a.Session = service.NewSessionService(
		apiclient.NewAuthAPI(a.Client),
		apiclient.NewUserAPI(a.Client),
		tokens,
		a.Navigator,
		a.Client,
		log,
	)
	a.Recent = service.NewRecentlyViewedService(storage.NewRecentlyViewedStore(a.Store), log)
	a.Wishlist = service.NewWishlistService(apiclient.NewWishlistAPI(a.Client), a.Session, log)
	a.Theme = service.NewThemeService(storage.NewThemeStore(a.Store), a.Document)

	a.Store.OnReset(a.Session)
	a.Store.OnReset(a.Recent)
	a.Store.OnReset(a.Theme)

	return a, nil
}

// Start loads persisted state and validates any stored token.
func (a *App) Start(ctx context.Context) {
	a.Theme.Reload(ctx)
	a.Recent.Reload(ctx)
	a.Session.Initialize(ctx)
}

// Watch reloads the affected component whenever another process changes the
// persisted store. It blocks until ctx is done.
func (a *App) Watch(ctx context.Context) error {
	fb, ok := a.Backend.(*storage.FileBackend)
	if !ok {
		return ErrWatchUnsupported
	}
	reloaders := map[string]func(context.Context){
		domain.KeyToken:          a.Session.SyncToken,
		domain.KeyRecentlyViewed: a.Recent.Reload,
		domain.KeyDarkMode:       a.Theme.Reload,
	}

	ctx, cancel := context.WithCancel(ctx)
	d := queue.NewDispatcher(len(reloaders), a.Log)
	d.Start(ctx)
	defer d.Wait()
	defer cancel()

	err := fb.Watch(ctx, a.Log, func(key string) {
		if reload, ok := reloaders[key]; ok {
			d.Enqueue(key, reload)
		}
	})
	if err != nil {
		return err
	}
	<-ctx.Done()
	return ctx.Err()
}

// Close waits for background server logouts and releases store connections.
func (a *App) Close(ctx context.Context) error {
	a.Session.Wait()
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) openBackend(ctx context.Context) (ports.KVBackend, error) {
	cfg := a.Config
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return storage.NewMemoryBackend(), nil

	case config.BackendRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		return redisdb.NewKVStore(client, cfg.Redis.Prefix), nil

	case config.BackendMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)
		return mongodb.NewKVStore(db, cfg.Mongo.Collection), nil

	case config.BackendFile:
		return storage.NewFileBackend(afero.NewOsFs(), storage.DefaultDir(cfg.Store.Dir))

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
