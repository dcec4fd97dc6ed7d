// Package monolith provides the application container and module interface.
package monolith

import (
	"context"
	"fmt"
	"strings"

	"github.com/fd1az/arbscan/internal/asset"
	"github.com/fd1az/arbscan/internal/config"
	"github.com/fd1az/arbscan/internal/di"
	"github.com/fd1az/arbscan/internal/logger"
)

// Global service keys
const (
	ConfigKey        = "config"
	LoggerKey        = "logger"
	AssetRegistryKey = "assetRegistry"
)

// Monolith is the main application container providing access to shared infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	AssetRegistry() *asset.Registry
	Services() di.ServiceRegistry
	OnClose(fn func() error)
}

// Module represents a bounded context module that can register services and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

// App implements the Monolith interface.
type App struct {
	config        *config.Config
	logger        logger.LoggerInterface
	assetRegistry *asset.Registry
	container     di.Container
	closers       []func() error
}

// New creates a new App with the reference data described by cfg.
func New(cfg *config.Config, log logger.LoggerInterface) (*App, error) {
	registry, err := BuildRegistry(cfg.Assets)
	if err != nil {
		return nil, err
	}

	container := di.NewContainer()
	container.Register(ConfigKey, cfg)
	container.Register(LoggerKey, log)
	container.Register(AssetRegistryKey, registry)

	return &App{
		config:        cfg,
		logger:        log,
		assetRegistry: registry,
		container:     container,
	}, nil
}

// BuildRegistry layers configured stablecoins, chains and tokens on top of
// the well-known defaults.
func BuildRegistry(cfg config.AssetsConfig) (*asset.Registry, error) {
	b := asset.NewDefaultBuilder()
	if len(cfg.Stablecoins) > 0 {
		b.SetStablecoins(cfg.Stablecoins...)
	}

	chainIDs := make(map[string]uint64)
	for _, c := range asset.DefaultChains {
		chainIDs[c.Key] = c.ID
	}
	for _, c := range cfg.Chains {
		key := asset.NormalizeChainKey(c.Key)
		b.AddChain(asset.Chain{Key: key, ID: c.ID, Name: c.Name, Native: c.Native})
		if _, known := chainIDs[key]; !known && strings.TrimSpace(c.Native) != "" {
			b.AddAsset(asset.NewAsset(asset.NewNativeAssetID(c.ID), c.Native, 18))
		}
		chainIDs[key] = c.ID
	}

	for _, t := range cfg.Tokens {
		id, ok := chainIDs[asset.NormalizeChainKey(t.Chain)]
		if !ok {
			return nil, fmt.Errorf("assets.tokens: unknown chain %q for %s", t.Chain, t.Symbol)
		}
		addr, err := asset.ParseAddress(t.Address)
		if err != nil {
			return nil, fmt.Errorf("assets.tokens: %s: %w", t.Symbol, err)
		}
		b.AddAsset(asset.MustNewToken(id, addr, t.Symbol, t.Name, t.Decimals))
	}

	return b.Build()
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Logger() logger.LoggerInterface {
	return a.logger
}

func (a *App) AssetRegistry() *asset.Registry {
	return a.assetRegistry
}

func (a *App) Services() di.ServiceRegistry {
	return a.container
}

// Container returns the DI container for module registration.
func (a *App) Container() di.Container {
	return a.container
}

// RegisterModules registers all provided modules.
func (a *App) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules.
func (a *App) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// OnClose registers a cleanup run by Close in reverse order.
func (a *App) OnClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases resources registered with OnClose.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
