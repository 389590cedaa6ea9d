package cli

import (
	"fmt"

	"github.com/knotara/storefront/internal/config"
	"github.com/knotara/storefront/internal/dal"
	"github.com/knotara/storefront/internal/engine"
	"github.com/knotara/storefront/internal/logger"
	"github.com/knotara/storefront/internal/service"
	"github.com/knotara/storefront/internal/storage"
)

// App wires configuration, storage, the embedded engine and the services.
// Degraded reports that the slot store was unavailable and everything runs
// on an in-memory store that will not survive the process.
type App struct {
	Config   *config.Config
	Slots    storage.Slot
	Engine   *engine.Engine
	Store    *dal.Store
	Degraded bool

	Users     *service.UserService
	Products  *service.ProductService
	Orders    *service.OrderService
	Inventory *service.InventoryService
	Analytics *service.AnalyticsService
	Wishlist  *storage.Wishlist
}

// NewApp boots the full stack: config, logger, slot store, engine, data
// access layer, services. Slot store failures degrade to memory instead of
// aborting; engine failures abort since nothing works without it.
func NewApp() (*App, error) {
	cfg := config.Load()
	logger.Init(cfg.App.Mode, cfg.Log.ToLoggerOptions())

	app := &App{Config: cfg}

	if cfg.Storage.DisablePersist {
		app.Slots = storage.NewMemStore()
	} else {
		slots, err := storage.NewFileStore(cfg.Storage.Dir)
		if err != nil {
			logger.Warnw("slot store unavailable, running degraded",
				"dir", cfg.Storage.Dir, "error", err)
			app.Slots = storage.NewMemStore()
			app.Degraded = true
		} else {
			app.Slots = slots
		}
	}

	bridge := storage.NewBridge(app.Slots, cfg.Storage.DatabaseSlot)
	eng, err := engine.Open(bridge, engine.Options{SeedDemo: cfg.Seed.Demo})
	if err != nil {
		return nil, fmt.Errorf("open engine: %w", err)
	}
	app.Engine = eng
	app.Store = dal.New(eng)

	profile := storage.NewProfileCache(app.Slots, cfg.Storage.ProfileSlot)
	app.Users = service.NewUserService(cfg.Auth, app.Store, profile)
	app.Products = service.NewProductService(app.Store)
	app.Orders = service.NewOrderService(app.Store)
	app.Inventory = service.NewInventoryService(app.Store)
	app.Analytics = service.NewAnalyticsService(app.Store, app.Slots, cfg.Storage.SessionSlot)
	app.Wishlist = storage.NewWishlist(app.Slots, cfg.Storage.WishlistSlot)

	return app, nil
}

// Close releases the engine.
func (a *App) Close() error {
	if a.Engine != nil {
		return a.Engine.Close()
	}
	return nil
}
