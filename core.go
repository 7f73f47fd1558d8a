// Package core wires the seller's catalog, order, and reporting services
// into one embeddable unit. A host application constructs a Core and talks
// to its services directly; transport and presentation live elsewhere.
package core

import (
	"errors"

	appcatalog "github.com/sellerdesk/core/internal/application/catalog"
	apporders "github.com/sellerdesk/core/internal/application/orders"
	appreport "github.com/sellerdesk/core/internal/application/report"
	"github.com/sellerdesk/core/internal/domain/shared"
	"github.com/sellerdesk/core/internal/infrastructure/cache"
	"github.com/sellerdesk/core/internal/infrastructure/config"
	"github.com/sellerdesk/core/internal/infrastructure/event"
	"github.com/sellerdesk/core/internal/infrastructure/locking"
	"github.com/sellerdesk/core/internal/infrastructure/logger"
	"github.com/sellerdesk/core/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// Core bundles the application services with the infrastructure they run
// on. Create one with New and release its resources with Close.
type Core struct {
	Products *appcatalog.ProductService
	Orders   *apporders.OrderService
	Reports  *appreport.ReportService
	Bus      shared.EventBus

	db           *persistence.Database
	summaryCache cache.SummaryCache
	log          *zap.Logger
}

// New builds a Core from configuration. A nil cfg uses defaults (embedded
// sqlite, in-memory cache); a nil log builds a logger from cfg.
func New(cfg *config.Config, log *zap.Logger) (*Core, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		var err error
		log, err = logger.New(&logger.Config{
			Level:      cfg.Log.Level,
			Format:     cfg.Log.Format,
			Output:     cfg.Log.Output,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		})
		if err != nil {
			return nil, err
		}
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	summaryCache, err := cache.NewSummaryCache(cfg, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	productLocks := locking.NewKeyedMutex(cfg.Locking.AcquireTimeout)
	orderLocks := locking.NewKeyedMutex(cfg.Locking.AcquireTimeout)
	bus := event.NewInMemoryEventBus(log)

	products := appcatalog.NewProductService(productRepo, orderRepo, productLocks)
	products.SetEventPublisher(bus)

	orders := apporders.NewOrderService(orderRepo, productRepo, productLocks, orderLocks, log)
	orders.SetEventPublisher(bus)

	reports := appreport.NewReportService(orderRepo, productRepo, summaryCache, cfg.Cache.TTL, log)

	bus.Subscribe(appreport.NewOrderActivityHandler(reports))
	bus.Subscribe(appcatalog.NewLowStockHandler(log))

	log.Info("core initialized",
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	return &Core{
		Products:     products,
		Orders:       orders,
		Reports:      reports,
		Bus:          bus,
		db:           db,
		summaryCache: summaryCache,
		log:          log,
	}, nil
}

// Ping checks the backing database connection
func (c *Core) Ping() error {
	return c.db.Ping()
}

// Close releases the database and cache resources
func (c *Core) Close() error {
	var errs []error
	if err := c.summaryCache.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := c.db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
