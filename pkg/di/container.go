package di

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/getfitter/go-service-core/cache"
	"github.com/getfitter/go-service-core/equipment"
	"github.com/getfitter/go-service-core/internal/config"
	"github.com/getfitter/go-service-core/internal/logging"
	"github.com/getfitter/go-service-core/internal/storage"
	"github.com/getfitter/go-service-core/refdata"
)

// Container wires the service core. It owns the database handle, both cache
// backends and one service per reference table; getters always return the
// same instances.
type Container struct {
	config config.Config
	logger *zap.Logger

	db  *bun.DB
	uow *storage.UnitOfWork

	eternal cache.Backend
	timed   cache.Backend

	reference     map[string]*refdata.Service
	equipmentData *equipment.DataService
	equipment     *equipment.Service
}

// NewContainer validates cfg, opens the database, creates the schema and,
// when cfg.Database.Seed is set, seeds an empty reference table. A nil logger
// is built from cfg.Log.
func NewContainer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logger == nil {
		var err error
		if logger, err = logging.New(cfg.Log); err != nil {
			return nil, err
		}
	}

	timed, err := cache.NewTimedBackend(cfg.Cache.Timed)
	if err != nil {
		return nil, fmt.Errorf("timed cache: %w", err)
	}

	db, err := storage.Open(cfg.Database, logger.Named("storage"))
	if err != nil {
		return nil, err
	}

	c := &Container{
		config:    cfg,
		logger:    logger,
		db:        db,
		uow:       storage.NewUnitOfWork(db),
		eternal:   cache.NewEternalBackend(),
		timed:     timed,
		reference: make(map[string]*refdata.Service),
	}

	if err := c.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	for _, group := range refdata.Groups() {
		c.reference[group.Name] = refdata.NewService(group, refdata.NewDataService(c.uow, group), c.eternal, logger)
	}
	c.equipmentData = equipment.NewDataService(c.uow)
	c.equipment = equipment.NewService(c.equipmentData, c.timed, logger)

	return c, nil
}

// NewContainerWithDefaults creates a container from the built-in defaults: an
// in-memory SQLite database seeded with the shipped reference rows.
func NewContainerWithDefaults(ctx context.Context) (*Container, error) {
	return NewContainer(ctx, config.Default(), nil)
}

func (c *Container) migrate(ctx context.Context) error {
	models := append(refdata.Models(), equipment.Models()...)
	if err := storage.CreateTables(ctx, c.db, models...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	if !c.config.Database.Seed {
		return nil
	}

	rows, err := refdata.DefaultSeed()
	if err != nil {
		return err
	}
	inserted, err := refdata.SeedIfEmpty(ctx, c.uow, rows)
	if err != nil {
		return fmt.Errorf("seed reference data: %w", err)
	}
	if inserted {
		c.logger.Info("seeded reference data", zap.Int("rows", len(rows)))
	}
	return nil
}

// Config returns a copy of the configuration the container was built with.
func (c *Container) Config() config.Config {
	return c.config
}

func (c *Container) Logger() *zap.Logger {
	return c.logger
}

func (c *Container) UnitOfWork() *storage.UnitOfWork {
	return c.uow
}

// EternalCache backs the pure reference services.
func (c *Container) EternalCache() cache.Backend {
	return c.eternal
}

// TimedCache backs the Equipment service.
func (c *Container) TimedCache() cache.Backend {
	return c.timed
}

// Reference returns the service for group. It panics for a group that is not
// registered in refdata.Groups, which is a programming error.
func (c *Container) Reference(group refdata.Group) *refdata.Service {
	svc, ok := c.reference[group.Name]
	if !ok {
		panic(fmt.Sprintf("di: unknown reference group %q", group.Name))
	}
	return svc
}

func (c *Container) Equipment() *equipment.Service {
	return c.equipment
}

// EquipmentData exposes the Equipment data service for collaborators that
// record exercise links.
func (c *Container) EquipmentData() *equipment.DataService {
	return c.equipmentData
}

// Close flushes the logger and closes the database.
func (c *Container) Close() error {
	_ = c.logger.Sync()
	return c.db.Close()
}
