package di

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/getfitter/go-service-core/cache"
	"github.com/getfitter/go-service-core/equipment"
	"github.com/getfitter/go-service-core/internal/config"
	"github.com/getfitter/go-service-core/pkg/testsupport"
	"github.com/getfitter/go-service-core/refdata"
)

func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.Database = testsupport.SQLiteConfig(t)
	cfg.Database.Seed = true
	return cfg
}

func newTestContainer(t *testing.T, cfg config.Config) *Container {
	t.Helper()

	container, err := NewContainer(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })
	return container
}

func TestNewContainer(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Timed.TTL = time.Minute

	container := newTestContainer(t, cfg)

	if container.EternalCache() == nil {
		t.Error("Container should have a non-nil eternal cache")
	}
	if container.TimedCache() == nil {
		t.Error("Container should have a non-nil timed cache")
	}
	if container.UnitOfWork() == nil {
		t.Error("Container should have a non-nil unit of work")
	}
	if container.Equipment() == nil {
		t.Error("Container should have a non-nil equipment service")
	}

	stored := container.Config()
	if stored.Cache.Timed.TTL != time.Minute {
		t.Errorf("Expected TTL %v, got %v", time.Minute, stored.Cache.Timed.TTL)
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Timed.Capacity = 0

	if _, err := NewContainer(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Error("NewContainer() should fail with invalid cache config")
	}

	cfg = testConfig(t)
	cfg.Database.Driver = "oracle"
	if _, err := NewContainer(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Error("NewContainer() should fail with an unsupported driver")
	}
}

func TestNewContainerWithDefaults(t *testing.T) {
	container, err := NewContainerWithDefaults(context.Background())
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}
	defer container.Close()

	defaults := cache.DefaultConfig()
	if got := container.Config().Cache.Timed; got.Capacity != defaults.Capacity || got.TTL != defaults.TTL {
		t.Errorf("Expected default timed cache config %+v, got %+v", defaults, got)
	}
}

func TestContainerSingletonBehavior(t *testing.T) {
	container := newTestContainer(t, testConfig(t))

	if container.Reference(refdata.BodyPart) != container.Reference(refdata.BodyPart) {
		t.Error("Reference() should return the same instance (singleton behavior)")
	}
	if container.Equipment() != container.Equipment() {
		t.Error("Equipment() should return the same instance (singleton behavior)")
	}
}

func TestContainer_ReferenceGroupsAreSeeded(t *testing.T) {
	container := newTestContainer(t, testConfig(t))
	ctx := context.Background()

	for _, group := range refdata.Groups() {
		t.Run(group.Name, func(t *testing.T) {
			r := container.Reference(group).GetAllActive(ctx)
			if !r.IsSuccess() {
				t.Fatalf("GetAllActive failed: %v", r.Err())
			}
			if len(r.Value()) == 0 {
				t.Errorf("expected seeded rows for %s", group.Name)
			}
		})
	}
}

func TestContainer_SeedDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Seed = false
	container := newTestContainer(t, cfg)

	r := container.Reference(refdata.DifficultyLevel).GetAllActive(context.Background())
	if !r.IsSuccess() {
		t.Fatalf("GetAllActive failed: %v", r.Err())
	}
	if len(r.Value()) != 0 {
		t.Errorf("expected no rows without seeding, got %d", len(r.Value()))
	}
}

func TestContainer_ReferenceUnknownGroupPanics(t *testing.T) {
	container := newTestContainer(t, testConfig(t))

	defer func() {
		if recover() == nil {
			t.Error("Reference() should panic for an unregistered group")
		}
	}()
	container.Reference(refdata.Group{Name: "Planet", Prefix: "planet"})
}

func TestContainer_EquipmentRoundTrip(t *testing.T) {
	container := newTestContainer(t, testConfig(t))
	ctx := context.Background()
	svc := container.Equipment()

	created := svc.Create(ctx, equipment.CreateCommand{Name: "Barbell"})
	if !created.IsSuccess() {
		t.Fatalf("Create failed: %v", created.Err())
	}

	got := svc.GetByIDString(ctx, created.Value().ID)
	if !got.IsSuccess() || got.Value().Name != "Barbell" {
		t.Errorf("GetByIDString returned %+v, %v", got.Value(), got.Err())
	}
}
