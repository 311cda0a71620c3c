package di

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/getfitter/go-service-core/cache"
	"github.com/getfitter/go-service-core/internal/config"
	"github.com/getfitter/go-service-core/pkg/testsupport"
	"github.com/getfitter/go-service-core/refdata"
)

func newBenchContainer(b *testing.B) *Container {
	b.Helper()

	cfg := config.Default()
	cfg.Database = testsupport.SQLiteConfig(b)
	cfg.Database.Seed = true

	container, err := NewContainer(context.Background(), cfg, zap.NewNop())
	if err != nil {
		b.Fatalf("NewContainer() failed: %v", err)
	}
	b.Cleanup(func() { _ = container.Close() })
	return container
}

func firstBodyPart(b *testing.B, svc *refdata.Service) refdata.ReferenceData {
	b.Helper()
	r := svc.GetAllActive(context.Background())
	if !r.IsSuccess() || len(r.Value()) == 0 {
		b.Fatalf("expected seeded body parts: %v", r.Err())
	}
	return r.Value()[0]
}

// BenchmarkReferenceGetByID_Cached measures a warm eternal-cache hit.
func BenchmarkReferenceGetByID_Cached(b *testing.B) {
	container := newBenchContainer(b)
	svc := container.Reference(refdata.BodyPart)
	row := firstBodyPart(b, svc)
	id, _ := refdata.BodyPart.ParseID(row.ID)
	ctx := context.Background()

	_ = svc.GetByID(ctx, id)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if r := svc.GetByID(ctx, id); !r.IsSuccess() {
			b.Fatal(r.Err())
		}
	}
}

// BenchmarkReferenceGetByID_Uncached measures the load path by invalidating
// before every read.
func BenchmarkReferenceGetByID_Uncached(b *testing.B) {
	container := newBenchContainer(b)
	svc := container.Reference(refdata.BodyPart)
	row := firstBodyPart(b, svc)
	id, _ := refdata.BodyPart.ParseID(row.ID)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = svc.Invalidate(ctx)
		if r := svc.GetByID(ctx, id); !r.IsSuccess() {
			b.Fatal(r.Err())
		}
	}
}

// BenchmarkReferenceGetByID_Parallel measures cached reads under contention.
func BenchmarkReferenceGetByID_Parallel(b *testing.B) {
	container := newBenchContainer(b)
	svc := container.Reference(refdata.BodyPart)
	row := firstBodyPart(b, svc)
	id, _ := refdata.BodyPart.ParseID(row.ID)
	ctx := context.Background()

	_ = svc.GetByID(ctx, id)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = svc.GetByID(ctx, id)
		}
	})
}

// BenchmarkCacheKeys measures key generation for value lookups.
func BenchmarkCacheKeys(b *testing.B) {
	keys := cache.NewKeys(cache.DefaultNamespace, refdata.DifficultyLevel.Name)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = keys.ByValue("Intermediate")
	}
}
