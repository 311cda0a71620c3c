package refdata

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getfitter/go-service-core/cache"
	"github.com/getfitter/go-service-core/internal/storage"
	"github.com/getfitter/go-service-core/pkg/testsupport"
	"github.com/getfitter/go-service-core/refdata/refid"
	"github.com/getfitter/go-service-core/result"
	"github.com/getfitter/go-service-core/serviceerr"
)

const (
	beginnerID = "difficultylevel-8a8adb1d-24d2-4979-a5a6-c9b2d6f6d2a1"
	legacyID   = "difficultylevel-5d2c1b0a-9e8f-4a7b-8c6d-5e4f3a2b1c0d"
	chestID    = "bodypart-7c5d8e1f-3a4b-4c6d-9e0f-1a2b3c4d5e6f"
	backID     = "bodypart-0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"
)

func seededUnitOfWork(t *testing.T) *storage.UnitOfWork {
	t.Helper()

	var rows []SeedRow
	testsupport.LoadFixtureJSON(t, testsupport.FixturePath("reference_data.json"), &rows)

	uow := testsupport.NewUnitOfWork(t)
	require.NoError(t, Seed(context.Background(), uow, rows))
	return uow
}

// countingStore wraps a Store and counts calls per operation.
type countingStore struct {
	Store
	byID    atomic.Int32
	byValue atomic.Int32
	all     atomic.Int32
}

func (c *countingStore) GetByID(ctx context.Context, id refid.ID) result.Result[ReferenceData] {
	c.byID.Add(1)
	return c.Store.GetByID(ctx, id)
}

func (c *countingStore) GetByValue(ctx context.Context, value string) result.Result[ReferenceData] {
	c.byValue.Add(1)
	return c.Store.GetByValue(ctx, value)
}

func (c *countingStore) GetAllActive(ctx context.Context) result.Result[[]ReferenceData] {
	c.all.Add(1)
	return c.Store.GetAllActive(ctx)
}

func newTestService(t *testing.T, group Group) (*Service, *countingStore) {
	t.Helper()
	store := &countingStore{Store: NewDataService(seededUnitOfWork(t), group)}
	return NewService(group, store, cache.NewEternalBackend(), nil), store
}

func mustParse(t *testing.T, group Group, s string) refid.ID {
	t.Helper()
	id, err := group.ParseID(s)
	require.NoError(t, err)
	return id
}

func TestDataService_GetByID(t *testing.T) {
	data := NewDataService(seededUnitOfWork(t), DifficultyLevel)
	ctx := context.Background()

	r := data.GetByID(ctx, mustParse(t, DifficultyLevel, beginnerID))
	require.True(t, r.IsSuccess())
	assert.Equal(t, "Beginner", r.Value().Value)

	t.Run("inactive row is empty", func(t *testing.T) {
		r := data.GetByID(ctx, mustParse(t, DifficultyLevel, legacyID))
		assert.True(t, r.IsEmptySuccess())
	})

	t.Run("unknown id is empty", func(t *testing.T) {
		r := data.GetByID(ctx, DifficultyLevel.NewID())
		assert.True(t, r.IsEmptySuccess())
	})

	t.Run("other group is empty", func(t *testing.T) {
		r := NewDataService(seededUnitOfWork(t), BodyPart).GetByID(ctx, mustParse(t, DifficultyLevel, beginnerID))
		assert.True(t, r.IsEmptySuccess())
	})
}

func TestDataService_GetByValue_CaseInsensitive(t *testing.T) {
	data := NewDataService(seededUnitOfWork(t), DifficultyLevel)

	for _, v := range []string{"beginner", "BEGINNER", "Beginner"} {
		r := data.GetByValue(context.Background(), v)
		require.True(t, r.IsSuccess(), v)
		assert.Equal(t, beginnerID, r.Value().ID, v)
	}
}

func TestDataService_GetAllActive_OrderedGolden(t *testing.T) {
	data := NewDataService(seededUnitOfWork(t), BodyPart)

	r := data.GetAllActive(context.Background())
	require.True(t, r.IsSuccess())
	testsupport.CompareJSONWithGolden(t, testsupport.GoldenPath("body_parts.json"), r.Value())
}

func TestDataService_ExistsAndAllExist(t *testing.T) {
	data := NewDataService(seededUnitOfWork(t), BodyPart)
	ctx := context.Background()
	chest := mustParse(t, BodyPart, chestID)
	back := mustParse(t, BodyPart, backID)

	assert.True(t, data.Exists(ctx, chest).Value())
	assert.False(t, data.Exists(ctx, BodyPart.NewID()).Value())

	assert.True(t, data.AllExist(ctx, []refid.ID{chest, back, chest}).Value())
	assert.False(t, data.AllExist(ctx, []refid.ID{chest, BodyPart.NewID()}).Value())
	assert.True(t, data.AllExist(ctx, nil).Value())
}

func TestDataService_StorageFailureIsDependencyFailure(t *testing.T) {
	uow := testsupport.NewUnitOfWork(t)
	data := NewDataService(uow, BodyPart)

	r := data.GetAllActive(context.Background())
	require.True(t, r.IsFailure())
	assert.Equal(t, serviceerr.CodeDependencyFailure, r.FirstError().Code)
}

func TestService_GetByID_CachesAfterFirstLoad(t *testing.T) {
	svc, store := newTestService(t, DifficultyLevel)
	ctx := context.Background()
	id := mustParse(t, DifficultyLevel, beginnerID)

	first := svc.GetByID(ctx, id)
	second := svc.GetByID(ctx, id)

	require.True(t, first.IsSuccess())
	assert.Equal(t, first.Value(), second.Value())
	assert.Equal(t, int32(1), store.byID.Load())
}

func TestService_GetByID_NotFoundIsNeverCached(t *testing.T) {
	svc, store := newTestService(t, DifficultyLevel)
	ctx := context.Background()
	id := DifficultyLevel.NewID()

	for i := 0; i < 2; i++ {
		r := svc.GetByID(ctx, id)
		require.True(t, r.IsFailure())
		err := r.FirstError()
		assert.Equal(t, serviceerr.CodeNotFound, err.Code)
		assert.Equal(t, "DifficultyLevel not found", err.Message)
		assert.Equal(t, id.String(), err.Details["id"])
	}
	assert.Equal(t, int32(2), store.byID.Load())
}

func TestService_GetByID_Validation(t *testing.T) {
	svc, store := newTestService(t, DifficultyLevel)
	ctx := context.Background()

	r := svc.GetByID(ctx, refid.ID{})
	assert.Equal(t, []serviceerr.Code{serviceerr.CodeValidationRequired}, codesOf(r))

	r = svc.GetByID(ctx, BodyPart.NewID())
	assert.Equal(t, []serviceerr.Code{serviceerr.CodeValidationInvalid}, codesOf(r))

	assert.Zero(t, store.byID.Load(), "validation failures must not reach the data layer")
}

func TestService_GetByIDString(t *testing.T) {
	svc, _ := newTestService(t, DifficultyLevel)
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
		want serviceerr.Code
	}{
		{"blank", "  ", serviceerr.CodeValidationRequired},
		{"wrong prefix", chestID, serviceerr.CodeValidationInvalid},
		{"not a uuid", "difficultylevel-123", serviceerr.CodeValidationInvalid},
		{"well formed but missing", DifficultyLevel.NewID().String(), serviceerr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := svc.GetByIDString(ctx, tt.raw)
			require.True(t, r.IsFailure())
			assert.Equal(t, []serviceerr.Code{tt.want}, codesOf(r))
		})
	}

	r := svc.GetByIDString(ctx, beginnerID)
	require.True(t, r.IsSuccess())
	assert.Equal(t, "Beginner", r.Value().Value)
}

func TestService_GetByValue(t *testing.T) {
	svc, store := newTestService(t, DifficultyLevel)
	ctx := context.Background()

	a := svc.GetByValue(ctx, "Beginner")
	b := svc.GetByValue(ctx, "BEGINNER")
	require.True(t, a.IsSuccess())
	assert.Equal(t, a.Value(), b.Value())
	assert.Equal(t, int32(1), store.byValue.Load(), "case variants share one cache entry")

	r := svc.GetByValue(ctx, " ")
	assert.Equal(t, []serviceerr.Code{serviceerr.CodeValidationRequired}, codesOf(r))

	r = svc.GetByValue(ctx, "Expert")
	assert.Equal(t, []serviceerr.Code{serviceerr.CodeNotFound}, codesOf(r))
}

func TestService_GetAllActive(t *testing.T) {
	svc, store := newTestService(t, DifficultyLevel)
	ctx := context.Background()

	r := svc.GetAllActive(ctx)
	require.True(t, r.IsSuccess())
	assert.Len(t, r.Value(), 3)

	_ = svc.GetAllActive(ctx)
	assert.Equal(t, int32(1), store.all.Load())

	require.NoError(t, svc.Invalidate(ctx))
	_ = svc.GetAllActive(ctx)
	assert.Equal(t, int32(2), store.all.Load())
}

func TestService_GetAllActive_MutatingResultLeavesCacheIntact(t *testing.T) {
	svc, store := newTestService(t, DifficultyLevel)
	ctx := context.Background()

	first := svc.GetAllActive(ctx)
	require.True(t, first.IsSuccess())
	want := append([]ReferenceData(nil), first.Value()...)
	first.Value()[0].Value = "Changed"

	hit := svc.GetAllActive(ctx)
	require.Equal(t, want, hit.Value())
	hit.Value()[0] = ReferenceData{}

	assert.Equal(t, want, svc.GetAllActive(ctx).Value())
	assert.Equal(t, int32(1), store.all.Load())
}

func TestService_GetAllActive_EmptyGroupIsSuccess(t *testing.T) {
	svc, store := newTestService(t, MetricType)
	ctx := context.Background()

	r := svc.GetAllActive(ctx)
	require.True(t, r.IsSuccess())
	assert.Empty(t, r.Value())

	_ = svc.GetAllActive(ctx)
	assert.Equal(t, int32(2), store.all.Load(), "empty lists are not cached")
}

func TestService_Exists(t *testing.T) {
	svc, store := newTestService(t, BodyPart)
	ctx := context.Background()

	assert.True(t, svc.Exists(ctx, mustParse(t, BodyPart, chestID)).Value())
	assert.True(t, svc.Exists(ctx, mustParse(t, BodyPart, chestID)).Value())
	assert.Equal(t, int32(1), store.byID.Load(), "exists reuses the GetByID cache")

	r := svc.Exists(ctx, BodyPart.NewID())
	require.True(t, r.IsSuccess())
	assert.False(t, r.Value())

	r = svc.Exists(ctx, refid.ID{})
	assert.True(t, r.HasCode(serviceerr.CodeValidationRequired))
}

func TestService_AllExist(t *testing.T) {
	svc, _ := newTestService(t, BodyPart)
	ctx := context.Background()

	assert.True(t, svc.AllExist(ctx, []string{chestID, backID}).Value())
	assert.False(t, svc.AllExist(ctx, []string{chestID, "bodypart-nope"}).Value())
}

func TestDefaultSeed(t *testing.T) {
	rows, err := DefaultSeed()
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, r := range rows {
		_, ok := GroupByName(r.Group)
		assert.True(t, ok, "unknown group %q", r.Group)
		seen[r.Group] = true
	}
	for _, g := range Groups() {
		assert.True(t, seen[g.Name], "group %s has no seed rows", g.Name)
	}

	uow := testsupport.NewUnitOfWork(t)
	require.NoError(t, Seed(context.Background(), uow, rows))
}

func TestSeed_RejectsUnknownGroup(t *testing.T) {
	uow := testsupport.NewUnitOfWork(t)
	err := Seed(context.Background(), uow, []SeedRow{{Group: "Planet", Value: "Mars"}})
	assert.ErrorContains(t, err, "unknown reference group")
}

func codesOf[T any](r result.Result[T]) []serviceerr.Code {
	var out []serviceerr.Code
	for _, err := range r.Errors() {
		out = append(out, err.Code)
	}
	return out
}

func TestSeedIfEmpty(t *testing.T) {
	uow := testsupport.NewUnitOfWork(t)
	ctx := context.Background()
	rows := []SeedRow{{Group: BodyPart.Name, Value: "Shoulders", DisplayOrder: 1}}

	inserted, err := SeedIfEmpty(ctx, uow, rows)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = SeedIfEmpty(ctx, uow, rows)
	require.NoError(t, err)
	assert.False(t, inserted, "a populated table is left alone")

	r := NewDataService(uow, BodyPart).GetAllActive(ctx)
	require.True(t, r.IsSuccess())
	assert.Len(t, r.Value(), 1)
}
