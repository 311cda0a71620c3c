package equipment

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/getfitter/go-service-core/cache"
	"github.com/getfitter/go-service-core/cacheload"
	"github.com/getfitter/go-service-core/refdata/refid"
	"github.com/getfitter/go-service-core/result"
	"github.com/getfitter/go-service-core/serviceerr"
	"github.com/getfitter/go-service-core/validate"
)

var (
	msgIDEmpty     = EntityName + " ID cannot be empty"
	msgIDFormat    = fmt.Sprintf("Invalid %s ID format. Expected '%s-{guid}'", EntityName, IDPrefix)
	msgNameEmpty   = EntityName + " name cannot be empty"
	msgNameTooLong = fmt.Sprintf("%s name cannot exceed %d characters", EntityName, MaxNameLength)
	msgInUse       = "Cannot delete " + EntityName + " that is in use by exercises"
)

// Service is the Equipment business layer. Reads are cached in a timed
// backend; successful writes drop every cached Equipment entry.
type Service struct {
	store   Store
	backend cache.Backend
	keys    cache.Keys
	logger  *zap.Logger
}

// NewService wires an Equipment service. backend should be a timed backend.
func NewService(store Store, backend cache.Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		backend: backend,
		keys:    cache.NewKeys(cache.DefaultNamespace, EntityName),
		logger:  logger.With(zap.String("entity", EntityName)),
	}
}

// GetAll returns the active equipment ordered by name.
func (s *Service) GetAll(ctx context.Context) result.Result[[]Equipment] {
	return cacheload.For[[]Equipment](s.backend, s.keys.All()).
		WithLogging(s.logger, s.keys.Group()).
		WithAutoCache(ctx, s.store.GetAllActive)
}

func (s *Service) GetByID(ctx context.Context, id refid.ID) result.Result[Equipment] {
	return s.idChain(id).
		MatchAsync(ctx, func(ctx context.Context) result.Result[Equipment] {
			r := cacheload.For[Equipment](s.backend, s.keys.ByID(id.String())).
				WithLogging(s.logger, EntityName).
				WithAutoCache(ctx, func(ctx context.Context) result.Result[Equipment] {
					return s.store.GetByID(ctx, id)
				})
			return result.NotFoundIfEmpty(r, EntityName, id.String())
		})
}

// GetByIDString parses raw and delegates to GetByID.
func (s *Service) GetByIDString(ctx context.Context, raw string) result.Result[Equipment] {
	id, parseErr := ParseID(raw)

	return validate.For[Equipment]().
		EnsureNotWhiteSpace(raw, EntityName+" ID is required").
		Then(func(c *validate.Chain[Equipment]) {
			c.EnsureParsed(parseErr, fmt.Sprintf("%s, got: '%s'", msgIDFormat, raw))
		}).
		MatchAsync(ctx, func(ctx context.Context) result.Result[Equipment] {
			return s.GetByID(ctx, id)
		})
}

// GetByName matches case-insensitively.
func (s *Service) GetByName(ctx context.Context, name string) result.Result[Equipment] {
	return validate.For[Equipment]().
		EnsureNotWhiteSpace(name, msgNameEmpty).
		MatchAsync(ctx, func(ctx context.Context) result.Result[Equipment] {
			trimmed := strings.TrimSpace(name)
			r := cacheload.For[Equipment](s.backend, s.keys.ByName(trimmed)).
				WithLogging(s.logger, EntityName).
				WithAutoCache(ctx, func(ctx context.Context) result.Result[Equipment] {
					return s.store.GetByName(ctx, trimmed)
				})
			return result.NotFoundIfEmpty(r, EntityName, trimmed)
		})
}

// Exists reuses the GetByID cache. A missing row is Success(false).
func (s *Service) Exists(ctx context.Context, id refid.ID) result.Result[bool] {
	return validate.For[bool]().
		EnsureNotEmpty(id, msgIDEmpty).
		MatchAsync(ctx, func(ctx context.Context) result.Result[bool] {
			r := s.GetByID(ctx, id)
			switch {
			case r.IsSuccess():
				return result.Success(true)
			case r.HasCode(serviceerr.CodeNotFound), r.FirstError().Code.IsValidation():
				return result.Success(false)
			default:
				return result.Failure[bool](r.Errors()...)
			}
		})
}

// Create validates the name, checks it is not taken and stores a new active
// row.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) result.Result[Equipment] {
	return s.nameChain(validate.For[Equipment](), cmd.Name).
		EnsureUnique(s.nameIsFree(cmd.Name, refid.ID{}), EntityName, strings.TrimSpace(cmd.Name)).
		MatchAsync(ctx, func(ctx context.Context) result.Result[Equipment] {
			r := s.store.Create(ctx, cmd)
			s.invalidateOnSuccess(ctx, "create", r.IsSuccess())
			return r
		})
}

// Update renames an existing row. The new name must not belong to another
// active row.
func (s *Service) Update(ctx context.Context, id refid.ID, cmd UpdateCommand) result.Result[Equipment] {
	return s.nameChain(s.idChain(id), cmd.Name).
		EnsureExists(s.exists(id), EntityName, id.String()).
		EnsureUnique(s.nameIsFree(cmd.Name, id), EntityName, strings.TrimSpace(cmd.Name)).
		MatchAsync(ctx, func(ctx context.Context) result.Result[Equipment] {
			r := result.NotFoundIfEmpty(s.store.Update(ctx, id, cmd), EntityName, id.String())
			s.invalidateOnSuccess(ctx, "update", r.IsSuccess())
			return r
		})
}

// Delete deactivates a row that no exercise references.
func (s *Service) Delete(ctx context.Context, id refid.ID) result.Result[bool] {
	return validate.For[bool]().
		EnsureNotEmpty(id, msgIDEmpty).
		Then(func(c *validate.Chain[bool]) {
			c.Ensure(func() bool { return id.Prefix() == IDPrefix }, msgIDFormat)
		}).
		EnsureExists(s.exists(id), EntityName, id.String()).
		EnsureAsync(s.notInUse(id), serviceerr.Conflict(msgInUse).WithDetail("id", id.String())).
		MatchAsync(ctx, func(ctx context.Context) result.Result[bool] {
			r := s.store.Deactivate(ctx, id)
			s.invalidateOnSuccess(ctx, "delete", r.IsSuccess())
			return r
		})
}

// Invalidate drops every cached Equipment entry.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.backend.DeleteByPrefix(ctx, s.keys.Prefix())
}

func (s *Service) idChain(id refid.ID) *validate.Chain[Equipment] {
	return validate.For[Equipment]().
		EnsureNotEmpty(id, msgIDEmpty).
		Then(func(c *validate.Chain[Equipment]) {
			c.Ensure(func() bool { return id.Prefix() == IDPrefix }, msgIDFormat)
		})
}

func (s *Service) nameChain(c *validate.Chain[Equipment], name string) *validate.Chain[Equipment] {
	return c.
		EnsureNotWhiteSpace(name, msgNameEmpty).
		EnsureMaxLength(strings.TrimSpace(name), MaxNameLength, msgNameTooLong)
}

func (s *Service) exists(id refid.ID) validate.Check {
	return func(ctx context.Context) (bool, error) {
		return unwrapBool(s.store.Exists(ctx, id))
	}
}

func (s *Service) nameIsFree(name string, excludeID refid.ID) validate.Check {
	return func(ctx context.Context) (bool, error) {
		return unwrapBool(s.store.IsNameUnique(ctx, name, excludeID))
	}
}

func (s *Service) notInUse(id refid.ID) validate.Check {
	return func(ctx context.Context) (bool, error) {
		used, err := unwrapBool(s.store.IsInUse(ctx, id))
		return !used, err
	}
}

func (s *Service) invalidateOnSuccess(ctx context.Context, operation string, ok bool) {
	if !ok {
		return
	}
	if err := s.Invalidate(ctx); err != nil {
		s.logger.Error("cache invalidation failed",
			zap.String("operation", operation),
			zap.Error(err))
	}
}

func unwrapBool(r result.Result[bool]) (bool, error) {
	if r.IsFailure() {
		return false, r.Err()
	}
	return r.Value(), nil
}
