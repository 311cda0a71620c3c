package refdata

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

// Service serves one pure reference group through an eternal cache. It never
// touches storage directly; every read goes through the Store.
type Service struct {
	group   Group
	store   Store
	backend cache.Backend
	keys    cache.Keys
	logger  *zap.Logger
}

// NewService wires a reference service. backend should be an eternal backend.
func NewService(group Group, store Store, backend cache.Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		group:   group,
		store:   store,
		backend: backend,
		keys:    cache.NewKeys(cache.DefaultNamespace, group.Name),
		logger:  logger.With(zap.String("entity", group.Name)),
	}
}

// Group returns the group this service serves.
func (s *Service) Group() Group {
	return s.group
}

// GetAllActive returns the active rows ordered for display. An empty list is a
// valid answer.
func (s *Service) GetAllActive(ctx context.Context) result.Result[[]ReferenceData] {
	return cacheload.For[[]ReferenceData](s.backend, s.keys.All()).
		WithLogging(s.logger, s.keys.Group()).
		WithAutoCache(ctx, s.store.GetAllActive)
}

// GetByID returns the active row identified by id.
func (s *Service) GetByID(ctx context.Context, id refid.ID) result.Result[ReferenceData] {
	return validate.For[ReferenceData]().
		EnsureNotEmpty(id, fmt.Sprintf("%s ID cannot be empty", s.group.Name)).
		Then(func(c *validate.Chain[ReferenceData]) {
			c.Ensure(func() bool { return id.Prefix() == s.group.Prefix },
				fmt.Sprintf("Invalid %s ID format. Expected '%s-{guid}'", s.group.Name, s.group.Prefix))
		}).
		MatchAsync(ctx, func(ctx context.Context) result.Result[ReferenceData] {
			r := cacheload.For[ReferenceData](s.backend, s.keys.ByID(id.String())).
				WithLogging(s.logger, s.group.Name).
				WithAutoCache(ctx, func(ctx context.Context) result.Result[ReferenceData] {
					return s.store.GetByID(ctx, id)
				})
			return result.NotFoundIfEmpty(r, s.group.Name, id.String())
		})
}

// GetByIDString parses raw and delegates to GetByID. A blank string is
// ValidationRequired and an unparsable one is ValidationInvalid, so a
// malformed identifier is never reported as NotFound.
func (s *Service) GetByIDString(ctx context.Context, raw string) result.Result[ReferenceData] {
	id, parseErr := s.group.ParseID(raw)

	return validate.For[ReferenceData]().
		EnsureNotWhiteSpace(raw, fmt.Sprintf("%s ID is required", s.group.Name)).
		Then(func(c *validate.Chain[ReferenceData]) {
			c.EnsureParsed(parseErr,
				fmt.Sprintf("Invalid %s ID format. Expected '%s-{guid}', got: '%s'", s.group.Name, s.group.Prefix, raw))
		}).
		MatchAsync(ctx, func(ctx context.Context) result.Result[ReferenceData] {
			return s.GetByID(ctx, id)
		})
}

// GetByValue returns the active row whose value matches case-insensitively.
func (s *Service) GetByValue(ctx context.Context, value string) result.Result[ReferenceData] {
	return validate.For[ReferenceData]().
		EnsureNotWhiteSpace(value, fmt.Sprintf("%s value cannot be empty", s.group.Name)).
		MatchAsync(ctx, func(ctx context.Context) result.Result[ReferenceData] {
			trimmed := strings.TrimSpace(value)
			r := cacheload.For[ReferenceData](s.backend, s.keys.ByValue(trimmed)).
				WithLogging(s.logger, s.group.Name).
				WithAutoCache(ctx, func(ctx context.Context) result.Result[ReferenceData] {
					return s.store.GetByValue(ctx, trimmed)
				})
			return result.NotFoundIfEmpty(r, s.group.Name, trimmed)
		})
}

// Exists reports whether id names an active row. It reuses the GetByID cache;
// a missing row is Success(false), storage failures stay failures.
func (s *Service) Exists(ctx context.Context, id refid.ID) result.Result[bool] {
	return validate.For[bool]().
		EnsureNotEmpty(id, fmt.Sprintf("%s ID cannot be empty", s.group.Name)).
		MatchAsync(ctx, func(ctx context.Context) result.Result[bool] {
			r := s.GetByID(ctx, id)
			if r.IsSuccess() {
				return result.Success(true)
			}
			if r.FirstError().Code.IsValidation() || r.HasCode(serviceerr.CodeNotFound) {
				return result.Success(false)
			}
			return result.Failure[bool](r.Errors()...)
		})
}

// AllExist reports whether every raw identifier parses and names an active
// row. Any unparsable identifier makes the answer false.
func (s *Service) AllExist(ctx context.Context, raw []string) result.Result[bool] {
	ids := make([]refid.ID, 0, len(raw))
	for _, r := range raw {
		id, err := s.group.ParseID(r)
		if err != nil {
			return result.Success(false)
		}
		ids = append(ids, id)
	}
	return s.store.AllExist(ctx, ids)
}

// Invalidate drops every cached entry of the group.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.backend.DeleteByPrefix(ctx, s.keys.Prefix())
}
