package programs

import (
	"context"
	"fmt"
	"time"

	"github.com/venuebook/bookgo/internal/catalog"
	"github.com/venuebook/bookgo/internal/domain"
	"github.com/venuebook/bookgo/internal/inventory"
	redisx "github.com/venuebook/bookgo/internal/redis"
	redisrepo "github.com/venuebook/bookgo/internal/repository/redis"
)

type Config struct {
	ListTTL         time.Duration
	AvailabilityTTL time.Duration
	DefaultPageSize int
	MaxPageSize     int
}

// Service derives ProgramViews (inventory + deadline state) from the raw
// upstream records. Views are a recomputed projection with no identity of
// their own, so they are cached briefly and rebuilt on every refetch.
type Service struct {
	catalog *catalog.Client
	cache   *redisrepo.Cache
	pubsub  *redisx.ProgramsPubSub
	cfg     Config
	now     func() time.Time
}

func New(catalogClient *catalog.Client, cache *redisrepo.Cache, pubsub *redisx.ProgramsPubSub, cfg Config) *Service {
	if cfg.ListTTL <= 0 {
		cfg.ListTTL = 15 * time.Second
	}

	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = 15 * time.Second
	}

	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}

	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}

	return &Service{
		catalog: catalogClient,
		cache:   cache,
		pubsub:  pubsub,
		cfg:     cfg,
		now:     time.Now,
	}
}

// List returns derived program views for a listing page. Upstream failures
// have already degraded to an empty record list inside the catalog client,
// so this always renders something.
func (s *Service) List(ctx context.Context, params catalog.ListParams) ([]domain.ProgramView, error) {
	const op = "service.programs.List"

	if params.PageSize <= 0 {
		params.PageSize = s.cfg.DefaultPageSize
	}

	if params.PageSize > s.cfg.MaxPageSize {
		params.PageSize = s.cfg.MaxPageSize
	}

	key := redisx.KeyProgramList(params.BookingType, params.IncludePast, params.Page, params.PageSize)

	views, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.ListTTL,
		func(ctx context.Context) ([]domain.ProgramView, error) {
			views := s.build(ctx, params)

			if s.pubsub != nil {
				_ = s.pubsub.PublishProgramsChanged(ctx, params.BookingType)
			}

			return views, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return views, nil
}

// Availability returns the derived inventory and deadline state for one
// program, cached on its own shorter-lived key.
func (s *Service) Availability(ctx context.Context, programID string) (*domain.ProgramView, error) {
	const op = "service.programs.Availability"

	key := redisx.KeyProgramAvailability(programID)

	view, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.AvailabilityTTL,
		func(ctx context.Context) (domain.ProgramView, error) {
			views := s.build(ctx, catalog.ListParams{IncludePast: true})
			for _, v := range views {
				if v.Record.ID == programID {
					return v, nil
				}
			}
			return domain.ProgramView{}, ErrProgramNotFound
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &view, nil
}

// Invalidate drops the cached availability view for a program and announces
// the change. Called after a commit hands off to payment, since the upstream
// sold counts are about to move.
func (s *Service) Invalidate(ctx context.Context, programID string) {
	_ = s.cache.InvalidateProgram(ctx, programID)

	if s.pubsub != nil {
		_ = s.pubsub.PublishProgramsChanged(ctx, "")
	}
}

// build fetches records plus the authoritative live sold counts and runs
// each record through the inventory parser and deadline gate.
func (s *Service) build(ctx context.Context, params catalog.ListParams) []domain.ProgramView {
	records := s.catalog.ListPrograms(ctx, params)
	if len(records) == 0 {
		return []domain.ProgramView{}
	}

	soldByID := s.catalog.LiveSoldCounts(ctx)
	now := s.now()

	views := make([]domain.ProgramView, 0, len(records))
	for _, rec := range records {
		inv := inventory.Parse(rec, rec.Mode(), soldByID)
		views = append(views, domain.ProgramView{
			Record:    rec,
			Inventory: inv,
			Deadline:  inventory.Deadline(rec, now),
			CTALabel:  inventory.CTALabel(inv),
		})
	}

	return views
}
