package service

import (
	"log/slog"

	"github.com/venuebook/bookgo/internal/catalog"
	redisx "github.com/venuebook/bookgo/internal/redis"
	postgresrepo "github.com/venuebook/bookgo/internal/repository/postgres"
	redisrepo "github.com/venuebook/bookgo/internal/repository/redis"
	"github.com/venuebook/bookgo/internal/service/draft"
	"github.com/venuebook/bookgo/internal/service/flow"
	"github.com/venuebook/bookgo/internal/service/pricing"
	"github.com/venuebook/bookgo/internal/service/programs"
)

type Services struct {
	Pricing  *pricing.Service
	Programs *programs.Service
	Drafts   *draft.Service
	Flow     *flow.Service
}

type Config struct {
	Programs programs.Config
}

func NewServices(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	mirror *redisrepo.DraftMirror,
	pubsub *redisx.ProgramsPubSub,
	catalogClient *catalog.Client,
	logger *slog.Logger,
	cfg Config,
) *Services {
	pricingSvc := pricing.New()
	draftSvc := draft.New(store, mirror, logger)

	return &Services{
		Pricing:  pricingSvc,
		Programs: programs.New(catalogClient, cache, pubsub, cfg.Programs),
		Drafts:   draftSvc,
		Flow:     flow.New(pricingSvc, draftSvc),
	}
}
