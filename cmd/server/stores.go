package main

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ideagraph.backend/internal/config"
	domainrepos "ideagraph.backend/internal/domain/repositories"
	"ideagraph.backend/internal/infrastructure/document"
	"ideagraph.backend/internal/infrastructure/graph"
	"ideagraph.backend/internal/infrastructure/repositories"
	"ideagraph.backend/internal/loaders"
	"ideagraph.backend/pkg/logger"
)

const (
	contentStoreGraph = "graph"
	contentStoreSQL   = "sql"
)

// contentStores are the repositories behind content, reactions, follows and reports
type contentStores struct {
	content    domainrepos.ContentRepository
	reactions  domainrepos.ReactionRepository
	follows    domainrepos.FollowRepository
	reports    domainrepos.ReportRepository
	projection domainrepos.ProfileProjection
	close      func(context.Context) error
}

var (
	openGraph = func(cfg config.Neo4jConfig) (graphRunner, error) {
		return graph.NewNeo4jRunner(cfg.URI, cfg.Username, cfg.Password, cfg.Database)
	}
	connectMongo = document.Connect
)

type graphRunner interface {
	graph.Runner
	Verify(ctx context.Context) error
	Close(ctx context.Context) error
}

func newContentStores(ctx context.Context, cfg *config.Config, db *gorm.DB) (*contentStores, error) {
	switch cfg.Server.ContentStore {
	case contentStoreSQL:
		return &contentStores{
			content:   repositories.NewContentRepository(db),
			reactions: repositories.NewReactionRepository(db),
			follows:   repositories.NewFollowRepository(db),
			reports:   repositories.NewReportRepository(db),
			close:     func(context.Context) error { return nil },
		}, nil
	case contentStoreGraph:
		runner, err := openGraph(cfg.Neo4j)
		if err != nil {
			return nil, err
		}
		if err := runner.Verify(ctx); err != nil {
			_ = runner.Close(ctx)
			return nil, fmt.Errorf("failed to reach neo4j: %w", err)
		}
		if err := graph.EnsureSchema(ctx, runner); err != nil {
			_ = runner.Close(ctx)
			return nil, fmt.Errorf("failed to ensure graph schema: %w", err)
		}
		return &contentStores{
			content:    graph.NewContentRepository(runner),
			reactions:  graph.NewReactionRepository(runner),
			follows:    graph.NewFollowRepository(runner),
			reports:    graph.NewReportRepository(runner),
			projection: graph.NewProfileProjection(runner),
			close:      runner.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown content store %q", cfg.Server.ContentStore)
	}
}

// loaderSources binds the batch loaders to whichever backend serves content
func (s *contentStores) loaderSources(profiles domainrepos.ProfileRepository) loaders.Sources {
	return loaders.Sources{
		ReplyCounts:       s.content.LoadReplyCounts,
		ReactionCounts:    s.reactions.LoadCounts,
		ReactionStatuses:  s.reactions.LoadStatuses,
		FollowerCounts:    s.follows.LoadFollowerCounts,
		FollowingStatuses: s.follows.LoadFollowingStatuses,
		Profiles:          profiles.GetByIDs,
	}
}

func newWatchlistRepository(ctx context.Context, cfg config.MongoConfig) (*document.WatchlistRepository, *mongo.Client, error) {
	client, err := connectMongo(ctx, cfg.URI)
	if err != nil {
		return nil, nil, err
	}
	repo := document.NewWatchlistRepository(client.Database(cfg.Database))
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Warn(ctx, "Failed to ensure watchlist indexes", zap.Error(err))
	}
	return repo, client, nil
}
