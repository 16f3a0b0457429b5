package graph

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"ideagraph.backend/internal/domain/entities"
	domainerrors "ideagraph.backend/internal/domain/errors"
)

// ReactionRepository stores reactions as REACTED_TO edges
type ReactionRepository struct {
	runner Runner
}

// NewReactionRepository creates a graph reaction repository
func NewReactionRepository(runner Runner) *ReactionRepository {
	return &ReactionRepository{runner: runner}
}

// Prior edges from the same profile are collected and dropped before the new
// edge is created, all in one statement.
var createReactionQuery = `
MATCH (c:Content {id: $content}) WHERE ` + alive("c") + `
MERGE (p:Profile {id: $actor})
WITH p, c
OPTIONAL MATCH (p)-[old:REACTED_TO]->(c)
WITH p, c, collect(old) AS previous
FOREACH (o IN previous | DELETE o)
CREATE (p)-[r:REACTED_TO {kind: $kind, created_at: $now}]->(c)
RETURN r.created_at AS created_at`

// Create replaces any prior reaction by the actor on the content
func (r *ReactionRepository) Create(ctx context.Context, reaction *entities.Reaction) error {
	result, err := r.runner.Run(ctx, createReactionQuery, map[string]any{
		"content": reaction.ContentID,
		"actor":   reaction.ProfileID.String(),
		"kind":    string(reaction.Kind),
		"now":     time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if len(result.Records) == 0 {
		return domainerrors.ErrNotFound
	}
	reaction.CreatedAt = asTime(get(result.Records[0], "created_at"))
	return nil
}

// Delete removes the actor's reaction on the content
func (r *ReactionRepository) Delete(ctx context.Context, actor uuid.UUID, contentID string) error {
	query := `
MATCH (:Profile {id: $actor})-[r:REACTED_TO]->(:Content {id: $content})
DELETE r
RETURN count(r) AS n`
	return expectOne(r.runner.Run(ctx, query, map[string]any{
		"actor":   actor.String(),
		"content": contentID,
	}))
}

// ListByContent lists reactions on live content, newest first
func (r *ReactionRepository) ListByContent(ctx context.Context, contentID string, limit, offset int) ([]*entities.Reaction, error) {
	query := `
MATCH (p:Profile)-[r:REACTED_TO]->(c:Content {id: $content})
WHERE ` + alive("c") + `
RETURN p.id AS profile_id, c.id AS content_id, r.kind AS kind, r.created_at AS created_at
ORDER BY r.created_at DESC` + page(limit, offset)
	result, err := r.runner.Run(ctx, query, map[string]any{"content": contentID})
	if err != nil {
		return nil, err
	}

	items := make([]*entities.Reaction, 0, len(result.Records))
	for _, rec := range result.Records {
		items = append(items, toReaction(rec))
	}
	return items, nil
}

// LoadCounts counts reactions per live content id. Missing ids map to 0.
func (r *ReactionRepository) LoadCounts(ctx context.Context, ids []string) (map[string]int, error) {
	query := `
UNWIND $ids AS id
OPTIONAL MATCH (:Profile)-[r:REACTED_TO]->(c:Content {id: id})
WHERE ` + alive("c") + `
RETURN id, count(r) AS n`
	return loadCounts(ctx, r.runner, query, ids)
}

// LoadStatuses returns the actor's reaction per content id
func (r *ReactionRepository) LoadStatuses(ctx context.Context, actor uuid.UUID, ids []string) (map[string]*entities.Reaction, error) {
	out := make(map[string]*entities.Reaction, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `
UNWIND $ids AS id
MATCH (p:Profile {id: $actor})-[r:REACTED_TO]->(c:Content {id: id})
WHERE ` + alive("c") + `
RETURN p.id AS profile_id, c.id AS content_id, r.kind AS kind, r.created_at AS created_at`
	result, err := r.runner.Run(ctx, query, map[string]any{"actor": actor.String(), "ids": ids})
	if err != nil {
		return nil, err
	}
	for _, rec := range result.Records {
		reaction := toReaction(rec)
		out[reaction.ContentID] = reaction
	}
	return out, nil
}

func toReaction(rec *neo4j.Record) *entities.Reaction {
	return &entities.Reaction{
		ProfileID: asUUID(get(rec, "profile_id")),
		ContentID: asString(get(rec, "content_id")),
		Kind:      entities.ReactionKind(asString(get(rec, "kind"))),
		CreatedAt: asTime(get(rec, "created_at")),
	}
}

// FollowRepository stores follows as FOLLOWS edges between profiles
type FollowRepository struct {
	runner Runner
}

// NewFollowRepository creates a graph follow repository
func NewFollowRepository(runner Runner) *FollowRepository {
	return &FollowRepository{runner: runner}
}

const followQuery = `
MATCH (followee:Profile {id: $followee}) WHERE followee.deactivated_at IS NULL
MERGE (follower:Profile {id: $follower})
MERGE (follower)-[f:FOLLOWS]->(followee)
ON CREATE SET f.created_at = $now
RETURN f.created_at AS created_at`

// Follow creates the edge if the followee is active. Following twice keeps the first edge.
func (r *FollowRepository) Follow(ctx context.Context, follow *entities.Follow) error {
	result, err := r.runner.Run(ctx, followQuery, map[string]any{
		"follower": follow.FollowerID.String(),
		"followee": follow.FolloweeID.String(),
		"now":      time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if len(result.Records) == 0 {
		return domainerrors.ErrNotFound
	}
	follow.CreatedAt = asTime(get(result.Records[0], "created_at"))
	return nil
}

// Unfollow removes the edge
func (r *FollowRepository) Unfollow(ctx context.Context, follower, followee uuid.UUID) error {
	query := `
MATCH (:Profile {id: $follower})-[f:FOLLOWS]->(:Profile {id: $followee})
DELETE f
RETURN count(f) AS n`
	return expectOne(r.runner.Run(ctx, query, map[string]any{
		"follower": follower.String(),
		"followee": followee.String(),
	}))
}

// ListFollowers lists edges pointing at profileID, newest first
func (r *FollowRepository) ListFollowers(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]*entities.Follow, error) {
	query := `
MATCH (a:Profile)-[f:FOLLOWS]->(b:Profile {id: $id})
RETURN a.id AS follower_id, b.id AS followee_id, f.created_at AS created_at
ORDER BY f.created_at DESC` + page(limit, offset)
	return r.list(ctx, query, profileID)
}

// ListFollowing lists edges leaving profileID, newest first
func (r *FollowRepository) ListFollowing(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]*entities.Follow, error) {
	query := `
MATCH (a:Profile {id: $id})-[f:FOLLOWS]->(b:Profile)
RETURN a.id AS follower_id, b.id AS followee_id, f.created_at AS created_at
ORDER BY f.created_at DESC` + page(limit, offset)
	return r.list(ctx, query, profileID)
}

func (r *FollowRepository) list(ctx context.Context, query string, profileID uuid.UUID) ([]*entities.Follow, error) {
	result, err := r.runner.Run(ctx, query, map[string]any{"id": profileID.String()})
	if err != nil {
		return nil, err
	}
	items := make([]*entities.Follow, 0, len(result.Records))
	for _, rec := range result.Records {
		items = append(items, toFollow(rec))
	}
	return items, nil
}

// LoadFollowingStatuses returns the actor's follow edge per followee id
func (r *FollowRepository) LoadFollowingStatuses(ctx context.Context, actor uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*entities.Follow, error) {
	out := make(map[uuid.UUID]*entities.Follow, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `
UNWIND $ids AS id
MATCH (a:Profile {id: $actor})-[f:FOLLOWS]->(b:Profile {id: id})
RETURN a.id AS follower_id, b.id AS followee_id, f.created_at AS created_at`
	result, err := r.runner.Run(ctx, query, map[string]any{"actor": actor.String(), "ids": uuidStrings(ids)})
	if err != nil {
		return nil, err
	}
	for _, rec := range result.Records {
		follow := toFollow(rec)
		out[follow.FolloweeID] = follow
	}
	return out, nil
}

// LoadFollowerCounts counts followers per profile id. Missing ids map to 0.
func (r *FollowRepository) LoadFollowerCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	query := `
UNWIND $ids AS id
OPTIONAL MATCH (:Profile)-[f:FOLLOWS]->(:Profile {id: id})
RETURN id, count(f) AS n`
	counts, err := loadCounts(ctx, r.runner, query, uuidStrings(ids))
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int, len(ids))
	for _, id := range ids {
		out[id] = counts[id.String()]
	}
	return out, nil
}

func toFollow(rec *neo4j.Record) *entities.Follow {
	return &entities.Follow{
		FollowerID: asUUID(get(rec, "follower_id")),
		FolloweeID: asUUID(get(rec, "followee_id")),
		CreatedAt:  asTime(get(rec, "created_at")),
	}
}

// ReportRepository stores reports as REPORTED edges
type ReportRepository struct {
	runner Runner
}

// NewReportRepository creates a graph report repository
func NewReportRepository(runner Runner) *ReportRepository {
	return &ReportRepository{runner: runner}
}

var createReportQuery = `
MATCH (c:Content {id: $content}) WHERE ` + alive("c") + `
MERGE (p:Profile {id: $reporter})
CREATE (p)-[r:REPORTED {id: $id, reason: $reason, created_at: $now}]->(c)
RETURN r.id AS id`

// Create files a report against live content
func (r *ReportRepository) Create(ctx context.Context, report *entities.Report) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.CreatedAt = time.Now().UTC()
	result, err := r.runner.Run(ctx, createReportQuery, map[string]any{
		"content":  report.ContentID,
		"reporter": report.ReporterID.String(),
		"id":       report.ID.String(),
		"reason":   report.Reason,
		"now":      report.CreatedAt,
	})
	if err != nil {
		return err
	}
	if len(result.Records) == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ProfileProjection keeps :Profile vertices in step with the relational profile rows
type ProfileProjection struct {
	runner Runner
}

// NewProfileProjection creates a graph profile projection
func NewProfileProjection(runner Runner) *ProfileProjection {
	return &ProfileProjection{runner: runner}
}

// Upsert merges the profile vertex and copies its name and deactivation marker
func (p *ProfileProjection) Upsert(ctx context.Context, profile *entities.Profile) error {
	query := `
MERGE (p:Profile {id: $id})
SET p.name = $name, p.deactivated_at = $deactivated_at`
	_, err := p.runner.Run(ctx, query, map[string]any{
		"id":             profile.ID.String(),
		"name":           profile.Name,
		"deactivated_at": nullableTime(profile.DeactivatedAt),
	})
	return err
}

// expectOne checks a `RETURN count(x) AS n` result from a delete
func expectOne(result *neo4j.EagerResult, err error) error {
	if err != nil {
		return err
	}
	if len(result.Records) == 0 || asInt(get(result.Records[0], "n")) == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
