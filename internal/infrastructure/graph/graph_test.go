package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ideagraph.backend/internal/domain/entities"
	domainerrors "ideagraph.backend/internal/domain/errors"
)

type runCall struct {
	query  string
	params map[string]any
}

type stubRunner struct {
	calls   []runCall
	results []*neo4j.EagerResult
	err     error
}

func (s *stubRunner) Run(_ context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	s.calls = append(s.calls, runCall{query: query, params: params})
	if s.err != nil {
		return nil, s.err
	}
	if len(s.results) == 0 {
		return &neo4j.EagerResult{}, nil
	}
	next := s.results[0]
	s.results = s.results[1:]
	return next, nil
}

func rows(keys []string, values ...[]any) *neo4j.EagerResult {
	result := &neo4j.EagerResult{Keys: keys}
	for _, v := range values {
		result.Records = append(result.Records, &neo4j.Record{Keys: keys, Values: v})
	}
	return result
}

func ideaProps(id string, author uuid.UUID, replyTo any) map[string]any {
	return map[string]any{
		"id":         id,
		"kind":       "IDEA",
		"author_id":  author.String(),
		"message":    "rates are going lower",
		"sentiment":  "BULLISH",
		"tickers":    []any{"TLT", "IEF"},
		"reply_to":   replyTo,
		"created_at": time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		"updated_at": time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestContentRepository_CreateReplyRequiresLiveParent(t *testing.T) {
	runner := &stubRunner{}
	repo := NewContentRepository(runner)
	idea := &entities.Idea{ID: "child", AuthorID: uuid.New(), Message: "agreed, and here is why"}
	idea.ReplyTo.SetValid("parent")

	err := repo.CreateIdea(context.Background(), idea)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0].query, "parent.deleted_at IS NULL")
	assert.Contains(t, runner.calls[0].query, "REPLY_TO")
	assert.Equal(t, "parent", runner.calls[0].params["reply_to"])
	assert.Equal(t, []string{}, runner.calls[0].params["tickers"])
}

func TestContentRepository_CreateIdeaDecodesVertex(t *testing.T) {
	author := uuid.New()
	runner := &stubRunner{results: []*neo4j.EagerResult{
		rows([]string{"content"}, []any{ideaProps("i1", author, "p1")}),
	}}
	repo := NewContentRepository(runner)
	idea := &entities.Idea{ID: "i1", AuthorID: author, Message: "rates are going lower"}
	idea.ReplyTo.SetValid("p1")

	require.NoError(t, repo.CreateIdea(context.Background(), idea))
	assert.Equal(t, []string{"TLT", "IEF"}, idea.Tickers)
	assert.Equal(t, entities.SentimentBullish, idea.Sentiment)
	assert.Equal(t, "p1", idea.ReplyTo.String)
	assert.False(t, idea.CreatedAt.IsZero())
}

func TestContentRepository_MutationsAssertAuthorship(t *testing.T) {
	actor := uuid.New()
	runner := &stubRunner{}
	repo := NewContentRepository(runner)
	ctx := context.Background()

	require.ErrorIs(t, repo.UpdatePost(ctx, actor, &entities.Post{ID: "p1"}), domainerrors.ErrNotFound)
	require.ErrorIs(t, repo.UpdateIdea(ctx, actor, &entities.Idea{ID: "i1"}), domainerrors.ErrNotFound)
	require.ErrorIs(t, repo.SoftDelete(ctx, actor, entities.ContentKindIdea, "i1"), domainerrors.ErrNotFound)

	require.Len(t, runner.calls, 3)
	for _, call := range runner.calls {
		assert.Contains(t, call.query, "(:Profile {id: $actor})-[:AUTHORED]->")
		assert.Contains(t, call.query, "c.deleted_at IS NULL")
		assert.Equal(t, actor.String(), call.params["actor"])
	}
	assert.Equal(t, "IDEA", runner.calls[2].params["kind"])
}

func TestContentRepository_FindByAuthorAndPaging(t *testing.T) {
	author := uuid.New()
	post := map[string]any{
		"id": "p1", "kind": "POST", "author_id": author.String(),
		"title": "A Good Post Title", "status": "PUBLISHED", "format": "MARKDOWN",
	}
	runner := &stubRunner{results: []*neo4j.EagerResult{
		rows([]string{"content"}, []any{post}, []any{ideaProps("i1", author, nil)}),
	}}
	repo := NewContentRepository(runner)

	items, err := repo.FindByAuthor(context.Background(), author, "", 10, 20)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, entities.ContentKindPost, items[0].Kind())
	assert.Equal(t, entities.ContentKindIdea, items[1].Kind())
	assert.False(t, items[1].(*entities.Idea).ReplyTo.Valid)
	assert.Contains(t, runner.calls[0].query, "ORDER BY c.created_at DESC SKIP 20 LIMIT 10")
}

func TestContentRepository_LoadReplyCountsDefaultsToZero(t *testing.T) {
	runner := &stubRunner{results: []*neo4j.EagerResult{
		rows([]string{"id", "n"}, []any{"a", int64(3)}),
	}}
	repo := NewContentRepository(runner)

	counts, err := repo.LoadReplyCounts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 3, "b": 0}, counts)

	empty, err := repo.LoadReplyCounts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Len(t, runner.calls, 1)
}

func TestContentRepository_FindByIDPropagatesErrors(t *testing.T) {
	repo := NewContentRepository(&stubRunner{err: errors.New("connection reset")})
	_, err := repo.FindByID(context.Background(), "x")
	require.EqualError(t, err, "connection reset")

	_, err = NewContentRepository(&stubRunner{}).FindByID(context.Background(), "x")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestReactionRepository_CreateReplacesInOneStatement(t *testing.T) {
	now := time.Now().UTC()
	runner := &stubRunner{results: []*neo4j.EagerResult{
		rows([]string{"created_at"}, []any{now}),
	}}
	repo := NewReactionRepository(runner)
	reaction := &entities.Reaction{ProfileID: uuid.New(), ContentID: "c1", Kind: entities.ReactionLike}

	require.NoError(t, repo.Create(context.Background(), reaction))
	assert.Equal(t, now, reaction.CreatedAt)
	require.Len(t, runner.calls, 1)
	q := runner.calls[0].query
	assert.Contains(t, q, "c.deleted_at IS NULL")
	assert.Contains(t, q, "FOREACH (o IN previous | DELETE o)")
	assert.Contains(t, q, "CREATE (p)-[r:REACTED_TO")

	require.ErrorIs(t, NewReactionRepository(&stubRunner{}).Create(context.Background(), reaction), domainerrors.ErrNotFound)
}

func TestReactionRepository_DeleteAndStatuses(t *testing.T) {
	actor := uuid.New()
	runner := &stubRunner{results: []*neo4j.EagerResult{
		rows([]string{"n"}, []any{int64(0)}),
		rows([]string{"n"}, []any{int64(1)}),
		rows([]string{"profile_id", "content_id", "kind", "created_at"}, []any{actor.String(), "c1", "LOVE", time.Now()}),
	}}
	repo := NewReactionRepository(runner)
	ctx := context.Background()

	require.ErrorIs(t, repo.Delete(ctx, actor, "c1"), domainerrors.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, actor, "c1"))

	statuses, err := repo.LoadStatuses(ctx, actor, []string{"c1", "c2"})
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, entities.ReactionLove, statuses["c1"].Kind)
	assert.Equal(t, actor, statuses["c1"].ProfileID)
}

func TestReactionRepository_BatchLoadsSkipDeletedContent(t *testing.T) {
	runner := &stubRunner{results: []*neo4j.EagerResult{
		rows([]string{"id", "n"}, []any{"c1", int64(2)}),
		{},
	}}
	repo := NewReactionRepository(runner)
	ctx := context.Background()

	counts, err := repo.LoadCounts(ctx, []string{"c1", "gone"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"c1": 2, "gone": 0}, counts)

	statuses, err := repo.LoadStatuses(ctx, uuid.New(), []string{"gone"})
	require.NoError(t, err)
	assert.Empty(t, statuses)

	require.Len(t, runner.calls, 2)
	for _, call := range runner.calls {
		assert.Contains(t, call.query, "c.deleted_at IS NULL")
	}
}

func TestFollowRepository_FollowAndCounts(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	created := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	runner := &stubRunner{results: []*neo4j.EagerResult{
		rows([]string{"created_at"}, []any{created}),
		{},
		rows([]string{"id", "n"}, []any{b.String(), int64(2)}),
	}}
	repo := NewFollowRepository(runner)
	ctx := context.Background()

	f := &entities.Follow{FollowerID: a, FolloweeID: b}
	require.NoError(t, repo.Follow(ctx, f))
	assert.Equal(t, created, f.CreatedAt)
	assert.Contains(t, runner.calls[0].query, "followee.deactivated_at IS NULL")
	assert.Contains(t, runner.calls[0].query, "ON CREATE SET")

	require.ErrorIs(t, repo.Follow(ctx, &entities.Follow{FollowerID: a, FolloweeID: c}), domainerrors.ErrNotFound)

	counts, err := repo.LoadFollowerCounts(ctx, []uuid.UUID{b, c})
	require.NoError(t, err)
	assert.Equal(t, 2, counts[b])
	assert.Equal(t, 0, counts[c])
	assert.Equal(t, []string{b.String(), c.String()}, runner.calls[2].params["ids"])
}

func TestFollowRepository_ListDecodesEdges(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	runner := &stubRunner{results: []*neo4j.EagerResult{
		rows([]string{"follower_id", "followee_id", "created_at"}, []any{a.String(), b.String(), time.Now()}),
	}}
	items, err := NewFollowRepository(runner).ListFollowers(context.Background(), b, 5, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, a, items[0].FollowerID)
	assert.Equal(t, b, items[0].FolloweeID)
	assert.Contains(t, runner.calls[0].query, "LIMIT 5")
	assert.NotContains(t, runner.calls[0].query, "SKIP")
}

func TestReportRepository_Create(t *testing.T) {
	runner := &stubRunner{results: []*neo4j.EagerResult{rows([]string{"id"}, []any{"r1"})}}
	report := &entities.Report{ReporterID: uuid.New(), ContentID: "c1", Reason: "spam links"}
	require.NoError(t, NewReportRepository(runner).Create(context.Background(), report))
	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.Contains(t, runner.calls[0].query, "c.deleted_at IS NULL")

	err := NewReportRepository(&stubRunner{}).Create(context.Background(), report)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestProfileProjection_Upsert(t *testing.T) {
	runner := &stubRunner{}
	profile := &entities.Profile{ID: uuid.New(), Name: "Alice"}
	require.NoError(t, NewProfileProjection(runner).Upsert(context.Background(), profile))
	assert.Nil(t, runner.calls[0].params["deactivated_at"])

	profile.DeactivatedAt.SetValid(time.Now())
	require.NoError(t, NewProfileProjection(runner).Upsert(context.Background(), profile))
	assert.NotNil(t, runner.calls[1].params["deactivated_at"])
}

func TestEnsureSchema(t *testing.T) {
	runner := &stubRunner{}
	require.NoError(t, EnsureSchema(context.Background(), runner))
	assert.Len(t, runner.calls, len(schemaStatements))

	require.Error(t, EnsureSchema(context.Background(), &stubRunner{err: errors.New("down")}))
}
