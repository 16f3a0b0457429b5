package graph

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"ideagraph.backend/internal/domain/entities"
	domainerrors "ideagraph.backend/internal/domain/errors"
)

// ContentRepository stores posts and ideas as :Content vertices authored by :Profile vertices.
type ContentRepository struct {
	runner Runner
}

// NewContentRepository creates a graph content repository
func NewContentRepository(runner Runner) *ContentRepository {
	return &ContentRepository{runner: runner}
}

const createPostQuery = `
MERGE (a:Profile {id: $author})
CREATE (a)-[:AUTHORED]->(c:Content:Post {
	id: $id, kind: 'POST', author_id: $author,
	title: $title, summary: $summary, body: $body, cover_image: $cover_image,
	status: $status, format: $format,
	created_at: $now, updated_at: $now
})
RETURN c {.*} AS content`

// CreatePost inserts a post
func (r *ContentRepository) CreatePost(ctx context.Context, post *entities.Post) error {
	now := time.Now().UTC()
	result, err := r.runner.Run(ctx, createPostQuery, map[string]any{
		"id":          post.ID,
		"author":      post.AuthorID.String(),
		"title":       post.Title,
		"summary":     post.Summary,
		"body":        post.Content,
		"cover_image": post.CoverImage,
		"status":      string(post.Status),
		"format":      string(post.Format),
		"now":         now,
	})
	if err != nil {
		return err
	}
	return assignFirst(result, func(c entities.ActionableContent) {
		if p, ok := c.(*entities.Post); ok {
			*post = *p
		}
	})
}

const createIdeaQuery = `
MERGE (a:Profile {id: $author})
CREATE (a)-[:AUTHORED]->(c:Content:Idea {
	id: $id, kind: 'IDEA', author_id: $author,
	message: $message, sentiment: $sentiment, tickers: $tickers,
	created_at: $now, updated_at: $now
})
RETURN c {.*} AS content`

// Parent liveness is part of the MATCH, so a reply to deleted content creates nothing.
var createReplyQuery = `
MATCH (parent:Content {id: $reply_to}) WHERE ` + alive("parent") + `
MERGE (a:Profile {id: $author})
CREATE (a)-[:AUTHORED]->(c:Content:Idea {
	id: $id, kind: 'IDEA', author_id: $author,
	message: $message, sentiment: $sentiment, tickers: $tickers, reply_to: parent.id,
	created_at: $now, updated_at: $now
})-[:REPLY_TO]->(parent)
RETURN c {.*} AS content`

// CreateIdea inserts an idea, linking it to its parent when it is a reply
func (r *ContentRepository) CreateIdea(ctx context.Context, idea *entities.Idea) error {
	params := map[string]any{
		"id":        idea.ID,
		"author":    idea.AuthorID.String(),
		"message":   idea.Message,
		"sentiment": string(idea.Sentiment),
		"tickers":   tickerList(idea.Tickers),
		"now":       time.Now().UTC(),
	}
	query := createIdeaQuery
	if idea.ReplyTo.Valid {
		query = createReplyQuery
		params["reply_to"] = idea.ReplyTo.String
	}

	result, err := r.runner.Run(ctx, query, params)
	if err != nil {
		return err
	}
	return assignFirst(result, func(c entities.ActionableContent) {
		if i, ok := c.(*entities.Idea); ok {
			*idea = *i
		}
	})
}

var updatePostQuery = `
MATCH (:Profile {id: $actor})-[:AUTHORED]->(c:Content:Post {id: $id})
WHERE ` + alive("c") + `
SET c.title = $title, c.summary = $summary, c.body = $body, c.cover_image = $cover_image,
	c.status = $status, c.format = $format, c.updated_at = $now
RETURN c {.*} AS content`

// UpdatePost updates a post owned by actor
func (r *ContentRepository) UpdatePost(ctx context.Context, actor uuid.UUID, post *entities.Post) error {
	result, err := r.runner.Run(ctx, updatePostQuery, map[string]any{
		"actor":       actor.String(),
		"id":          post.ID,
		"title":       post.Title,
		"summary":     post.Summary,
		"body":        post.Content,
		"cover_image": post.CoverImage,
		"status":      string(post.Status),
		"format":      string(post.Format),
		"now":         time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return assignFirst(result, func(c entities.ActionableContent) {
		if p, ok := c.(*entities.Post); ok {
			*post = *p
		}
	})
}

var updateIdeaQuery = `
MATCH (:Profile {id: $actor})-[:AUTHORED]->(c:Content:Idea {id: $id})
WHERE ` + alive("c") + `
SET c.message = $message, c.sentiment = $sentiment, c.tickers = $tickers, c.updated_at = $now
RETURN c {.*} AS content`

// UpdateIdea updates an idea owned by actor
func (r *ContentRepository) UpdateIdea(ctx context.Context, actor uuid.UUID, idea *entities.Idea) error {
	result, err := r.runner.Run(ctx, updateIdeaQuery, map[string]any{
		"actor":     actor.String(),
		"id":        idea.ID,
		"message":   idea.Message,
		"sentiment": string(idea.Sentiment),
		"tickers":   tickerList(idea.Tickers),
		"now":       time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return assignFirst(result, func(c entities.ActionableContent) {
		if i, ok := c.(*entities.Idea); ok {
			*idea = *i
		}
	})
}

// SoftDelete stamps deleted_at on content owned by actor
func (r *ContentRepository) SoftDelete(ctx context.Context, actor uuid.UUID, kind entities.ContentKind, id string) error {
	query := `
MATCH (:Profile {id: $actor})-[:AUTHORED]->(c:Content {id: $id, kind: $kind})
WHERE ` + alive("c") + `
SET c.deleted_at = $now
RETURN c.id AS id`
	result, err := r.runner.Run(ctx, query, map[string]any{
		"actor": actor.String(),
		"id":    id,
		"kind":  string(kind),
		"now":   time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if len(result.Records) == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// FindByID finds live content of any kind
func (r *ContentRepository) FindByID(ctx context.Context, id string) (entities.ActionableContent, error) {
	query := `MATCH (c:Content {id: $id}) WHERE ` + alive("c") + ` RETURN c {.*} AS content`
	result, err := r.runner.Run(ctx, query, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	items := contentRecords(result)
	if len(items) == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return items[0], nil
}

// FindByAuthor lists live content by author, newest first. An empty kind lists both kinds.
func (r *ContentRepository) FindByAuthor(ctx context.Context, author uuid.UUID, kind entities.ContentKind, limit, offset int) ([]entities.ActionableContent, error) {
	query := `
MATCH (:Profile {id: $author})-[:AUTHORED]->(c:Content)
WHERE ` + alive("c") + ` AND ($kind = '' OR c.kind = $kind)
RETURN c {.*} AS content
ORDER BY c.created_at DESC` + page(limit, offset)
	result, err := r.runner.Run(ctx, query, map[string]any{
		"author": author.String(),
		"kind":   string(kind),
	})
	if err != nil {
		return nil, err
	}
	return contentRecords(result), nil
}

// FindReplies lists live replies to live content, newest first
func (r *ContentRepository) FindReplies(ctx context.Context, parentID string, limit, offset int) ([]*entities.Idea, error) {
	query := `
MATCH (c:Content:Idea)-[:REPLY_TO]->(parent:Content {id: $id})
WHERE ` + alive("c") + ` AND ` + alive("parent") + `
RETURN c {.*} AS content
ORDER BY c.created_at DESC` + page(limit, offset)
	result, err := r.runner.Run(ctx, query, map[string]any{"id": parentID})
	if err != nil {
		return nil, err
	}

	items := make([]*entities.Idea, 0, len(result.Records))
	for _, c := range contentRecords(result) {
		if idea, ok := c.(*entities.Idea); ok {
			items = append(items, idea)
		}
	}
	return items, nil
}

// LoadReplyCounts counts live replies per parent id. Missing ids map to 0.
func (r *ContentRepository) LoadReplyCounts(ctx context.Context, ids []string) (map[string]int, error) {
	query := `
UNWIND $ids AS id
OPTIONAL MATCH (c:Content:Idea)-[:REPLY_TO]->(:Content {id: id})
WHERE ` + alive("c") + `
RETURN id, count(c) AS n`
	return loadCounts(ctx, r.runner, query, ids)
}

func loadCounts(ctx context.Context, runner Runner, query string, ids []string) (map[string]int, error) {
	out := make(map[string]int, len(ids))
	for _, id := range ids {
		out[id] = 0
	}
	if len(ids) == 0 {
		return out, nil
	}

	result, err := runner.Run(ctx, query, map[string]any{"ids": ids})
	if err != nil {
		return nil, err
	}
	for _, rec := range result.Records {
		out[asString(get(rec, "id"))] = asInt(get(rec, "n"))
	}
	return out, nil
}

// assignFirst applies the first decoded content row, or reports ErrNotFound
func assignFirst(result *neo4j.EagerResult, apply func(entities.ActionableContent)) error {
	items := contentRecords(result)
	if len(items) == 0 {
		return domainerrors.ErrNotFound
	}
	apply(items[0])
	return nil
}

func tickerList(tickers []string) []string {
	if tickers == nil {
		return []string{}
	}
	return tickers
}
