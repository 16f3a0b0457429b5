package graph

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/volatiletech/null/v8"
	"ideagraph.backend/internal/domain/entities"
)

// alive is the soft-delete predicate every content read and write applies.
func alive(v string) string {
	return v + ".deleted_at IS NULL"
}

// page renders SKIP/LIMIT. A non-positive limit means no limit.
func page(limit, offset int) string {
	out := ""
	if offset > 0 {
		out += fmt.Sprintf(" SKIP %d", offset)
	}
	if limit > 0 {
		out += fmt.Sprintf(" LIMIT %d", limit)
	}
	return out
}

func get(rec *neo4j.Record, key string) any {
	v, _ := rec.Get(key)
	return v
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	}
	return 0
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case neo4j.LocalDateTime:
		return t.Time().UTC()
	}
	return time.Time{}
}

func asUUID(v any) uuid.UUID {
	id, err := uuid.Parse(asString(v))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func asStrings(v any) []string {
	out := []string{}
	switch list := v.(type) {
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, list...)
	}
	return out
}

func nullableTime(t null.Time) any {
	if !t.Valid {
		return nil
	}
	return t.Time.UTC()
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

// toContent decodes a `c {.*}` map projection
func toContent(props map[string]any) entities.ActionableContent {
	if asString(props["kind"]) == string(entities.ContentKindPost) {
		return &entities.Post{
			ID:         asString(props["id"]),
			AuthorID:   asUUID(props["author_id"]),
			Title:      asString(props["title"]),
			Summary:    asString(props["summary"]),
			Content:    asString(props["body"]),
			CoverImage: asString(props["cover_image"]),
			Status:     entities.PostStatus(asString(props["status"])),
			Format:     entities.PostFormat(asString(props["format"])),
			CreatedAt:  asTime(props["created_at"]),
			UpdatedAt:  asTime(props["updated_at"]),
		}
	}
	return toIdea(props)
}

func toIdea(props map[string]any) *entities.Idea {
	idea := &entities.Idea{
		ID:        asString(props["id"]),
		AuthorID:  asUUID(props["author_id"]),
		Message:   asString(props["message"]),
		Sentiment: entities.Sentiment(asString(props["sentiment"])),
		Tickers:   asStrings(props["tickers"]),
		CreatedAt: asTime(props["created_at"]),
		UpdatedAt: asTime(props["updated_at"]),
	}
	if replyTo := asString(props["reply_to"]); replyTo != "" {
		idea.ReplyTo = null.StringFrom(replyTo)
	}
	return idea
}

func contentRecords(result *neo4j.EagerResult) []entities.ActionableContent {
	items := make([]entities.ActionableContent, 0, len(result.Records))
	for _, rec := range result.Records {
		if props, ok := get(rec, "content").(map[string]any); ok {
			items = append(items, toContent(props))
		}
	}
	return items
}
