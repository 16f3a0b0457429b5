package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"ideagraph.backend/internal/domain/entities"
	domainerrors "ideagraph.backend/internal/domain/errors"
	"ideagraph.backend/internal/infrastructure/models"
)

// aliveContent is the soft-delete predicate for raw statements. Model-based
// queries on models.Content get it from gorm.DeletedAt.
func aliveContent(alias string) string {
	return alias + ".deleted_at IS NULL"
}

func paginate(limit, offset int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if offset > 0 {
			db = db.Offset(offset)
		}
		if limit > 0 {
			db = db.Limit(limit)
		}
		return db
	}
}

type countRow struct {
	RefID string
	N     int
}

// ContentRepository implements post and idea storage on the relational database
type ContentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// CreatePost inserts a post
func (r *ContentRepository) CreatePost(ctx context.Context, post *entities.Post) error {
	now := time.Now().UTC()
	post.CreatedAt, post.UpdatedAt = now, now
	return GetDB(ctx, r.db).Create(fromPost(post)).Error
}

// CreateIdea inserts an idea. A reply is only inserted while its parent is alive.
func (r *ContentRepository) CreateIdea(ctx context.Context, idea *entities.Idea) error {
	now := time.Now().UTC()
	idea.CreatedAt, idea.UpdatedAt = now, now
	m := fromIdea(idea)

	if !idea.ReplyTo.Valid {
		return GetDB(ctx, r.db).Create(m).Error
	}

	result := GetDB(ctx, r.db).Exec(
		`INSERT INTO contents (id, kind, author_id, title, summary, body, cover_image, status, format,
			message, sentiment, tickers, reply_to, created_at, updated_at)
		SELECT ?, ?, ?, '', '', '', '', '', '', ?, ?, ?, p.id, ?, ? FROM contents p WHERE p.id = ? AND `+aliveContent("p"),
		m.ID, m.Kind, m.AuthorID, m.Message, m.Sentiment, m.Tickers, m.CreatedAt, m.UpdatedAt, idea.ReplyTo.String,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdatePost updates a post owned by actor
func (r *ContentRepository) UpdatePost(ctx context.Context, actor uuid.UUID, post *entities.Post) error {
	post.UpdatedAt = time.Now().UTC()
	err := r.updateOwned(ctx, actor, entities.ContentKindPost, post.ID, map[string]interface{}{
		"title":       post.Title,
		"summary":     post.Summary,
		"body":        post.Content,
		"cover_image": post.CoverImage,
		"status":      string(post.Status),
		"format":      string(post.Format),
		"updated_at":  post.UpdatedAt,
	})
	if err != nil {
		return err
	}
	return r.reload(ctx, post.ID, func(c entities.ActionableContent) {
		if p, ok := c.(*entities.Post); ok {
			*post = *p
		}
	})
}

// UpdateIdea updates an idea owned by actor. The reply target never changes.
func (r *ContentRepository) UpdateIdea(ctx context.Context, actor uuid.UUID, idea *entities.Idea) error {
	idea.UpdatedAt = time.Now().UTC()
	err := r.updateOwned(ctx, actor, entities.ContentKindIdea, idea.ID, map[string]interface{}{
		"message":    idea.Message,
		"sentiment":  string(idea.Sentiment),
		"tickers":    joinTickers(idea.Tickers),
		"updated_at": idea.UpdatedAt,
	})
	if err != nil {
		return err
	}
	return r.reload(ctx, idea.ID, func(c entities.ActionableContent) {
		if i, ok := c.(*entities.Idea); ok {
			*idea = *i
		}
	})
}

// SoftDelete hides content owned by actor
func (r *ContentRepository) SoftDelete(ctx context.Context, actor uuid.UUID, kind entities.ContentKind, id string) error {
	result := GetDB(ctx, r.db).
		Where("id = ? AND author_id = ? AND kind = ?", id, actor, string(kind)).
		Delete(&models.Content{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// FindByID finds live content of any kind
func (r *ContentRepository) FindByID(ctx context.Context, id string) (entities.ActionableContent, error) {
	var m models.Content
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toContentEntity(&m), nil
}

// FindByAuthor lists live content by author, newest first. An empty kind lists both kinds.
func (r *ContentRepository) FindByAuthor(ctx context.Context, author uuid.UUID, kind entities.ContentKind, limit, offset int) ([]entities.ActionableContent, error) {
	query := GetDB(ctx, r.db).Where("author_id = ?", author)
	if kind != "" {
		query = query.Where("kind = ?", string(kind))
	}

	var rows []models.Content
	if err := query.Order("created_at DESC").Scopes(paginate(limit, offset)).Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.ActionableContent, 0, len(rows))
	for i := range rows {
		items = append(items, toContentEntity(&rows[i]))
	}
	return items, nil
}

// FindReplies lists live replies to live content, newest first
func (r *ContentRepository) FindReplies(ctx context.Context, parentID string, limit, offset int) ([]*entities.Idea, error) {
	var rows []models.Content
	err := GetDB(ctx, r.db).
		Where("reply_to = ? AND kind = ?", parentID, string(entities.ContentKindIdea)).
		Where("EXISTS (SELECT 1 FROM contents p WHERE p.id = contents.reply_to AND "+aliveContent("p")+")").
		Order("created_at DESC").
		Scopes(paginate(limit, offset)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]*entities.Idea, 0, len(rows))
	for i := range rows {
		items = append(items, toIdeaEntity(&rows[i]))
	}
	return items, nil
}

// LoadReplyCounts counts live replies per parent id. Missing ids map to 0.
func (r *ContentRepository) LoadReplyCounts(ctx context.Context, ids []string) (map[string]int, error) {
	out := make(map[string]int, len(ids))
	for _, id := range ids {
		out[id] = 0
	}
	if len(ids) == 0 {
		return out, nil
	}

	var rows []countRow
	err := GetDB(ctx, r.db).Model(&models.Content{}).
		Select("reply_to AS ref_id, COUNT(*) AS n").
		Where("reply_to IN ?", ids).
		Group("reply_to").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.RefID] = row.N
	}
	return out, nil
}

func (r *ContentRepository) updateOwned(ctx context.Context, actor uuid.UUID, kind entities.ContentKind, id string, updates map[string]interface{}) error {
	result := GetDB(ctx, r.db).Model(&models.Content{}).
		Where("id = ? AND author_id = ? AND kind = ?", id, actor, string(kind)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ContentRepository) reload(ctx context.Context, id string, apply func(entities.ActionableContent)) error {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	apply(c)
	return nil
}

func fromPost(p *entities.Post) *models.Content {
	return &models.Content{
		ID:         p.ID,
		Kind:       string(entities.ContentKindPost),
		AuthorID:   p.AuthorID,
		Title:      p.Title,
		Summary:    p.Summary,
		Body:       p.Content,
		CoverImage: p.CoverImage,
		Status:     string(p.Status),
		Format:     string(p.Format),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func fromIdea(i *entities.Idea) *models.Content {
	return &models.Content{
		ID:        i.ID,
		Kind:      string(entities.ContentKindIdea),
		AuthorID:  i.AuthorID,
		Message:   i.Message,
		Sentiment: string(i.Sentiment),
		Tickers:   joinTickers(i.Tickers),
		ReplyTo:   i.ReplyTo.Ptr(),
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func toContentEntity(m *models.Content) entities.ActionableContent {
	if m.Kind == string(entities.ContentKindPost) {
		return &entities.Post{
			ID:         m.ID,
			AuthorID:   m.AuthorID,
			Title:      m.Title,
			Summary:    m.Summary,
			Content:    m.Body,
			CoverImage: m.CoverImage,
			Status:     entities.PostStatus(m.Status),
			Format:     entities.PostFormat(m.Format),
			CreatedAt:  m.CreatedAt,
			UpdatedAt:  m.UpdatedAt,
		}
	}
	return toIdeaEntity(m)
}

func toIdeaEntity(m *models.Content) *entities.Idea {
	return &entities.Idea{
		ID:        m.ID,
		AuthorID:  m.AuthorID,
		Message:   m.Message,
		Sentiment: entities.Sentiment(m.Sentiment),
		Tickers:   splitTickers(m.Tickers),
		ReplyTo:   null.StringFromPtr(m.ReplyTo),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func joinTickers(tickers []string) string {
	return strings.Join(tickers, ",")
}

func splitTickers(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
