package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"ideagraph.backend/internal/domain/entities"
	domainerrors "ideagraph.backend/internal/domain/errors"
	"ideagraph.backend/internal/infrastructure/models"
)

// ReactionRepository implements reaction edges on the relational database
type ReactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Create upserts the actor's reaction on the content in one statement, so a
// repeat or concurrent reaction replaces the kind instead of adding a row. The
// write only happens while the content is alive.
func (r *ReactionRepository) Create(ctx context.Context, reaction *entities.Reaction) error {
	reaction.CreatedAt = time.Now().UTC()
	result := GetDB(ctx, r.db).Exec(
		`INSERT INTO reactions (profile_id, content_id, kind, created_at)
		SELECT ?, c.id, ?, ? FROM contents c WHERE c.id = ? AND `+aliveContent("c")+`
		ON CONFLICT (profile_id, content_id) DO UPDATE SET kind = EXCLUDED.kind, created_at = EXCLUDED.created_at`,
		reaction.ProfileID, string(reaction.Kind), reaction.CreatedAt, reaction.ContentID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Delete removes the actor's reaction on the content
func (r *ReactionRepository) Delete(ctx context.Context, actor uuid.UUID, contentID string) error {
	result := GetDB(ctx, r.db).Where("profile_id = ? AND content_id = ?", actor, contentID).Delete(&models.Reaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListByContent lists reactions on live content, newest first
func (r *ReactionRepository) ListByContent(ctx context.Context, contentID string, limit, offset int) ([]*entities.Reaction, error) {
	var rows []models.Reaction
	err := GetDB(ctx, r.db).
		Joins("JOIN contents c ON c.id = reactions.content_id AND "+aliveContent("c")).
		Where("reactions.content_id = ?", contentID).
		Order("reactions.created_at DESC").
		Scopes(paginate(limit, offset)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]*entities.Reaction, 0, len(rows))
	for i := range rows {
		items = append(items, toReactionEntity(&rows[i]))
	}
	return items, nil
}

// LoadCounts counts reactions per live content id. Missing ids map to 0.
func (r *ReactionRepository) LoadCounts(ctx context.Context, ids []string) (map[string]int, error) {
	out := make(map[string]int, len(ids))
	for _, id := range ids {
		out[id] = 0
	}
	if len(ids) == 0 {
		return out, nil
	}

	var rows []countRow
	err := GetDB(ctx, r.db).Model(&models.Reaction{}).
		Joins("JOIN contents c ON c.id = reactions.content_id AND "+aliveContent("c")).
		Select("reactions.content_id AS ref_id, COUNT(*) AS n").
		Where("reactions.content_id IN ?", ids).
		Group("reactions.content_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.RefID] = row.N
	}
	return out, nil
}

// LoadStatuses returns the actor's reaction per content id. Ids without one are absent.
func (r *ReactionRepository) LoadStatuses(ctx context.Context, actor uuid.UUID, ids []string) (map[string]*entities.Reaction, error) {
	out := make(map[string]*entities.Reaction, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []models.Reaction
	err := GetDB(ctx, r.db).
		Joins("JOIN contents c ON c.id = reactions.content_id AND "+aliveContent("c")).
		Where("reactions.profile_id = ? AND reactions.content_id IN ?", actor, ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ContentID] = toReactionEntity(&rows[i])
	}
	return out, nil
}

func toReactionEntity(m *models.Reaction) *entities.Reaction {
	return &entities.Reaction{
		ProfileID: m.ProfileID,
		ContentID: m.ContentID,
		Kind:      entities.ReactionKind(m.Kind),
		CreatedAt: m.CreatedAt,
	}
}

// FollowRepository implements follow edges on the relational database
type FollowRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Follow creates the edge if the followee is active. Following twice is a no-op.
func (r *FollowRepository) Follow(ctx context.Context, follow *entities.Follow) error {
	follow.CreatedAt = time.Now().UTC()
	db := GetDB(ctx, r.db)
	result := db.Exec(
		`INSERT INTO follows (follower_id, followee_id, created_at)
		SELECT ?, p.id, ? FROM profiles p WHERE p.id = ? AND p.deactivated_at IS NULL
		ON CONFLICT DO NOTHING`,
		follow.FollowerID, follow.CreatedAt, follow.FolloweeID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var existing models.Follow
	err := db.Where("follower_id = ? AND followee_id = ?", follow.FollowerID, follow.FolloweeID).
		Limit(1).Find(&existing).Error
	if err != nil {
		return err
	}
	if existing.FollowerID == uuid.Nil {
		return domainerrors.ErrNotFound
	}
	follow.CreatedAt = existing.CreatedAt
	return nil
}

// Unfollow removes the edge
func (r *FollowRepository) Unfollow(ctx context.Context, follower, followee uuid.UUID) error {
	result := GetDB(ctx, r.db).Where("follower_id = ? AND followee_id = ?", follower, followee).Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListFollowers lists edges pointing at profileID, newest first
func (r *FollowRepository) ListFollowers(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]*entities.Follow, error) {
	return r.list(ctx, "followee_id = ?", profileID, limit, offset)
}

// ListFollowing lists edges leaving profileID, newest first
func (r *FollowRepository) ListFollowing(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]*entities.Follow, error) {
	return r.list(ctx, "follower_id = ?", profileID, limit, offset)
}

func (r *FollowRepository) list(ctx context.Context, cond string, profileID uuid.UUID, limit, offset int) ([]*entities.Follow, error) {
	var rows []models.Follow
	if err := GetDB(ctx, r.db).Where(cond, profileID).Order("created_at DESC").Scopes(paginate(limit, offset)).Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]*entities.Follow, 0, len(rows))
	for i := range rows {
		items = append(items, toFollowEntity(&rows[i]))
	}
	return items, nil
}

// LoadFollowingStatuses returns the actor's follow edge per followee id
func (r *FollowRepository) LoadFollowingStatuses(ctx context.Context, actor uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*entities.Follow, error) {
	out := make(map[uuid.UUID]*entities.Follow, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []models.Follow
	if err := GetDB(ctx, r.db).Where("follower_id = ? AND followee_id IN ?", actor, ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].FolloweeID] = toFollowEntity(&rows[i])
	}
	return out, nil
}

// LoadFollowerCounts counts followers per profile id. Missing ids map to 0.
func (r *FollowRepository) LoadFollowerCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(ids))
	for _, id := range ids {
		out[id] = 0
	}
	if len(ids) == 0 {
		return out, nil
	}

	var rows []countRow
	err := GetDB(ctx, r.db).Model(&models.Follow{}).
		Select("followee_id AS ref_id, COUNT(*) AS n").
		Where("followee_id IN ?", ids).
		Group("followee_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		id, err := uuid.Parse(row.RefID)
		if err != nil {
			continue
		}
		out[id] = row.N
	}
	return out, nil
}

func toFollowEntity(m *models.Follow) *entities.Follow {
	return &entities.Follow{
		FollowerID: m.FollowerID,
		FolloweeID: m.FolloweeID,
		CreatedAt:  m.CreatedAt,
	}
}

// ReportRepository implements content reports on the relational database
type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create files a report against live content
func (r *ReportRepository) Create(ctx context.Context, report *entities.Report) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.CreatedAt = time.Now().UTC()
	result := GetDB(ctx, r.db).Exec(
		`INSERT INTO reports (id, reporter_id, content_id, reason, created_at)
		SELECT ?, ?, c.id, ?, ? FROM contents c WHERE c.id = ? AND `+aliveContent("c"),
		report.ID, report.ReporterID, report.Reason, report.CreatedAt, report.ContentID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
