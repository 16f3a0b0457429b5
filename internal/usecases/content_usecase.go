package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"golang.org/x/sync/errgroup"
	"ideagraph.backend/internal/domain/entities"
	domainerrors "ideagraph.backend/internal/domain/errors"
	"ideagraph.backend/internal/domain/repositories"
	"ideagraph.backend/internal/loaders"
	"ideagraph.backend/pkg/utils"
)

var newContentID = utils.NewContentID

// ContentUsecase handles posts, ideas, replies, reactions and reports
type ContentUsecase struct {
	contentRepo  repositories.ContentRepository
	reactionRepo repositories.ReactionRepository
	reportRepo   repositories.ReportRepository
	publisher    ActivityPublisher
	loaders      *loaders.Factory
}

// NewContentUsecase creates a new content usecase
func NewContentUsecase(
	contentRepo repositories.ContentRepository,
	reactionRepo repositories.ReactionRepository,
	reportRepo repositories.ReportRepository,
	publisher ActivityPublisher,
	loaderFactory *loaders.Factory,
) *ContentUsecase {
	return &ContentUsecase{
		contentRepo:  contentRepo,
		reactionRepo: reactionRepo,
		reportRepo:   reportRepo,
		publisher:    publisher,
		loaders:      loaderFactory,
	}
}

func normalizePostInput(input *entities.PostInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Summary = strings.TrimSpace(input.Summary)
	input.Content = strings.TrimSpace(input.Content)
	input.CoverImage = strings.TrimSpace(input.CoverImage)
	if input.Status == "" {
		input.Status = entities.PostStatusDraft
	}
	if input.Format == "" {
		input.Format = entities.PostFormatMarkdown
	}
	return validateStruct(input)
}

func normalizeIdeaInput(input *entities.IdeaInput) error {
	input.Message = strings.TrimSpace(input.Message)
	input.ReplyTo = strings.TrimSpace(input.ReplyTo)
	input.Tickers = normalizeSymbols(input.Tickers)
	if input.Sentiment == "" {
		input.Sentiment = entities.SentimentNeutral
	}
	return validateStruct(input)
}

// CreatePost publishes or drafts a post authored by actor
func (u *ContentUsecase) CreatePost(ctx context.Context, actor uuid.UUID, input *entities.PostInput) (*entities.ContentView, error) {
	if err := normalizePostInput(input); err != nil {
		return nil, err
	}
	post := &entities.Post{
		ID:         newContentID(),
		AuthorID:   actor,
		Title:      input.Title,
		Summary:    input.Summary,
		Content:    input.Content,
		CoverImage: input.CoverImage,
		Status:     input.Status,
		Format:     input.Format,
	}
	if err := u.contentRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return u.view(ctx, actor, post)
}

// UpdatePost edits a live post owned by actor
func (u *ContentUsecase) UpdatePost(ctx context.Context, actor uuid.UUID, id string, input *entities.PostInput) (*entities.ContentView, error) {
	if err := normalizePostInput(input); err != nil {
		return nil, err
	}
	post := &entities.Post{
		ID:         id,
		AuthorID:   actor,
		Title:      input.Title,
		Summary:    input.Summary,
		Content:    input.Content,
		CoverImage: input.CoverImage,
		Status:     input.Status,
		Format:     input.Format,
	}
	if err := u.contentRepo.UpdatePost(ctx, actor, post); err != nil {
		return nil, err
	}
	return u.GetContent(ctx, actor, id)
}

// DeletePost soft-deletes a post owned by actor
func (u *ContentUsecase) DeletePost(ctx context.Context, actor uuid.UUID, id string) error {
	return u.contentRepo.SoftDelete(ctx, actor, entities.ContentKindPost, id)
}

// CreateIdea posts an idea, or a reply when ReplyTo names live content
func (u *ContentUsecase) CreateIdea(ctx context.Context, actor uuid.UUID, input *entities.IdeaInput) (*entities.ContentView, error) {
	if err := normalizeIdeaInput(input); err != nil {
		return nil, err
	}
	idea := &entities.Idea{
		ID:        newContentID(),
		AuthorID:  actor,
		Message:   input.Message,
		Sentiment: input.Sentiment,
		Tickers:   input.Tickers,
	}
	if input.ReplyTo != "" {
		idea.ReplyTo = null.StringFrom(input.ReplyTo)
	}
	if err := u.contentRepo.CreateIdea(ctx, idea); err != nil {
		return nil, err
	}
	return u.view(ctx, actor, idea)
}

// UpdateIdea edits a live idea owned by actor. The reply target cannot change.
func (u *ContentUsecase) UpdateIdea(ctx context.Context, actor uuid.UUID, id string, input *entities.IdeaInput) (*entities.ContentView, error) {
	if err := normalizeIdeaInput(input); err != nil {
		return nil, err
	}
	idea := &entities.Idea{
		ID:        id,
		AuthorID:  actor,
		Message:   input.Message,
		Sentiment: input.Sentiment,
		Tickers:   input.Tickers,
	}
	if err := u.contentRepo.UpdateIdea(ctx, actor, idea); err != nil {
		return nil, err
	}
	return u.GetContent(ctx, actor, id)
}

// DeleteIdea soft-deletes an idea owned by actor
func (u *ContentUsecase) DeleteIdea(ctx context.Context, actor uuid.UUID, id string) error {
	return u.contentRepo.SoftDelete(ctx, actor, entities.ContentKindIdea, id)
}

// CreateReaction sets actor's reaction on live content, replacing any previous one
func (u *ContentUsecase) CreateReaction(ctx context.Context, actor uuid.UUID, contentID string, input *entities.ReactionInput) (*entities.Reaction, error) {
	input.Kind = entities.ReactionKind(strings.ToUpper(strings.TrimSpace(string(input.Kind))))
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	reaction := &entities.Reaction{ProfileID: actor, ContentID: contentID, Kind: input.Kind}
	if err := u.reactionRepo.Create(ctx, reaction); err != nil {
		return nil, err
	}
	u.publisher.Publish(ctx, entities.ActivityEvent{
		Type:       entities.ActivityReaction,
		ActorID:    actor,
		TargetID:   contentID,
		Detail:     string(reaction.Kind),
		OccurredAt: reaction.CreatedAt,
	})
	return reaction, nil
}

// DeleteReaction removes actor's reaction
func (u *ContentUsecase) DeleteReaction(ctx context.Context, actor uuid.UUID, contentID string) error {
	if err := u.reactionRepo.Delete(ctx, actor, contentID); err != nil {
		return err
	}
	u.publisher.Publish(ctx, entities.ActivityEvent{
		Type:       entities.ActivityUnreact,
		ActorID:    actor,
		TargetID:   contentID,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// ReportContent files a moderation report against live content
func (u *ContentUsecase) ReportContent(ctx context.Context, actor uuid.UUID, contentID string, input *entities.ReportInput) (*entities.Report, error) {
	input.Reason = strings.TrimSpace(input.Reason)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	report := &entities.Report{ReporterID: actor, ContentID: contentID, Reason: input.Reason}
	if err := u.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	u.publisher.Publish(ctx, entities.ActivityEvent{
		Type:       entities.ActivityReport,
		ActorID:    actor,
		TargetID:   contentID,
		OccurredAt: report.CreatedAt,
	})
	return report, nil
}

// GetContent returns one live post or idea
func (u *ContentUsecase) GetContent(ctx context.Context, viewer uuid.UUID, id string) (*entities.ContentView, error) {
	item, err := u.contentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.view(ctx, viewer, item)
}

// ByAuthor lists an author's live content, optionally narrowed to one kind
func (u *ContentUsecase) ByAuthor(ctx context.Context, viewer, author uuid.UUID, kind entities.ContentKind, limit, offset int) ([]*entities.ContentView, error) {
	switch kind {
	case "", entities.ContentKindPost, entities.ContentKindIdea:
	default:
		return nil, domainerrors.Validation("kind")
	}
	items, err := u.contentRepo.FindByAuthor(ctx, author, kind, limit, offset)
	if err != nil {
		return nil, err
	}
	return u.views(ctx, viewer, items)
}

// Replies lists live replies to a piece of content
func (u *ContentUsecase) Replies(ctx context.Context, viewer uuid.UUID, parentID string, limit, offset int) ([]*entities.ContentView, error) {
	replies, err := u.contentRepo.FindReplies(ctx, parentID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]entities.ActionableContent, len(replies))
	for i, r := range replies {
		items[i] = r
	}
	return u.views(ctx, viewer, items)
}

// Reactions lists reactions on live content
func (u *ContentUsecase) Reactions(ctx context.Context, contentID string, limit, offset int) ([]*entities.Reaction, error) {
	return u.reactionRepo.ListByContent(ctx, contentID, limit, offset)
}

func (u *ContentUsecase) view(ctx context.Context, viewer uuid.UUID, item entities.ActionableContent) (*entities.ContentView, error) {
	return contentView(ctx, u.loaders.For(ctx, viewer), item)
}

func (u *ContentUsecase) views(ctx context.Context, viewer uuid.UUID, items []entities.ActionableContent) ([]*entities.ContentView, error) {
	l := u.loaders.For(ctx, viewer)
	out := make([]*entities.ContentView, len(items))

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		g.Go(func() (err error) {
			out[i], err = contentView(gctx, l, item)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// contentView fills author, counts and the viewer's reaction through the loaders
func contentView(ctx context.Context, l *loaders.Loaders, item entities.ActionableContent) (*entities.ContentView, error) {
	view := entities.NewContentView(item)
	id := item.ContentID()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.Author, err = l.Profile.Load(gctx, item.Author())
		return err
	})
	g.Go(func() (err error) {
		view.ReactionCount, err = l.ReactionCount.Load(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		view.ReplyCount, err = l.ReplyCount.Load(gctx, id)
		return err
	})
	g.Go(func() error {
		reaction, err := l.ViewerReaction.Load(gctx, id)
		if err != nil {
			return err
		}
		if reaction != nil {
			kind := reaction.Kind
			view.ViewerReaction = &kind
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}
