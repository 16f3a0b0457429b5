package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ContentKind discriminates actionable content
type ContentKind string

const (
	ContentKindPost ContentKind = "POST"
	ContentKindIdea ContentKind = "IDEA"
)

// PostStatus represents the publication state of a post
type PostStatus string

const (
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusPublished PostStatus = "PUBLISHED"
)

// PostFormat represents the body markup of a post
type PostFormat string

const (
	PostFormatMarkdown PostFormat = "MARKDOWN"
	PostFormatHTML     PostFormat = "HTML"
)

// Sentiment represents the market outlook of an idea
type Sentiment string

const (
	SentimentBullish Sentiment = "BULLISH"
	SentimentBearish Sentiment = "BEARISH"
	SentimentNeutral Sentiment = "NEUTRAL"
)

// ActionableContent is anything that can be reacted to, replied to or reported.
type ActionableContent interface {
	ContentID() string
	Author() uuid.UUID
	Kind() ContentKind
	Created() time.Time
}

// Post is long-form content
type Post struct {
	ID         string     `json:"id"`
	AuthorID   uuid.UUID  `json:"authorId"`
	Title      string     `json:"title"`
	Summary    string     `json:"summary"`
	Content    string     `json:"content"`
	CoverImage string     `json:"coverImage"`
	Status     PostStatus `json:"status"`
	Format     PostFormat `json:"format"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (p *Post) ContentID() string { return p.ID }
func (p *Post) Author() uuid.UUID { return p.AuthorID }
func (p *Post) Kind() ContentKind { return ContentKindPost }
func (p *Post) Created() time.Time { return p.CreatedAt }

// Idea is a short message about one or more tickers. An idea with ReplyTo set is a reply.
type Idea struct {
	ID        string      `json:"id"`
	AuthorID  uuid.UUID   `json:"authorId"`
	Message   string      `json:"message"`
	Sentiment Sentiment   `json:"sentiment"`
	Tickers   []string    `json:"tickers"`
	ReplyTo   null.String `json:"replyTo"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func (i *Idea) ContentID() string { return i.ID }
func (i *Idea) Author() uuid.UUID { return i.AuthorID }
func (i *Idea) Kind() ContentKind { return ContentKindIdea }
func (i *Idea) Created() time.Time { return i.CreatedAt }

// PostInput holds editable post fields
type PostInput struct {
	Title      string     `json:"title" validate:"min=10,max=65"`
	Summary    string     `json:"summary" validate:"max=100"`
	Content    string     `json:"content" validate:"min=1000"`
	CoverImage string     `json:"coverImage" validate:"omitempty,url"`
	Status     PostStatus `json:"status" validate:"oneof=DRAFT PUBLISHED"`
	Format     PostFormat `json:"format" validate:"oneof=MARKDOWN HTML"`
}

// IdeaInput holds editable idea fields
type IdeaInput struct {
	Message   string    `json:"message" validate:"min=10,max=325"`
	Sentiment Sentiment `json:"sentiment" validate:"oneof=BULLISH BEARISH NEUTRAL"`
	Tickers   []string  `json:"tickers" validate:"max=10,dive,min=1,max=12"`
	ReplyTo   string    `json:"replyTo"`
}

// ContentView is content enriched with its author and viewer-dependent fields
type ContentView struct {
	Kind           ContentKind   `json:"kind"`
	Post           *Post         `json:"post,omitempty"`
	Idea           *Idea         `json:"idea,omitempty"`
	Author         *Profile      `json:"author"`
	ReactionCount  int           `json:"reactionCount"`
	ReplyCount     int           `json:"replyCount"`
	ViewerReaction *ReactionKind `json:"viewerReaction"`
}

// NewContentView wraps content without enrichment
func NewContentView(c ActionableContent) *ContentView {
	v := &ContentView{Kind: c.Kind()}
	switch item := c.(type) {
	case *Post:
		v.Post = item
	case *Idea:
		v.Idea = item
	}
	return v
}
