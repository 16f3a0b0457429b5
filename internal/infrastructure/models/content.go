package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Content stores posts and ideas in one table discriminated by Kind.
type Content struct {
	ID         string    `gorm:"type:varchar(27);primaryKey"`
	Kind       string    `gorm:"type:varchar(8);not null;index"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Title      string    `gorm:"type:varchar(65)"`
	Summary    string    `gorm:"type:varchar(100)"`
	Body       string    `gorm:"type:text"`
	CoverImage string    `gorm:"type:text"`
	Status     string    `gorm:"type:varchar(16)"`
	Format     string    `gorm:"type:varchar(16)"`
	Message    string    `gorm:"type:varchar(325)"`
	Sentiment  string    `gorm:"type:varchar(16)"`
	Tickers    string    `gorm:"type:text"`
	ReplyTo    *string   `gorm:"type:varchar(27);index"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Content) TableName() string {
	return "contents"
}

type Reaction struct {
	ProfileID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ContentID string    `gorm:"type:varchar(27);primaryKey;index"`
	Kind      string    `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time
}

type Follow struct {
	FollowerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	FolloweeID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt  time.Time
}

type Report struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReporterID uuid.UUID `gorm:"type:uuid;not null;index"`
	ContentID  string    `gorm:"type:varchar(27);not null;index"`
	Reason     string    `gorm:"type:varchar(500);not null"`
	CreatedAt  time.Time
}
