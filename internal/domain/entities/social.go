package entities

import (
	"time"

	"github.com/google/uuid"
)

// ReactionKind represents the kind of a reaction edge
type ReactionKind string

const (
	ReactionLike    ReactionKind = "LIKE"
	ReactionDislike ReactionKind = "DISLIKE"
	ReactionLove    ReactionKind = "LOVE"
	ReactionHate    ReactionKind = "HATE"
)

// Valid reports whether k is a known reaction kind
func (k ReactionKind) Valid() bool {
	switch k {
	case ReactionLike, ReactionDislike, ReactionLove, ReactionHate:
		return true
	}
	return false
}

// Reaction links a profile to a piece of content. At most one exists per pair.
type Reaction struct {
	ProfileID uuid.UUID    `json:"profileId"`
	ContentID string       `json:"contentId"`
	Kind      ReactionKind `json:"kind"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Follow links a follower profile to a followee profile
type Follow struct {
	FollowerID uuid.UUID `json:"followerId"`
	FolloweeID uuid.UUID `json:"followeeId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Report flags content for moderation
type Report struct {
	ID         uuid.UUID `json:"id"`
	ReporterID uuid.UUID `json:"reporterId"`
	ContentID  string    `json:"contentId"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReactionInput represents input for creating a reaction
type ReactionInput struct {
	Kind ReactionKind `json:"kind" validate:"oneof=LIKE DISLIKE LOVE HATE"`
}

// ReportInput represents input for reporting content
type ReportInput struct {
	Reason string `json:"reason" validate:"min=5,max=500"`
}

// ActivityType names a social mutation announced to other services
type ActivityType string

const (
	ActivityFollow   ActivityType = "follow"
	ActivityUnfollow ActivityType = "unfollow"
	ActivityReaction ActivityType = "reaction"
	ActivityUnreact  ActivityType = "unreact"
	ActivityReport   ActivityType = "report"
)

// ActivityEvent is published after a follow, reaction or report mutation commits
type ActivityEvent struct {
	Type       ActivityType `json:"type"`
	ActorID    uuid.UUID    `json:"actorId"`
	TargetID   string       `json:"targetId"`
	Detail     string       `json:"detail,omitempty"`
	OccurredAt time.Time    `json:"occurredAt"`
}
