package models

import "time"

// Group represents a review group.
type Group struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	OwnerID     int       `db:"owner_id" json:"owner_id"`
	OwnerName   string    `db:"owner_name" json:"owner_name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// GroupMedia is a media item on a group's shared list.
type GroupMedia struct {
	ID         int    `db:"id" json:"id"`
	GroupID    int    `db:"group_id" json:"group_id"`
	AddedByID  int    `db:"added_by_id" json:"added_by_id"`
	ExternalID *int   `db:"bangumi_id" json:"bangumi_id"`
	Title      string `db:"title" json:"title"`
	MediaType  int    `db:"media_type" json:"media_type"`
	Image      string `db:"image" json:"image"`
	Summary    string `db:"summary" json:"summary"`
}

// GroupReview is a review left on group media. Username is a snapshot
// taken when the review was written.
type GroupReview struct {
	ID        int       `db:"id" json:"id"`
	Text      string    `db:"text" json:"text"`
	Rating    float64   `db:"rating" json:"rating"`
	UserID    int       `db:"user_id" json:"user_id"`
	MediaID   int       `db:"media_id" json:"media_id"`
	Username  string    `db:"username" json:"username"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// GroupEvent is emitted to websocket clients and the broker for groups.
type GroupEvent struct {
	Type       string       `json:"type"`
	GroupID    int          `json:"group_id"`
	ActorID    int          `json:"actor_id,omitempty"`
	UserID     int          `json:"user_id,omitempty"`
	Media      *GroupMedia  `json:"media,omitempty"`
	Review     *GroupReview `json:"review,omitempty"`
	Discussion *Discussion  `json:"discussion,omitempty"`
	Comment    *Comment     `json:"comment,omitempty"`
	MediaID    int          `json:"media_id,omitempty"`
	ReviewID   int          `json:"review_id,omitempty"`
	Synced     []GroupMedia `json:"synced,omitempty"`
}

// Group event types.
const (
	EventMemberAdded       = "member_added"
	EventMemberRemoved     = "member_removed"
	EventMediaAdded        = "media_added"
	EventMediaDeleted      = "media_deleted"
	EventReviewAdded       = "review_added"
	EventReviewUpdated     = "review_updated"
	EventReviewDeleted     = "review_deleted"
	EventDiscussionCreated = "discussion_created"
	EventDiscussionDeleted = "discussion_deleted"
	EventCommentAdded      = "comment_added"
	EventGroupDeleted      = "group_deleted"
)
