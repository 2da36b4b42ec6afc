package models

import "time"

// Discussion is a thread about a group media item.
type Discussion struct {
	ID        int       `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	UserID    int       `db:"user_id" json:"user_id"`
	GroupID   int       `db:"group_id" json:"group_id"`
	MediaID   int       `db:"media_id" json:"media_id"`
	Username  string    `db:"username" json:"username"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Comment is a reply in a discussion.
type Comment struct {
	ID           int       `db:"id" json:"id"`
	Content      string    `db:"content" json:"content"`
	UserID       int       `db:"user_id" json:"user_id"`
	DiscussionID int       `db:"discussion_id" json:"discussion_id"`
	Username     string    `db:"username" json:"username"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// DiscussionWithComments is the detail view of a discussion.
type DiscussionWithComments struct {
	Discussion
	Comments []Comment `json:"comments"`
}
