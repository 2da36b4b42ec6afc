package models

import "time"

// Media types carried over from the external catalog.
const (
	MediaTypeBook  = 1
	MediaTypeAnime = 2
	MediaTypeMusic = 3
	MediaTypeGame  = 4
	MediaTypeReal  = 6
)

// MediaInput is already-resolved media metadata supplied by a caller.
// ExternalID is nil for manually entered media.
type MediaInput struct {
	ExternalID *int   `json:"bangumi_id"`
	Title      string `json:"title" binding:"required"`
	MediaType  int    `json:"media_type"`
	Image      string `json:"image"`
	Summary    string `json:"summary"`
}

// UserMedia is an entry in a user's personal catalog.
type UserMedia struct {
	ID         int    `db:"id" json:"id"`
	UserID     int    `db:"user_id" json:"user_id"`
	ExternalID *int   `db:"bangumi_id" json:"bangumi_id"`
	Title      string `db:"title" json:"title"`
	MediaType  int    `db:"media_type" json:"media_type"`
	Image      string `db:"image" json:"image"`
	Summary    string `db:"summary" json:"summary"`
}

// Input returns the metadata of the entry, used when copying it elsewhere.
func (m UserMedia) Input() MediaInput {
	return MediaInput{
		ExternalID: m.ExternalID,
		Title:      m.Title,
		MediaType:  m.MediaType,
		Image:      m.Image,
		Summary:    m.Summary,
	}
}

// Review is a personal review of a catalog entry.
type Review struct {
	ID        int       `db:"id" json:"id"`
	Text      string    `db:"text" json:"text"`
	Rating    float64   `db:"rating" json:"rating"`
	UserID    int       `db:"user_id" json:"user_id"`
	MediaID   int       `db:"media_id" json:"media_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ReviewPatch holds optional review fields; nil leaves the stored value.
type ReviewPatch struct {
	Text   *string  `json:"text"`
	Rating *float64 `json:"rating" binding:"omitempty,gte=0,lte=10"`
}
