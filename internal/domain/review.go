package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) CanTransition(next ReviewStatus) bool {
	return s == ReviewPending && (next == ReviewApproved || next == ReviewRejected)
}

// RoundRating rounds an average rating to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

type Review struct {
	ID             string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TourID         string       `json:"tour_id" gorm:"type:varchar(36);not null;index"`
	AuthorName     string       `json:"author_name"`
	AuthorEmail    string       `json:"-"`
	AuthorAvatar   string       `json:"author_avatar,omitempty"`
	Rating         int          `json:"rating"`
	Title          string       `json:"title,omitempty"`
	Comment        string       `json:"comment" gorm:"type:text"`
	Date           time.Time    `json:"date" gorm:"index"`
	Status         ReviewStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	HelpfulVotes   int          `json:"helpful_votes" gorm:"not null;default:0"`
	UnhelpfulVotes int          `json:"unhelpful_votes" gorm:"not null;default:0"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
