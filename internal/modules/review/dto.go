package review

import "tourbooking/internal/domain"

// SubmitReviewRequest is the public review form. Status and vote counters are
// accepted for compatibility with older clients but never honoured.
type SubmitReviewRequest struct {
	TourID       string `json:"tour_id" validate:"required"`
	AuthorName   string `json:"author_name" validate:"required,max=120"`
	AuthorEmail  string `json:"author_email" validate:"omitempty,email"`
	AuthorAvatar string `json:"author_avatar" validate:"omitempty,url"`
	Rating       int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title        string `json:"title" validate:"max=200"`
	Comment      string `json:"comment" validate:"required,max=5000"`

	Status         string `json:"status,omitempty"`
	HelpfulVotes   int    `json:"helpful_votes,omitempty"`
	UnhelpfulVotes int    `json:"unhelpful_votes,omitempty"`
}

type VoteRequest struct {
	Helpful *bool `json:"helpful" validate:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type ReviewList struct {
	Items  []domain.Review `json:"items"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
