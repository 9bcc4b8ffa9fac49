package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsValidSlug reports whether s is a lowercase, hyphen separated URL-safe identifier.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Slugify derives a slug from a display name.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Category, Destination and Tag are the lookup dimensions joined against tours.
// TourCount is derived at query time from non-inactive tours and never stored.
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Image       string    `json:"image,omitempty"`
	TourCount   int64     `json:"tour_count" gorm:"->;-:migration"`
	CreatedAt   time.Time `json:"created_at"`
}

type Destination struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Image       string    `json:"image,omitempty"`
	TourCount   int64     `json:"tour_count" gorm:"->;-:migration"`
	CreatedAt   time.Time `json:"created_at"`
}

type Tag struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Image       string    `json:"image,omitempty"`
	TourCount   int64     `json:"tour_count" gorm:"->;-:migration"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	c.ID, c.Slug = ensureIdentity(c.ID, c.Slug, c.Name)
	return nil
}

func (d *Destination) BeforeCreate(tx *gorm.DB) error {
	d.ID, d.Slug = ensureIdentity(d.ID, d.Slug, d.Name)
	return nil
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	t.ID, t.Slug = ensureIdentity(t.ID, t.Slug, t.Name)
	return nil
}

func ensureIdentity(id, slug, name string) (string, string) {
	if id == "" {
		id = uuid.NewString()
	}
	if slug == "" {
		slug = Slugify(name)
	}
	return id, slug
}
