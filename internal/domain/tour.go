package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TourStatus string

const (
	TourActive   TourStatus = "active"
	TourInactive TourStatus = "inactive"
)

// MaxTourImages is the number of ordered image slots a tour carries.
const MaxTourImages = 5

var (
	ErrUnknownFeatureIcon = errors.New("unknown feature icon")
	ErrTooManyImages      = errors.New("too many tour images")
)

// FeatureIcon identifies one of the renderable icon variants for a tour feature.
type FeatureIcon string

const (
	IconClock     FeatureIcon = "clock"
	IconUsers     FeatureIcon = "users"
	IconMapPin    FeatureIcon = "map-pin"
	IconCalendar  FeatureIcon = "calendar"
	IconCamera    FeatureIcon = "camera"
	IconUtensils  FeatureIcon = "utensils"
	IconBus       FeatureIcon = "bus"
	IconShip      FeatureIcon = "ship"
	IconSun       FeatureIcon = "sun"
	IconShield    FeatureIcon = "shield"
	IconGlobe     FeatureIcon = "globe"
	IconHeart     FeatureIcon = "heart"
	IconStar      FeatureIcon = "star"
	IconTicket    FeatureIcon = "ticket"
	IconLanguages FeatureIcon = "languages"
)

var featureIcons = map[FeatureIcon]struct{}{
	IconClock:     {},
	IconUsers:     {},
	IconMapPin:    {},
	IconCalendar:  {},
	IconCamera:    {},
	IconUtensils:  {},
	IconBus:       {},
	IconShip:      {},
	IconSun:       {},
	IconShield:    {},
	IconGlobe:     {},
	IconHeart:     {},
	IconStar:      {},
	IconTicket:    {},
	IconLanguages: {},
}

// ParseFeatureIcon normalizes an icon identifier ("MapPin", "map_pin", "map-pin")
// and checks it against the known set.
func ParseFeatureIcon(s string) (FeatureIcon, error) {
	key := normalizeIconKey(s)
	icon := FeatureIcon(key)
	if _, ok := featureIcons[icon]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFeatureIcon, s)
	}
	return icon, nil
}

func normalizeIconKey(s string) string {
	var b strings.Builder
	var prev rune
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == '_' || r == ' ' || r == '-':
			if prev != '-' && b.Len() > 0 {
				b.WriteByte('-')
			}
			r = '-'
		case r >= 'A' && r <= 'Z':
			if prev >= 'a' && prev <= 'z' {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

type Feature struct {
	Icon        FeatureIcon `json:"icon"`
	Label       string      `json:"label"`
	Description string      `json:"description,omitempty"`
}

// Duration fields are independently optional: a 3 day tour has no hours.
type Duration struct {
	Days    *int `json:"days,omitempty"`
	Hours   *int `json:"hours,omitempty"`
	Minutes *int `json:"minutes,omitempty"`
}

type Tour struct {
	ID                    string                       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Slug                  string                       `json:"slug" gorm:"uniqueIndex;not null"`
	Title                 string                       `json:"title" gorm:"not null"`
	Description           string                       `json:"description" gorm:"type:text"`
	CategoryID            *string                      `json:"category_id,omitempty" gorm:"type:varchar(36);index"`
	DestinationID         *string                      `json:"destination_id,omitempty" gorm:"type:varchar(36);index"`
	Location              string                       `json:"location"`
	Duration              Duration                     `json:"duration" gorm:"embedded;embeddedPrefix:duration_"`
	Price                 float64                      `json:"price"`
	DiscountPrice         *float64                     `json:"discount_price,omitempty"`
	Rating                float64                      `json:"rating"`
	ReviewCount           int                          `json:"review_count"`
	Images                datatypes.JSONSlice[string]  `json:"images"`
	BookingURL            string                       `json:"booking_url,omitempty"`
	Status                TourStatus                   `json:"status" gorm:"type:varchar(16);not null;default:active;index"`
	Featured              bool                         `json:"featured"`
	FeaturedOrder         int                          `json:"featured_order"`
	Features              datatypes.JSONSlice[Feature] `json:"features,omitempty"`
	MaxGroupSize          *int                         `json:"max_group_size,omitempty"`
	MinBookingNoticeHours *int                         `json:"min_booking_notice_hours,omitempty"`
	CreatedAt             time.Time                    `json:"created_at"`
	UpdatedAt             time.Time                    `json:"updated_at"`

	Category    *Category    `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Destination *Destination `json:"destination,omitempty" gorm:"foreignKey:DestinationID"`
	Tags        []Tag        `json:"tags,omitempty" gorm:"many2many:tour_tags;"`
}

func (t *Tour) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TourActive
	}
	return nil
}

// EffectivePrice is the discounted price when it undercuts the retail price.
func (t Tour) EffectivePrice() float64 {
	if t.DiscountPrice != nil && *t.DiscountPrice > 0 && *t.DiscountPrice < t.Price {
		return *t.DiscountPrice
	}
	return t.Price
}

func (t Tour) IsPublic() bool {
	return t.Status != TourInactive
}

// PrimaryImage returns the first image reference or "".
func (t Tour) PrimaryImage() string {
	if len(t.Images) == 0 {
		return ""
	}
	return t.Images[0]
}

// Validate checks the write-time constraints of a tour and normalizes feature icons in place.
func (t *Tour) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("tour title is required")
	}
	if !IsValidSlug(t.Slug) {
		return fmt.Errorf("invalid tour slug %q", t.Slug)
	}
	if t.Price < 0 {
		return errors.New("tour price must be >= 0")
	}
	if len(t.Images) > MaxTourImages {
		return ErrTooManyImages
	}
	for i := range t.Features {
		icon, err := ParseFeatureIcon(string(t.Features[i].Icon))
		if err != nil {
			return err
		}
		t.Features[i].Icon = icon
	}
	return nil
}

// TourSummary is the minimal tour projection attached to a user's booking list.
type TourSummary struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Image string `json:"image,omitempty"`
}

func (t Tour) Summary() TourSummary {
	return TourSummary{ID: t.ID, Slug: t.Slug, Title: t.Title, Image: t.PrimaryImage()}
}
