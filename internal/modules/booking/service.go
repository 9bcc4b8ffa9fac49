package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tourbooking/internal/domain"
	"tourbooking/internal/notification"
	"tourbooking/internal/pkg/validator"
	"tourbooking/internal/repository"

	"github.com/rs/zerolog"
)

type Service struct {
	bookings BookingRepository
	tours    TourLookup
	events   notification.Publisher
	voucher  *VoucherRenderer
	log      zerolog.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithVoucherSecret sets the key used to sign voucher QR payloads.
func WithVoucherSecret(secret string) Option {
	return func(s *Service) { s.voucher = NewVoucherRenderer(secret) }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(
	bookings BookingRepository,
	tours TourLookup,
	events notification.Publisher,
	log zerolog.Logger,
	opts ...Option,
) *Service {
	if events == nil {
		events = notification.Nop()
	}
	s := &Service{
		bookings: bookings,
		tours:    tours,
		events:   events,
		voucher:  NewVoucherRenderer(""),
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBooking validates the form and persists a new booking. Whatever the client
// sends, the booking starts pending and unpaid. userID is nil for guest checkouts.
func (s *Service) CreateBooking(ctx context.Context, userID *string, req CreateBookingRequest) (*domain.Booking, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, FieldErrors(errs)
	}

	date, err := parseBookingDate(req.BookingDate)
	if err != nil {
		return nil, FieldErrors{"booking_date": "date"}
	}

	tour, err := s.tours.GetByID(ctx, req.TourID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrTourUnavailable
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}
	if !tour.IsPublic() {
		return nil, ErrTourUnavailable
	}

	now := s.now().UTC()
	if date.Before(startOfDay(now)) {
		return nil, FieldErrors{"booking_date": "future"}
	}
	if tour.MinBookingNoticeHours != nil {
		earliest := now.Add(time.Duration(*tour.MinBookingNoticeHours) * time.Hour)
		if date.Before(startOfDay(earliest)) {
			return nil, FieldErrors{"booking_date": "notice"}
		}
	}
	guests := req.Adults + req.Children + req.Infants
	if tour.MaxGroupSize != nil && guests > *tour.MaxGroupSize {
		return nil, FieldErrors{"adults": "max_group_size"}
	}

	b := &domain.Booking{
		TourID:          tour.ID,
		UserID:          userID,
		BookingDate:     date,
		Adults:          req.Adults,
		Children:        req.Children,
		Infants:         req.Infants,
		PickupRequired:  req.PickupRequired,
		PickupLocation:  strings.TrimSpace(req.PickupLocation),
		ContactName:     strings.TrimSpace(req.ContactName),
		ContactEmail:    strings.ToLower(strings.TrimSpace(req.ContactEmail)),
		ContactPhone:    strings.TrimSpace(req.ContactPhone),
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
		Status:          domain.BookingPending,
		PaymentStatus:   domain.PaymentUnpaid,
	}
	if !b.PickupRequired {
		b.PickupLocation = ""
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	s.publish(ctx, notification.NewEvent(notification.TypeBookingCreated, b.ID, b.TourID, payload{
		"tour_title":   tour.Title,
		"booking_date": b.BookingDate.Format(DateLayout),
		"guests":       b.Guests(),
		"contact_name": b.ContactName,
	}))
	return b, nil
}

// Viewer is the caller asking for a booking. The zero value is anonymous.
type Viewer struct {
	UserID string
	Admin  bool
}

// CanView reports whether v may read b. Account bookings are private to their
// owner and admins; guest bookings are reachable by their id.
func (v Viewer) CanView(b *domain.Booking) bool {
	if b.UserID == nil || v.Admin {
		return true
	}
	return v.UserID != "" && v.UserID == *b.UserID
}

// GetBookingFor loads a booking on behalf of v. Bookings v may not read are
// reported as not found.
func (s *Service) GetBookingFor(ctx context.Context, id string, v Viewer) (*domain.Booking, error) {
	b, err := s.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.CanView(b) {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *Service) GetBookingByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}
	return b, nil
}

// GetUserBookings lists the caller's bookings newest first. Without a session
// (empty userID) the result is empty rather than an error.
func (s *Service) GetUserBookings(ctx context.Context, userID string) ([]domain.UserBooking, error) {
	if userID == "" {
		return []domain.UserBooking{}, nil
	}

	rows, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}

	out := make([]domain.UserBooking, 0, len(rows))
	for _, b := range rows {
		ub := domain.UserBooking{
			ID:            b.ID,
			BookingDate:   b.BookingDate,
			Adults:        b.Adults,
			Children:      b.Children,
			Infants:       b.Infants,
			Status:        b.Status,
			PaymentStatus: b.PaymentStatus,
			CreatedAt:     b.CreatedAt,
		}
		if b.Tour != nil {
			ub.Tour = b.Tour.Summary()
		} else {
			ub.Tour = domain.TourSummary{ID: b.TourID}
		}
		out = append(out, ub)
	}
	return out, nil
}

func (s *Service) ListBookings(ctx context.Context, status string, limit, offset int) (*BookingList, error) {
	st := domain.BookingStatus(status)
	switch st {
	case "", domain.BookingPending, domain.BookingConfirmed, domain.BookingCancelled:
	default:
		return nil, FieldErrors{"status": "oneof"}
	}

	items, total, err := s.bookings.List(ctx, repository.BookingListFilter{Status: st, Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}
	return &BookingList{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// UpdateStatus moves a pending booking to confirmed or cancelled.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	b, err := s.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, status)
	}

	ok, err := s.bookings.UpdateStatus(ctx, id, b.Status, status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	if !ok {
		// lost a race with another transition
		return nil, fmt.Errorf("%w: booking is no longer %s", ErrInvalidTransition, b.Status)
	}
	b.Status = status

	evType := notification.TypeBookingConfirmed
	if status == domain.BookingCancelled {
		evType = notification.TypeBookingCancelled
	}
	s.publish(ctx, notification.NewEvent(evType, b.ID, b.TourID, payload{"status": status}))
	return b, nil
}

func (s *Service) publish(ctx context.Context, ev notification.Event) {
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("type", ev.Type).Str("entity_id", ev.EntityID).Msg("event publish failed")
	}
}

type payload = map[string]any

func parseBookingDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return startOfDay(t.UTC()), nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
