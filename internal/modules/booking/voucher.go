package booking

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"tourbooking/internal/domain"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// VoucherRenderer produces a printable PDF voucher whose QR code carries a
// signed booking reference that guides can verify offline.
type VoucherRenderer struct {
	secret []byte
}

func NewVoucherRenderer(secret string) *VoucherRenderer {
	return &VoucherRenderer{secret: []byte(secret)}
}

// Payload returns bookingID|tourID|date|signature.
func (r *VoucherRenderer) Payload(b *domain.Booking) string {
	data := fmt.Sprintf("%s|%s|%s", b.ID, b.TourID, b.BookingDate.Format(DateLayout))
	h := hmac.New(sha256.New, r.secret)
	h.Write([]byte(data))
	return data + "|" + base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// Verify checks a payload produced by Payload.
func (r *VoucherRenderer) Verify(b *domain.Booking, payload string) bool {
	return hmac.Equal([]byte(r.Payload(b)), []byte(payload))
}

func (r *VoucherRenderer) Render(b *domain.Booking) ([]byte, error) {
	qrPNG, err := qrcode.Encode(r.Payload(b), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}

	tourTitle := b.TourID
	if b.Tour != nil && b.Tour.Title != "" {
		tourTitle = b.Tour.Title
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "Tour Voucher")
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, tr(tourTitle))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	lines := []string{
		"Booking reference: " + b.ID,
		"Date: " + b.BookingDate.Format("Monday, 2 January 2006"),
		fmt.Sprintf("Guests: %d adults, %d children, %d infants", b.Adults, b.Children, b.Infants),
		"Lead traveller: " + b.ContactName,
		"Status: " + string(b.Status),
	}
	if b.PickupRequired && b.PickupLocation != "" {
		lines = append(lines, "Pickup: "+b.PickupLocation)
	}
	for _, line := range lines {
		pdf.Cell(0, 7, tr(line))
		pdf.Ln(7)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 20, 40, 40, false, opts, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(0, 5, "Present this voucher to your guide. Bookings stay pending until confirmed by our team.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderVoucher builds the PDF voucher for a booking v may read.
func (s *Service) RenderVoucher(ctx context.Context, id string, v Viewer) ([]byte, error) {
	b, err := s.GetBookingFor(ctx, id, v)
	if err != nil {
		return nil, err
	}
	if b.Status == domain.BookingCancelled {
		return nil, ErrNoVoucher
	}
	return s.voucher.Render(b)
}
