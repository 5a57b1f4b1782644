package service

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/codec25/Studio-flow/internal/model"
)

// Reminder is the human-readable lesson reminder plus deep links for the
// two delivery channels. Nothing is sent from here; the caller decides.
type Reminder struct {
	Message  string `json:"message"`
	WhatsApp string `json:"whatsapp"`
	Email    string `json:"email"`
}

// BuildReminder is a pure function of the booking.
func BuildReminder(b *model.Booking) Reminder {
	msg := fmt.Sprintf("Hi %s, reminder for your %s tomorrow at %s. See you then!",
		b.ClientName, b.ServiceName, b.Time)
	return Reminder{
		Message:  msg,
		WhatsApp: "https://wa.me/" + b.ClientPhone + "?text=" + url.QueryEscape(msg),
		Email:    "mailto:" + b.ClientEmail + "?subject=Reminder&body=" + url.QueryEscape(msg),
	}
}

func (s *Studio) ReminderLinks(ctx context.Context, bookingID string) (*Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.state.BookingByID(bookingID)
	if b == nil {
		return nil, fmt.Errorf("reminder links: %w", ErrBookingNotFound)
	}
	r := BuildReminder(b)
	return &r, nil
}

// PendingReminders lists tomorrow's confirmed bookings.
func (s *Studio) PendingReminders(ctx context.Context) []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	tomorrow := s.now().Add(24 * time.Hour).Format("2006-01-02")
	rows := []model.Booking{}
	for _, b := range s.state.Bookings {
		if b.Date == tomorrow && b.Status == model.BookingStatusConfirmed {
			rows = append(rows, b)
		}
	}
	return rows
}

// Nudge is an upcoming lesson with its countdown, for the dashboard.
type Nudge struct {
	model.Booking
	StartsAt  string  `json:"startsAt"`
	HoursLeft float64 `json:"hoursLeft"`
}

// UpcomingNudges lists pending and confirmed lessons starting within the
// given horizon, soonest first. Bookings with unparseable date/time are
// skipped rather than failing the whole listing.
func (s *Studio) UpcomingNudges(ctx context.Context, hours int) []Nudge {
	if hours <= 0 {
		hours = 24
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	horizon := time.Duration(hours) * time.Hour

	rows := []Nudge{}
	for _, b := range s.state.Bookings {
		if b.Status != model.BookingStatusConfirmed && b.Status != model.BookingStatusPending {
			continue
		}
		when, err := time.ParseInLocation("2006-01-02T15:04", b.Date+"T"+b.Time, time.Local)
		if err != nil {
			continue
		}
		diff := when.Sub(now)
		if diff < 0 || diff > horizon {
			continue
		}
		rows = append(rows, Nudge{
			Booking:   b,
			StartsAt:  when.Format(time.RFC3339),
			HoursLeft: float64(int(diff.Hours()*10)) / 10,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].StartsAt < rows[j].StartsAt })
	return rows
}

// PurchaseReceiptMail builds the mailto link for a package purchase receipt.
func PurchaseReceiptMail(clientName, clientEmail, packageName string, credits int, amount float64) string {
	body := fmt.Sprintf(
		"Hi %s,\n\nThank you for your purchase!\nPackage: %s\nCredits Added: %d\nAmount: $%.2f\n\nBook your sessions in the portal.\n\nBest,\nStudioFlow Team",
		clientName, packageName, credits, amount)
	return "mailto:" + clientEmail + "?subject=Receipt&body=" + url.QueryEscape(body)
}
