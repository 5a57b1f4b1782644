package model

type BookingStatus string

const (
	BookingStatusPending       BookingStatus = "pending"        // awaiting teacher confirmation
	BookingStatusConfirmed     BookingStatus = "confirmed"      // confirmed by the teacher
	BookingStatusCompleted     BookingStatus = "completed"      // lesson held, notes recorded
	BookingStatusCancelled     BookingStatus = "cancelled"      // clean cancellation, slot freed
	BookingStatusCancelledLate BookingStatus = "cancelled_late" // late cancellation, slot still counts
)

// ValidStatus reports whether s is one of the known lifecycle statuses.
func ValidStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted,
		BookingStatusCancelled, BookingStatusCancelledLate:
		return true
	}
	return false
}

type Booking struct {
	ID           string        `json:"id"`
	ClientName   string        `json:"clientName"`
	ClientEmail  string        `json:"clientEmail"`
	ClientPhone  string        `json:"clientPhone,omitempty"`
	ServiceID    string        `json:"serviceId"`
	ServiceName  string        `json:"serviceName"` // snapshot at creation, survives service deletion
	Date         string        `json:"date"`        // "YYYY-MM-DD"
	Time         string        `json:"time"`        // "HH:MM"
	Notes        string        `json:"notes"`
	TeacherNotes string        `json:"teacherNotes"`
	Homework     string        `json:"homework"`
	Price        float64       `json:"price"` // snapshot at creation, immutable
	Status       BookingStatus `json:"status"`
	CreatedAt    string        `json:"createdAt"`
}

// Occupies reports whether the booking still consumes slot capacity.
// A late cancellation keeps the spot occupied; only a clean cancel frees it.
func (b *Booking) Occupies() bool {
	return b.Status != BookingStatusCancelled
}
