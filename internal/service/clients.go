package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/codec25/Studio-flow/internal/model"
)

var (
	phoneJunk    = regexp.MustCompile(`[^0-9+]`)
	usernameJunk = regexp.MustCompile(`[^a-z0-9._]`)
	usernameRuns = regexp.MustCompile(`[._]{2,}`)
)

// RegisterStudentRequest is the profile data for a new student account.
type RegisterStudentRequest struct {
	Name           string `json:"name"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Credits        int    `json:"credits"`
	IsSubscription bool   `json:"isSubscription"`
}

// RegisterStudent creates a student account. Emails are unique
// case-insensitively; subscribing at signup seeds the monthly quota and
// stamps the current month so the first refill cycle is a no-op.
func (s *Studio) RegisterStudent(ctx context.Context, req RegisterStudentRequest) (*model.Student, error) {
	email := model.NormalizeEmail(req.Email)
	if email == "" {
		return nil, fmt.Errorf("register student: email is required: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.StudentByEmail(email) != nil {
		return nil, fmt.Errorf("register student: email already exists: %w", ErrValidation)
	}

	username := usernameBase(req.Username, strings.SplitN(email, "@", 2)[0])
	for i := range s.state.Students {
		if s.state.Students[i].Username == username {
			return nil, fmt.Errorf("register student: username already exists: %w", ErrValidation)
		}
	}

	credits := req.Credits
	refillKey := ""
	if req.IsSubscription {
		if credits < subscriptionRefillCredits {
			credits = subscriptionRefillCredits
		}
		refillKey = MonthKey(s.now())
	}
	if credits < 0 {
		credits = 0
	}

	student := model.Student{
		ID:                     newID("stu"),
		Name:                   strings.TrimSpace(req.Name),
		Username:               username,
		Email:                  email,
		Phone:                  phoneJunk.ReplaceAllString(req.Phone, ""),
		Credits:                credits,
		PaymentStatus:          "Pending",
		IsSubscription:         req.IsSubscription,
		LastSubscriptionRefill: refillKey,
		IsActive:               true,
		CreatedAt:              s.now().Format(time.RFC3339),
	}
	s.state.Students = append(s.state.Students, student)
	s.persist(ctx, "register student")

	s.logger.Info("Student registered",
		zap.String("email", email),
		zap.String("username", username),
		zap.Bool("subscription", req.IsSubscription),
	)
	return &student, nil
}

func usernameBase(raw, fallback string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = usernameJunk.ReplaceAllString(cleaned, "")
	cleaned = usernameRuns.ReplaceAllString(cleaned, "_")
	if len(cleaned) >= 3 {
		if len(cleaned) > 24 {
			return cleaned[:24]
		}
		return cleaned
	}
	if fallback == "" {
		fallback = "student"
	}
	if len(fallback) > 24 {
		return fallback[:24]
	}
	return fallback
}

// ListClients returns all student accounts, refilled first so nobody
// observes a stale pre-refill balance.
func (s *Studio) ListClients(ctx context.Context) []model.Student {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refillLocked(s.now()) > 0 {
		s.persist(ctx, "list clients refill")
	}
	return append([]model.Student(nil), s.state.Students...)
}

// ClientPatch updates a subset of mutable profile fields; nil means keep.
type ClientPatch struct {
	Name          *string `json:"name,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	PaymentStatus *string `json:"paymentStatus,omitempty"`
	IsActive      *bool   `json:"isActive,omitempty"`
}

func (s *Studio) UpdateClient(ctx context.Context, email string, patch ClientPatch) (*model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stu := s.state.StudentByEmail(email)
	if stu == nil {
		return nil, fmt.Errorf("update client: %w", ErrAccountNotFound)
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		stu.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Phone != nil {
		stu.Phone = phoneJunk.ReplaceAllString(*patch.Phone, "")
	}
	if patch.PaymentStatus != nil {
		stu.PaymentStatus = *patch.PaymentStatus
	}
	if patch.IsActive != nil {
		stu.IsActive = *patch.IsActive
	}
	s.persist(ctx, "update client")

	copied := *stu
	return &copied, nil
}

// SetStudentSubscription flips the subscription flag. Turning it on seeds
// the quota for the current month; turning it off clears the refill key so
// a later re-subscribe starts a fresh cycle.
func (s *Studio) SetStudentSubscription(ctx context.Context, email string, isSubscription bool) (*model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stu := s.state.StudentByEmail(email)
	if stu == nil {
		return nil, fmt.Errorf("set subscription: %w", ErrAccountNotFound)
	}

	stu.IsSubscription = isSubscription
	if isSubscription && stu.LastSubscriptionRefill == "" {
		stu.LastSubscriptionRefill = MonthKey(s.now())
		if stu.Credits < subscriptionRefillCredits {
			stu.Credits = subscriptionRefillCredits
		}
	}
	if !isSubscription {
		stu.LastSubscriptionRefill = ""
	}
	s.persist(ctx, "set subscription")

	s.logger.Info("Student subscription updated",
		zap.String("email", stu.Email),
		zap.Bool("subscription", isSubscription),
	)
	copied := *stu
	return &copied, nil
}

// DirectoryEntry is the public projection of a student for peer lookup.
type DirectoryEntry struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// StudentDirectory lists peers matching the query, excluding the caller.
func (s *Studio) StudentDirectory(ctx context.Context, selfEmail, query string) []DirectoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	self := model.NormalizeEmail(selfEmail)
	q := strings.ToLower(strings.TrimSpace(query))

	rows := []DirectoryEntry{}
	for _, stu := range s.state.Students {
		if stu.Email == self {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(stu.Name), q) &&
			!strings.Contains(stu.Email, q) &&
			!strings.Contains(stu.Username, q) {
			continue
		}
		rows = append(rows, DirectoryEntry{Name: stu.Name, Username: stu.Username, Email: stu.Email})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	if len(rows) > 50 {
		rows = rows[:50]
	}
	return rows
}

// DeleteStudent removes the account and cascades to everything keyed by
// its email: bookings, ledger entries, recaps and messages.
func (s *Studio) DeleteStudent(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := model.NormalizeEmail(email)
	if s.state.StudentByEmail(normalized) == nil {
		return fmt.Errorf("delete student: %w", ErrAccountNotFound)
	}

	students := s.state.Students[:0]
	for _, stu := range s.state.Students {
		if stu.Email != normalized {
			students = append(students, stu)
		}
	}
	s.state.Students = students

	bookings := s.state.Bookings[:0]
	for _, b := range s.state.Bookings {
		if b.ClientEmail != normalized {
			bookings = append(bookings, b)
		}
	}
	s.state.Bookings = bookings

	ledger := s.state.Ledger[:0]
	for _, tx := range s.state.Ledger {
		if tx.ClientEmail != normalized {
			ledger = append(ledger, tx)
		}
	}
	s.state.Ledger = ledger

	recaps := s.state.LessonRecaps[:0]
	for _, r := range s.state.LessonRecaps {
		if r.StudentEmail != normalized {
			recaps = append(recaps, r)
		}
	}
	s.state.LessonRecaps = recaps

	messages := s.state.PrivateMessages[:0]
	for _, m := range s.state.PrivateMessages {
		if m.FromEmail != normalized && m.ToEmail != normalized {
			messages = append(messages, m)
		}
	}
	s.state.PrivateMessages = messages

	s.persist(ctx, "delete student")

	s.logger.Info("Student deleted with cascade", zap.String("email", normalized))
	return nil
}
