package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/codec25/Studio-flow/internal/model"
)

// CreateRecapRequest carries a teacher-authored lesson recap. Resources
// accepts raw newline/comma separated text; only http(s) links survive.
type CreateRecapRequest struct {
	BookingID    string `json:"bookingId"`
	Summary      string `json:"summary"`
	Resources    string `json:"resources"`
	TeacherEmail string `json:"teacherEmail"`
}

// CreateLessonRecap upserts the recap for a booking: one recap per lesson,
// re-submitting replaces the previous one.
func (s *Studio) CreateLessonRecap(ctx context.Context, req CreateRecapRequest) (*model.LessonRecap, error) {
	summary := strings.TrimSpace(req.Summary)
	if summary == "" {
		return nil, fmt.Errorf("create recap: summary is required: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	booking := s.state.BookingByID(req.BookingID)
	if booking == nil {
		return nil, fmt.Errorf("create recap: %w", ErrBookingNotFound)
	}

	recap := model.LessonRecap{
		ID:           newID("recap"),
		BookingID:    booking.ID,
		StudentEmail: booking.ClientEmail,
		StudentName:  booking.ClientName,
		ServiceName:  booking.ServiceName,
		Date:         booking.Date,
		Time:         booking.Time,
		Summary:      summary,
		Resources:    parseResourceLinks(req.Resources),
		TeacherEmail: model.NormalizeEmail(req.TeacherEmail),
		CreatedAt:    s.now().Format(time.RFC3339),
	}

	replaced := false
	for i := range s.state.LessonRecaps {
		if s.state.LessonRecaps[i].BookingID == booking.ID {
			s.state.LessonRecaps[i] = recap
			replaced = true
			break
		}
	}
	if !replaced {
		s.state.LessonRecaps = append(s.state.LessonRecaps, recap)
	}
	s.persist(ctx, "create lesson recap")

	s.logger.Info("Lesson recap saved",
		zap.String("booking_id", booking.ID),
		zap.Bool("replaced", replaced),
	)
	return &recap, nil
}

// parseResourceLinks keeps only absolute http(s) URLs from a newline or
// comma separated blob.
func parseResourceLinks(raw string) []string {
	links := []string{}
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == ',' }) {
		link := strings.TrimSpace(part)
		lower := strings.ToLower(link)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
			links = append(links, link)
		}
	}
	return links
}

// RecapFilter narrows ListLessonRecaps; zero value lists everything.
type RecapFilter struct {
	StudentEmail string
	BookingID    string
}

func (s *Studio) ListLessonRecaps(ctx context.Context, filter RecapFilter) []model.LessonRecap {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := model.NormalizeEmail(filter.StudentEmail)
	rows := []model.LessonRecap{}
	for _, r := range s.state.LessonRecaps {
		if filter.StudentEmail != "" && r.StudentEmail != email {
			continue
		}
		if filter.BookingID != "" && r.BookingID != filter.BookingID {
			continue
		}
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt > rows[j].CreatedAt })
	return rows
}

// resolveStudentLocked finds a student by email or username.
func (s *Studio) resolveStudentLocked(identifier string) *model.Student {
	normalized := model.NormalizeEmail(identifier)
	if normalized == "" {
		return nil
	}
	if stu := s.state.StudentByEmail(normalized); stu != nil {
		return stu
	}
	for i := range s.state.Students {
		if s.state.Students[i].Username == normalized {
			return &s.state.Students[i]
		}
	}
	return nil
}

// SendMessage delivers a private message between two students. Identity is
// an explicit parameter; the recipient may be an email or a username.
func (s *Studio) SendMessage(ctx context.Context, fromEmail, toIdentifier, body string) (*model.Message, error) {
	text := strings.TrimSpace(body)
	if text == "" {
		return nil, fmt.Errorf("send message: message cannot be empty: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.state.StudentByEmail(fromEmail)
	if from == nil {
		return nil, fmt.Errorf("send message: %w", ErrAccountNotFound)
	}
	to := s.resolveStudentLocked(toIdentifier)
	if to == nil {
		return nil, fmt.Errorf("send message: recipient: %w", ErrAccountNotFound)
	}
	if to.Email == from.Email {
		return nil, fmt.Errorf("send message: cannot message yourself: %w", ErrValidation)
	}

	msg := model.Message{
		ID:        newID("msg"),
		FromEmail: from.Email,
		ToEmail:   to.Email,
		Body:      text,
		CreatedAt: s.now().Format(time.RFC3339),
		ReadBy:    []string{from.Email},
	}
	s.state.PrivateMessages = append(s.state.PrivateMessages, msg)
	s.persist(ctx, "send message")

	return &msg, nil
}

// ListMessages returns the two-way conversation with a peer, oldest first.
func (s *Studio) ListMessages(ctx context.Context, selfEmail, peerIdentifier string) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	self := model.NormalizeEmail(selfEmail)
	peer := s.resolveStudentLocked(peerIdentifier)
	if peer == nil {
		return nil, fmt.Errorf("list messages: recipient: %w", ErrAccountNotFound)
	}

	rows := []model.Message{}
	for _, m := range s.state.PrivateMessages {
		mineToPeer := m.FromEmail == self && m.ToEmail == peer.Email
		peerToMine := m.FromEmail == peer.Email && m.ToEmail == self
		if mineToPeer || peerToMine {
			rows = append(rows, m)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt < rows[j].CreatedAt })
	return rows, nil
}

// Thread summarizes one conversation for the inbox view.
type Thread struct {
	PeerEmail    string `json:"peerEmail"`
	PeerName     string `json:"peerName"`
	PeerUsername string `json:"peerUsername"`
	LastMessage  string `json:"lastMessage"`
	LastAt       string `json:"lastAt"`
	UnreadCount  int    `json:"unreadCount"`
}

// MessageThreads groups the caller's messages by peer, newest thread first.
func (s *Studio) MessageThreads(ctx context.Context, selfEmail string) []Thread {
	s.mu.Lock()
	defer s.mu.Unlock()

	self := model.NormalizeEmail(selfEmail)
	grouped := map[string][]model.Message{}
	for _, m := range s.state.PrivateMessages {
		switch self {
		case m.FromEmail:
			grouped[m.ToEmail] = append(grouped[m.ToEmail], m)
		case m.ToEmail:
			grouped[m.FromEmail] = append(grouped[m.FromEmail], m)
		}
	}

	threads := []Thread{}
	for peerEmail, messages := range grouped {
		sort.Slice(messages, func(i, j int) bool { return messages[i].CreatedAt < messages[j].CreatedAt })
		last := messages[len(messages)-1]

		unread := 0
		for i := range messages {
			if messages[i].ToEmail == self && !messages[i].ReadByEmail(self) {
				unread++
			}
		}

		thread := Thread{
			PeerEmail:   peerEmail,
			PeerName:    peerEmail,
			LastMessage: last.Body,
			LastAt:      last.CreatedAt,
			UnreadCount: unread,
		}
		if peer := s.state.StudentByEmail(peerEmail); peer != nil {
			thread.PeerName = peer.Name
			thread.PeerUsername = peer.Username
		}
		threads = append(threads, thread)
	}
	sort.Slice(threads, func(i, j int) bool { return threads[i].LastAt > threads[j].LastAt })
	return threads
}

// MarkThreadRead stamps the caller on every unread incoming message from
// the peer.
func (s *Studio) MarkThreadRead(ctx context.Context, selfEmail, peerIdentifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	self := model.NormalizeEmail(selfEmail)
	peer := s.resolveStudentLocked(peerIdentifier)
	if peer == nil {
		return fmt.Errorf("mark thread read: recipient: %w", ErrAccountNotFound)
	}

	changed := false
	for i := range s.state.PrivateMessages {
		m := &s.state.PrivateMessages[i]
		if m.FromEmail == peer.Email && m.ToEmail == self && !m.ReadByEmail(self) {
			m.ReadBy = append(m.ReadBy, self)
			changed = true
		}
	}
	if changed {
		s.persist(ctx, "mark thread read")
	}
	return nil
}
