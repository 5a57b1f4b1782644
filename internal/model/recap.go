package model

// LessonRecap is the teacher-authored summary of a completed lesson,
// one per booking (re-creating a recap replaces the previous one).
type LessonRecap struct {
	ID           string   `json:"id"`
	BookingID    string   `json:"bookingId"`
	StudentEmail string   `json:"studentEmail"`
	StudentName  string   `json:"studentName"`
	ServiceName  string   `json:"serviceName"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Summary      string   `json:"summary"`
	Resources    []string `json:"resources"` // http(s) links only
	TeacherEmail string   `json:"teacherEmail"`
	CreatedAt    string   `json:"createdAt"`
}

// Message is a private student-to-student message.
type Message struct {
	ID        string   `json:"id"`
	FromEmail string   `json:"fromEmail"`
	ToEmail   string   `json:"toEmail"`
	Body      string   `json:"body"`
	CreatedAt string   `json:"createdAt"`
	ReadBy    []string `json:"readBy"`
}

// ReadByEmail reports whether email already appears in the read list.
func (m *Message) ReadByEmail(email string) bool {
	for _, e := range m.ReadBy {
		if e == email {
			return true
		}
	}
	return false
}
