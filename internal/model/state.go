package model

// Settings are the business policy knobs stored with the state document.
type Settings struct {
	CancelWindow      int     `json:"cancelWindow"` // hours before lesson start
	LateFee           float64 `json:"lateFee"`
	AllowPortalCancel bool    `json:"allowPortalCancel"`
	TaxRate           float64 `json:"taxRate"` // fraction of net, within [0, 1]
}

// State is the whole persisted document. Every collection lives here;
// Booking and LedgerEntry reference Service/Student records by identity.
// Settings is a pointer so a document that never stored a settings block
// is distinguishable from one that stored explicit zero values.
type State struct {
	Services        []Service     `json:"services"`
	Bookings        []Booking     `json:"bookings"`
	Students        []Student     `json:"students"`
	Teachers        []Teacher     `json:"teachers"`
	Packages        []Package     `json:"packages"`
	LessonRecaps    []LessonRecap `json:"lessonRecaps"`
	PrivateMessages []Message     `json:"privateMessages"`
	Ledger          []LedgerEntry `json:"ledger"`
	Expenses        []Expense     `json:"expenses"`
	Settings        *Settings     `json:"settings"`
}

// DefaultSettings mirrors the seed policy of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		CancelWindow:      24,
		LateFee:           50,
		AllowPortalCancel: true,
		TaxRate:           0.20,
	}
}

// EmptyState returns a normalized fresh document with the seed package catalog.
func EmptyState() *State {
	settings := DefaultSettings()
	return &State{
		Services: []Service{},
		Bookings: []Booking{},
		Students: []Student{},
		Teachers: []Teacher{},
		Packages: []Package{
			{ID: "pkg_single", Name: "Single Session", Count: 1, Price: 60},
			{ID: "pkg_five", Name: "5-Lesson Pack", Count: 5, Price: 275},
			{ID: "pkg_ten", Name: "10-Lesson Pack", Count: 10, Price: 500},
		},
		LessonRecaps:    []LessonRecap{},
		PrivateMessages: []Message{},
		Ledger:          []LedgerEntry{},
		Expenses:        []Expense{},
		Settings:        &settings,
	}
}

// Normalize repairs a document loaded from the persistence boundary:
// nil collections become empty, emails are lowercased, out-of-range
// numbers are clamped to their invariants and unknown booking statuses
// fall back to pending. Idempotent.
func (st *State) Normalize() {
	if st.Services == nil {
		st.Services = []Service{}
	}
	if st.Bookings == nil {
		st.Bookings = []Booking{}
	}
	if st.Students == nil {
		st.Students = []Student{}
	}
	if st.Teachers == nil {
		st.Teachers = []Teacher{}
	}
	if st.Packages == nil {
		st.Packages = EmptyState().Packages
	}
	if st.LessonRecaps == nil {
		st.LessonRecaps = []LessonRecap{}
	}
	if st.PrivateMessages == nil {
		st.PrivateMessages = []Message{}
	}
	if st.Ledger == nil {
		st.Ledger = []LedgerEntry{}
	}
	if st.Expenses == nil {
		st.Expenses = []Expense{}
	}

	for i := range st.Services {
		svc := &st.Services[i]
		if svc.Duration <= 0 {
			svc.Duration = 30
		}
		if svc.Capacity < 1 {
			svc.Capacity = 1
		}
		if svc.WeeklySlots == nil {
			svc.WeeklySlots = []WeeklySlot{}
		}
	}

	for i := range st.Students {
		stu := &st.Students[i]
		stu.Email = NormalizeEmail(stu.Email)
		if stu.Credits < 0 {
			stu.Credits = 0
		}
		if stu.PaymentStatus == "" {
			stu.PaymentStatus = "Pending"
		}
	}

	for i := range st.Bookings {
		b := &st.Bookings[i]
		b.ClientEmail = NormalizeEmail(b.ClientEmail)
		if !ValidStatus(b.Status) {
			b.Status = BookingStatusPending
		}
	}

	for i := range st.Ledger {
		st.Ledger[i].ClientEmail = NormalizeEmail(st.Ledger[i].ClientEmail)
	}

	for i := range st.LessonRecaps {
		r := &st.LessonRecaps[i]
		r.StudentEmail = NormalizeEmail(r.StudentEmail)
		if r.Resources == nil {
			r.Resources = []string{}
		}
	}

	for i := range st.PrivateMessages {
		m := &st.PrivateMessages[i]
		m.FromEmail = NormalizeEmail(m.FromEmail)
		m.ToEmail = NormalizeEmail(m.ToEmail)
		if m.ReadBy == nil {
			m.ReadBy = []string{}
		}
	}

	if st.Settings == nil {
		settings := DefaultSettings()
		st.Settings = &settings
	}
	if st.Settings.TaxRate < 0 || st.Settings.TaxRate > 1 {
		st.Settings.TaxRate = DefaultSettings().TaxRate
	}
}

// StudentByEmail finds a student record by normalized email, nil if absent.
func (st *State) StudentByEmail(email string) *Student {
	normalized := NormalizeEmail(email)
	for i := range st.Students {
		if st.Students[i].Email == normalized {
			return &st.Students[i]
		}
	}
	return nil
}

// ServiceByID finds a service by identity, nil if absent.
func (st *State) ServiceByID(id string) *Service {
	for i := range st.Services {
		if st.Services[i].ID == id {
			return &st.Services[i]
		}
	}
	return nil
}

// BookingByID finds a booking by identity, nil if absent.
func (st *State) BookingByID(id string) *Booking {
	for i := range st.Bookings {
		if st.Bookings[i].ID == id {
			return &st.Bookings[i]
		}
	}
	return nil
}
