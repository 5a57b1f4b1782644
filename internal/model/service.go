package model

import (
	"encoding/json"
	"fmt"
)

// WeeklySlot is one recurring availability window of a service.
type WeeklySlot struct {
	Day    int    `json:"day"`   // 0 = Sunday, 6 = Saturday
	Start  string `json:"start"` // "HH:MM"
	End    string `json:"end"`   // "HH:MM"
	Active bool   `json:"active"`
}

// UnmarshalJSON defaults a missing active flag to true: legacy documents
// only store the flag once a window has been switched off.
func (w *WeeklySlot) UnmarshalJSON(data []byte) error {
	type alias WeeklySlot
	raw := alias{Active: true}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*w = WeeklySlot(raw)
	return nil
}

type Service struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Duration    int          `json:"duration"` // minutes per lesson
	Price       float64      `json:"price"`
	Capacity    int          `json:"capacity"` // concurrent bookings per slot
	WeeklySlots []WeeklySlot `json:"weeklySlots"`
}

// Validate checks the invariants a service must hold before it is persisted.
func (s *Service) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("service name is required")
	}
	if s.Duration <= 0 {
		return fmt.Errorf("service duration must be positive, got %d", s.Duration)
	}
	if s.Capacity < 1 {
		return fmt.Errorf("service capacity must be at least 1, got %d", s.Capacity)
	}
	for i, w := range s.WeeklySlots {
		if w.Day < 0 || w.Day > 6 {
			return fmt.Errorf("weekly slot %d: day must be 0-6, got %d", i, w.Day)
		}
		if w.Start >= w.End {
			return fmt.Errorf("weekly slot %d: end %q must be after start %q", i, w.End, w.Start)
		}
	}
	return nil
}
