package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/codec25/Studio-flow/internal/lock"
	"github.com/codec25/Studio-flow/internal/model"
	"github.com/codec25/Studio-flow/internal/store"
)

// testClock is a mutable clock handed to WithClock; tests advance it by
// assigning now.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newTestClock() *testClock {
	// 2026-03-10 is a Tuesday.
	return &testClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)}
}

func newTestStudio(t *testing.T, opts ...Option) *Studio {
	t.Helper()
	fs, err := store.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	return NewStudio(context.Background(), fs, lock.NewLocalLocker(), zap.NewNop(), opts...)
}

func mustRegister(t *testing.T, s *Studio, req RegisterStudentRequest) *model.Student {
	t.Helper()
	stu, err := s.RegisterStudent(context.Background(), req)
	require.NoError(t, err)
	return stu
}

func mustService(t *testing.T, s *Studio, svc model.Service) *model.Service {
	t.Helper()
	created, err := s.CreateService(context.Background(), svc)
	require.NoError(t, err)
	return created
}

// guitarLessons is a capacity-1 service available Thursdays 09:00-12:00.
func guitarLessons(t *testing.T, s *Studio) *model.Service {
	t.Helper()
	return mustService(t, s, model.Service{
		Name:     "Guitar Lesson",
		Duration: 60,
		Price:    60,
		Capacity: 1,
		WeeklySlots: []model.WeeklySlot{
			{Day: 4, Start: "09:00", End: "12:00", Active: true},
		},
	})
}
