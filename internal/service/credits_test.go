package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codec25/Studio-flow/internal/model"
)

func TestRefillResetsSubscriberEachMonth(t *testing.T) {
	clock := newTestClock()
	s := newTestStudio(t, WithClock(clock.Now))
	ctx := context.Background()

	mustRegister(t, s, RegisterStudentRequest{
		Name:           "Anna",
		Email:          "anna@example.com",
		IsSubscription: true,
	})

	// Signup seeds the quota and stamps the current month.
	balance, err := s.AdjustCredits(ctx, "anna@example.com", 0)
	require.NoError(t, err)
	assert.Equal(t, 4, balance)

	// Same month: refill is a no-op even after spending.
	_, err = s.AdjustCredits(ctx, "anna@example.com", -2)
	require.NoError(t, err)
	assert.Equal(t, 0, s.RefillSubscriptions(ctx))
	balance, err = s.AdjustCredits(ctx, "anna@example.com", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, balance)

	// Next month: the balance resets to the quota, it does not accumulate.
	clock.now = clock.now.AddDate(0, 1, 0)
	assert.Equal(t, 1, s.RefillSubscriptions(ctx))
	balance, err = s.AdjustCredits(ctx, "anna@example.com", 0)
	require.NoError(t, err)
	assert.Equal(t, 4, balance)

	// Running it twice in the new month changes nothing.
	assert.Equal(t, 0, s.RefillSubscriptions(ctx))
}

func TestRefillSkipsNonSubscribers(t *testing.T) {
	clock := newTestClock()
	s := newTestStudio(t, WithClock(clock.Now))
	ctx := context.Background()

	mustRegister(t, s, RegisterStudentRequest{
		Name:    "Bob",
		Email:   "bob@example.com",
		Credits: 7,
	})

	clock.now = clock.now.AddDate(0, 1, 0)
	assert.Equal(t, 0, s.RefillSubscriptions(ctx))

	balance, err := s.AdjustCredits(ctx, "bob@example.com", 0)
	require.NoError(t, err)
	assert.Equal(t, 7, balance)
}

func TestAdjustCreditsClampsAtZero(t *testing.T) {
	s := newTestStudio(t)
	ctx := context.Background()

	mustRegister(t, s, RegisterStudentRequest{
		Name:    "Bob",
		Email:   "bob@example.com",
		Credits: 2,
	})

	balance, err := s.AdjustCredits(ctx, "bob@example.com", -5)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)

	_, err = s.AdjustCredits(ctx, "ghost@example.com", 1)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestPurchasePackage(t *testing.T) {
	s := newTestStudio(t)
	ctx := context.Background()

	mustRegister(t, s, RegisterStudentRequest{
		Name:    "Anna",
		Email:   "anna@example.com",
		Credits: 1,
	})

	balance, err := s.PurchasePackage(ctx, "anna@example.com", "pkg_five")
	require.NoError(t, err)
	assert.Equal(t, 6, balance)

	ledger := s.StudentLedger(ctx, "anna@example.com")
	require.Len(t, ledger, 1)
	assert.Equal(t, model.LedgerCreditIn, ledger[0].Type)
	assert.Equal(t, 5, ledger[0].Amount)
	assert.Equal(t, 275.0, ledger[0].Revenue)
	assert.Equal(t, "5-Lesson Pack", ledger[0].PackageName)
	assert.Equal(t, "Purchased: 5-Lesson Pack", ledger[0].Description)
	assert.Equal(t, "Anna", ledger[0].ClientName)

	_, err = s.PurchasePackage(ctx, "anna@example.com", "pkg_ghost")
	assert.ErrorIs(t, err, ErrPackageNotFound)

	_, err = s.PurchasePackage(ctx, "ghost@example.com", "pkg_five")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestStudentLedgerNewestFirst(t *testing.T) {
	clock := newTestClock()
	s := newTestStudio(t, WithClock(clock.Now))
	ctx := context.Background()

	mustRegister(t, s, RegisterStudentRequest{Name: "Anna", Email: "anna@example.com"})

	_, err := s.PurchasePackage(ctx, "anna@example.com", "pkg_single")
	require.NoError(t, err)

	clock.now = clock.now.Add(time.Hour)
	_, err = s.PurchasePackage(ctx, "anna@example.com", "pkg_ten")
	require.NoError(t, err)

	ledger := s.StudentLedger(ctx, "anna@example.com")
	require.Len(t, ledger, 2)
	assert.Equal(t, "10-Lesson Pack", ledger[0].PackageName)
	assert.Equal(t, "Single Session", ledger[1].PackageName)
}

func TestLowCreditStudents(t *testing.T) {
	s := newTestStudio(t)
	ctx := context.Background()

	mustRegister(t, s, RegisterStudentRequest{Name: "Empty", Email: "empty@example.com", Credits: 0})
	mustRegister(t, s, RegisterStudentRequest{Name: "Low", Email: "low@example.com", Credits: 1})
	mustRegister(t, s, RegisterStudentRequest{Name: "Rich", Email: "rich@example.com", Credits: 9})

	rows := s.LowCreditStudents(ctx, 1)
	require.Len(t, rows, 2)
	assert.Equal(t, "empty@example.com", rows[0].Email)
	assert.Equal(t, "low@example.com", rows[1].Email)
}

func TestMonthStartCheckReportsMonth(t *testing.T) {
	clock := newTestClock()
	s := newTestStudio(t, WithClock(clock.Now))

	result := s.RunMonthStartCheck(context.Background())
	assert.Equal(t, "2026-03", result.Month)
	assert.Equal(t, 0, result.Refilled)
}
