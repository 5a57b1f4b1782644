package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codec25/Studio-flow/internal/model"
)

func TestFinancialSummary(t *testing.T) {
	s := newTestStudio(t)
	ctx := context.Background()

	mustRegister(t, s, RegisterStudentRequest{Name: "Anna", Email: "anna@example.com"})

	_, err := s.PurchasePackage(ctx, "anna@example.com", "pkg_five")
	require.NoError(t, err)

	_, err = s.AddExpense(ctx, "New amp", 75)
	require.NoError(t, err)

	summary := s.GetFinancialSummary(ctx)
	assert.Equal(t, 275.0, summary.Gross)
	assert.Equal(t, 75.0, summary.Expenses)
	assert.InDelta(t, 40.0, summary.Tax, 0.001) // 20% of the 200 net
	assert.InDelta(t, 160.0, summary.Profit, 0.001)
}

func TestFinancialSummaryNoTaxOnLoss(t *testing.T) {
	s := newTestStudio(t)
	ctx := context.Background()

	_, err := s.AddExpense(ctx, "Studio rent", 500)
	require.NoError(t, err)

	summary := s.GetFinancialSummary(ctx)
	assert.Equal(t, 0.0, summary.Gross)
	assert.Equal(t, 0.0, summary.Tax)
	assert.Equal(t, -500.0, summary.Profit)
}

func TestCreditDebitsCarryNoRevenue(t *testing.T) {
	s := newTestStudio(t)
	ctx := context.Background()
	svc := guitarLessons(t, s)
	mustRegister(t, s, RegisterStudentRequest{Name: "Anna", Email: "anna@example.com", Credits: 1})

	_, err := s.CreateBooking(ctx, CreateBookingRequest{
		ClientEmail: "anna@example.com", ServiceID: svc.ID, Date: lessonDate, Time: "09:00",
	})
	require.NoError(t, err)

	summary := s.GetFinancialSummary(ctx)
	assert.Equal(t, 0.0, summary.Gross)
}

func TestAddExpenseValidation(t *testing.T) {
	s := newTestStudio(t)
	ctx := context.Background()

	_, err := s.AddExpense(ctx, "free stuff", 0)
	assert.ErrorIs(t, err, ErrValidation)

	exp, err := s.AddExpense(ctx, "Strings", 12.50)
	require.NoError(t, err)

	require.NoError(t, s.DeleteExpense(ctx, exp.ID))
	assert.Empty(t, s.ListExpenses(ctx))

	err = s.DeleteExpense(ctx, "exp_ghost")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateTaxRateValidation(t *testing.T) {
	s := newTestStudio(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.UpdateTaxRate(ctx, 1.5), ErrValidation)
	assert.ErrorIs(t, s.UpdateTaxRate(ctx, -0.1), ErrValidation)

	require.NoError(t, s.UpdateTaxRate(ctx, 0.1))
	assert.Equal(t, 0.1, s.TaxRate(ctx))
}

func TestUpdateSettingsValidation(t *testing.T) {
	s := newTestStudio(t)
	ctx := context.Background()

	_, err := s.UpdateSettings(ctx, model.Settings{CancelWindow: -1, TaxRate: 0.2})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.UpdateSettings(ctx, model.Settings{CancelWindow: 48, TaxRate: 2})
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := s.UpdateSettings(ctx, model.Settings{
		CancelWindow:      48,
		LateFee:           25,
		AllowPortalCancel: false,
		TaxRate:           0.1,
	})
	require.NoError(t, err)
	assert.Equal(t, 48, updated.CancelWindow)
	assert.Equal(t, updated, s.Settings(ctx))
}
