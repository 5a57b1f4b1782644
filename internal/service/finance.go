package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/codec25/Studio-flow/internal/model"
)

// FinancialSummary is a pure fold over the ledger and expense list,
// recomputed on demand and never cached.
type FinancialSummary struct {
	Gross    float64 `json:"gross"`
	Expenses float64 `json:"expenses"`
	Tax      float64 `json:"tax"`
	Profit   float64 `json:"profit"`
}

func (s *Studio) GetFinancialSummary(ctx context.Context) FinancialSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	var gross, expenses float64
	for _, tx := range s.state.Ledger {
		gross += tx.Revenue
	}
	for _, exp := range s.state.Expenses {
		expenses += exp.Amount
	}

	var tax float64
	if net := gross - expenses; net > 0 {
		tax = net * s.state.Settings.TaxRate
	}

	return FinancialSummary{
		Gross:    gross,
		Expenses: expenses,
		Tax:      tax,
		Profit:   gross - expenses - tax,
	}
}

func (s *Studio) AddExpense(ctx context.Context, note string, amount float64) (*model.Expense, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("add expense: amount must be positive: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exp := model.Expense{
		ID:     newID("exp"),
		Date:   s.now().Format(time.RFC3339),
		Note:   note,
		Amount: amount,
	}
	s.state.Expenses = append(s.state.Expenses, exp)
	s.persist(ctx, "add expense")

	s.logger.Info("Expense recorded",
		zap.String("expense_id", exp.ID),
		zap.Float64("amount", amount),
	)
	return &exp, nil
}

func (s *Studio) DeleteExpense(ctx context.Context, expenseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.state.Expenses[:0]
	found := false
	for _, exp := range s.state.Expenses {
		if exp.ID == expenseID {
			found = true
			continue
		}
		kept = append(kept, exp)
	}
	if !found {
		return fmt.Errorf("delete expense: expense not found: %w", ErrValidation)
	}
	s.state.Expenses = kept
	s.persist(ctx, "delete expense")
	return nil
}

func (s *Studio) ListExpenses(ctx context.Context) []model.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Expense(nil), s.state.Expenses...)
}

func (s *Studio) TaxRate(ctx context.Context) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings.TaxRate
}

// UpdateTaxRate sets the tax rate, which must stay within [0, 1].
func (s *Studio) UpdateTaxRate(ctx context.Context, rate float64) error {
	if rate < 0 || rate > 1 {
		return fmt.Errorf("update tax rate: rate must be between 0 and 1: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Settings.TaxRate = rate
	s.persist(ctx, "update tax rate")
	return nil
}

func (s *Studio) Settings(ctx context.Context) model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state.Settings
}

// UpdateSettings replaces the policy settings after validation.
func (s *Studio) UpdateSettings(ctx context.Context, settings model.Settings) (model.Settings, error) {
	if settings.CancelWindow < 0 {
		return model.Settings{}, fmt.Errorf("update settings: cancel window must not be negative: %w", ErrValidation)
	}
	if settings.TaxRate < 0 || settings.TaxRate > 1 {
		return model.Settings{}, fmt.Errorf("update settings: tax rate must be between 0 and 1: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	*s.state.Settings = settings
	s.persist(ctx, "update settings")

	s.logger.Info("Settings updated",
		zap.Int("cancel_window", settings.CancelWindow),
		zap.Float64("tax_rate", settings.TaxRate),
	)
	return settings, nil
}
