package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/codec25/Studio-flow/internal/model"
)

// refillLocked resets every subscribed student whose month key lags the
// current one back to the monthly quota. Idempotent per calendar month.
// Caller holds the mutex. Returns how many accounts were refilled.
func (s *Studio) refillLocked(now time.Time) int {
	key := MonthKey(now)
	refilled := 0
	for i := range s.state.Students {
		stu := &s.state.Students[i]
		if !stu.IsSubscription || stu.LastSubscriptionRefill == key {
			continue
		}
		stu.Credits = subscriptionRefillCredits
		stu.LastSubscriptionRefill = key
		refilled++
	}
	if refilled > 0 {
		s.logger.Info("Subscription credits refilled",
			zap.String("month", key),
			zap.Int("count", refilled),
		)
	}
	return refilled
}

// RefillSubscriptions runs the monthly refill cycle and reports how many
// accounts changed. Safe to call any number of times within a month.
func (s *Studio) RefillSubscriptions(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	refilled := s.refillLocked(s.now())
	if refilled > 0 {
		s.persist(ctx, "refill subscriptions")
	}
	return refilled
}

// MonthStartResult reports the outcome of a month-start check.
type MonthStartResult struct {
	Refilled int    `json:"refilled"`
	Month    string `json:"month"`
}

func (s *Studio) RunMonthStartCheck(ctx context.Context) MonthStartResult {
	return MonthStartResult{
		Refilled: s.RefillSubscriptions(ctx),
		Month:    MonthKey(s.now()),
	}
}

// AdjustCredits applies a delta to a student's balance and returns the new
// value. The balance floors at zero: an underflowing debit clamps silently
// rather than failing, which is the documented behavior.
func (s *Studio) AdjustCredits(ctx context.Context, email string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refillLocked(s.now())

	balance, err := s.adjustCreditsLocked(email, delta)
	if err != nil {
		return 0, err
	}
	s.persist(ctx, "adjust credits")

	s.logger.Info("Credits adjusted",
		zap.String("email", model.NormalizeEmail(email)),
		zap.Int("delta", delta),
		zap.Int("balance", balance),
	)
	return balance, nil
}

func (s *Studio) adjustCreditsLocked(email string, delta int) (int, error) {
	stu := s.state.StudentByEmail(email)
	if stu == nil {
		return 0, fmt.Errorf("adjust credits: %w", ErrAccountNotFound)
	}
	next := stu.Credits + delta
	if next < 0 {
		next = 0
	}
	stu.Credits = next
	return next, nil
}

// LogTransaction appends an immutable ledger entry. It never touches the
// balance itself; composed operations pair it with an explicit adjustment.
func (s *Studio) LogTransaction(ctx context.Context, email string, entryType model.LedgerType, amount int, description string, revenue float64, packageName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logTransactionLocked(email, entryType, amount, description, revenue, packageName)
	s.persist(ctx, "log transaction")
	return nil
}

func (s *Studio) logTransactionLocked(email string, entryType model.LedgerType, amount int, description string, revenue float64, packageName string) {
	normalized := model.NormalizeEmail(email)
	clientName := "Unknown"
	if stu := s.state.StudentByEmail(normalized); stu != nil {
		clientName = stu.Name
	}
	s.state.Ledger = append(s.state.Ledger, model.LedgerEntry{
		ID:          newID("tx"),
		Date:        s.now().Format(time.RFC3339),
		ClientEmail: normalized,
		ClientName:  clientName,
		Type:        entryType,
		Amount:      amount,
		Revenue:     revenue,
		PackageName: packageName,
		Description: description,
	})
}

// Transactions returns the full ledger, oldest first.
func (s *Studio) Transactions(ctx context.Context) []model.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.LedgerEntry(nil), s.state.Ledger...)
}

// StudentLedger returns one student's entries, newest first.
func (s *Studio) StudentLedger(ctx context.Context, email string) []model.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := model.NormalizeEmail(email)
	rows := []model.LedgerEntry{}
	for _, tx := range s.state.Ledger {
		if tx.ClientEmail == normalized {
			rows = append(rows, tx)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date > rows[j].Date })
	return rows
}

// PurchasePackage grants a package's credits and records the revenue.
func (s *Studio) PurchasePackage(ctx context.Context, email, packageID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refillLocked(s.now())

	var pkg *model.Package
	for i := range s.state.Packages {
		if s.state.Packages[i].ID == packageID {
			pkg = &s.state.Packages[i]
			break
		}
	}
	if pkg == nil {
		return 0, fmt.Errorf("purchase package: %w", ErrPackageNotFound)
	}

	balance, err := s.adjustCreditsLocked(email, pkg.Count)
	if err != nil {
		return 0, fmt.Errorf("purchase package: %w", err)
	}
	s.logTransactionLocked(email, model.LedgerCreditIn, pkg.Count,
		"Purchased: "+pkg.Name, pkg.Price, pkg.Name)
	s.persist(ctx, "purchase package")

	s.logger.Info("Package purchased",
		zap.String("email", model.NormalizeEmail(email)),
		zap.String("package", pkg.Name),
		zap.Int("credits", pkg.Count),
		zap.Float64("revenue", pkg.Price),
	)
	return balance, nil
}

// LowCreditStudents lists students at or below the limit, lowest first.
// Runs the refill cycle first so a stale pre-refill balance is never reported.
func (s *Studio) LowCreditStudents(ctx context.Context, limit int) []model.Student {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refillLocked(s.now()) > 0 {
		s.persist(ctx, "low credit refill")
	}

	rows := []model.Student{}
	for _, stu := range s.state.Students {
		if stu.Credits <= limit {
			rows = append(rows, stu)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Credits < rows[j].Credits })
	return rows
}
