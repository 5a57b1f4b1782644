package model

type LedgerType string

const (
	LedgerCreditIn  LedgerType = "credit_in"  // credits granted (purchase, refund)
	LedgerCreditOut LedgerType = "credit_out" // credits consumed (booking)
)

// LedgerEntry is an append-only record of a credit balance change.
// Entries are never mutated; the ledger, not the mutable balance,
// is the source of truth for financial reporting.
type LedgerEntry struct {
	ID          string     `json:"id"`
	Date        string     `json:"date"` // RFC 3339 timestamp
	ClientEmail string     `json:"clientEmail"`
	ClientName  string     `json:"clientName"`
	Type        LedgerType `json:"type"`
	Amount      int        `json:"amount"`  // credit delta, always positive
	Revenue     float64    `json:"revenue"` // money received, 0 for pure credit debits
	PackageName string     `json:"packageName"`
	Description string     `json:"description"`
}

type Package struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Count int     `json:"count"` // credits granted on purchase
	Price float64 `json:"price"`
}

type Expense struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"`
	Note   string  `json:"note"`
	Amount float64 `json:"amount"`
}
