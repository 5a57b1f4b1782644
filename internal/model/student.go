package model

import "strings"

type Student struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	Username               string `json:"username"`
	Email                  string `json:"email"` // unique, lowercase
	Phone                  string `json:"phone"`
	Credits                int    `json:"credits"` // never negative
	PaymentStatus          string `json:"paymentStatus"`
	IsSubscription         bool   `json:"isSubscription"`
	LastSubscriptionRefill string `json:"lastSubscriptionRefill"` // "YYYY-MM" month key
	IsActive               bool   `json:"isActive"`
	CreatedAt              string `json:"createdAt"`
}

// NormalizeEmail lowercases and trims an identity string the way every
// email-keyed lookup expects it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
