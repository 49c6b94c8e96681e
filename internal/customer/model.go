package customer

import (
	"github.com/google/uuid"
)

// Languages a customer profile may carry.
const (
	LanguageEnglish = "en"
	LanguageGerman  = "de"
)

// DefaultLanguage is applied at import time when a record carries no valid
// language.
const DefaultLanguage = LanguageEnglish

// ValidLanguage reports whether lang is one of the supported languages.
func ValidLanguage(lang string) bool {
	return lang == LanguageEnglish || lang == LanguageGerman
}

// Customer is an imported customer profile. It exists before the identity it
// is later linked to; a non-nil UserID means the account is activated.
type Customer struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Email      string    `json:"email"`
	Country    string    `json:"country"`
	Language   *string   `json:"language"`
	UserID     *int64    `json:"-"`
}
