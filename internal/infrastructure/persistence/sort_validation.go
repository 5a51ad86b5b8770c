package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ReimbursementSortFields contains allowed sort fields for reimbursements
var ReimbursementSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"expense_date": true,
	"amount":       true,
	"status":       true,
}

// ChargeSortFields contains allowed sort fields for charges
var ChargeSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"charge_date": true,
	"amount":      true,
	"status":      true,
}

// PaymentTransferSortFields contains allowed sort fields for payment transfers
var PaymentTransferSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"total_amount": true,
	"status":       true,
	"executed_at":  true,
}

// FundSortFields contains allowed sort fields for funds
var FundSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"status":     true,
}

// BudgetSortFields contains allowed sort fields for budgets
var BudgetSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"name":        true,
	"fiscal_year": true,
}

// RecurringTransferSortFields contains allowed sort fields for recurring transfers
var RecurringTransferSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"start_date": true,
	"amount":     true,
	"status":     true,
}

// PlannedExpenseSortFields contains allowed sort fields for planned expenses
var PlannedExpenseSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"due_date":   true,
	"amount":     true,
	"status":     true,
}

// DirectExpenseSortFields contains allowed sort fields for direct expenses
var DirectExpenseSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"incurred_at": true,
	"amount":      true,
}

// MemberSortFields contains allowed sort fields for members
var MemberSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"username":   true,
	"role":       true,
	"status":     true,
}
