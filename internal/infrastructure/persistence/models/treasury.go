package models

import (
	"time"

	"github.com/circleops/treasury/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetModel is the persistence model for the Budget aggregate root.
type BudgetModel struct {
	CircleAggregateModel
	Name       string              `gorm:"type:varchar(100);not null"`
	BudgetType treasury.BudgetType `gorm:"type:varchar(20);not null;index"`
	GroupID    *uuid.UUID          `gorm:"type:uuid;index"`
	FiscalYear int                 `gorm:"not null;default:0"`
	Remark     string              `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToDomain converts the persistence model to a domain Budget entity.
func (m *BudgetModel) ToDomain() *treasury.Budget {
	return &treasury.Budget{
		CircleAggregateRoot: m.circleAggregateRoot(),
		Name:                m.Name,
		BudgetType:          m.BudgetType,
		GroupID:             m.GroupID,
		FiscalYear:          m.FiscalYear,
		Remark:              m.Remark,
	}
}

// FromDomain populates the persistence model from a domain Budget entity.
func (m *BudgetModel) FromDomain(b *treasury.Budget) {
	m.FromDomainCircleAggregateRoot(b.CircleAggregateRoot)
	m.Name = b.Name
	m.BudgetType = b.BudgetType
	m.GroupID = b.GroupID
	m.FiscalYear = b.FiscalYear
	m.Remark = b.Remark
}

// BudgetModelFromDomain creates a new persistence model from a domain Budget.
func BudgetModelFromDomain(b *treasury.Budget) *BudgetModel {
	m := &BudgetModel{}
	m.FromDomain(b)
	return m
}

// FundModel is the persistence model for the Fund aggregate root.
type FundModel struct {
	CircleAggregateModel
	BudgetID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Name     string              `gorm:"type:varchar(100);not null"`
	Status   treasury.FundStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	Remark   string              `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (FundModel) TableName() string {
	return "funds"
}

// ToDomain converts the persistence model to a domain Fund entity.
func (m *FundModel) ToDomain() *treasury.Fund {
	return &treasury.Fund{
		CircleAggregateRoot: m.circleAggregateRoot(),
		BudgetID:            m.BudgetID,
		Name:                m.Name,
		Status:              m.Status,
		Remark:              m.Remark,
	}
}

// FromDomain populates the persistence model from a domain Fund entity.
func (m *FundModel) FromDomain(f *treasury.Fund) {
	m.FromDomainCircleAggregateRoot(f.CircleAggregateRoot)
	m.BudgetID = f.BudgetID
	m.Name = f.Name
	m.Status = f.Status
	m.Remark = f.Remark
}

// FundModelFromDomain creates a new persistence model from a domain Fund.
func FundModelFromDomain(f *treasury.Fund) *FundModel {
	m := &FundModel{}
	m.FromDomain(f)
	return m
}

// ReimbursementModel is the persistence model for the Reimbursement aggregate root.
type ReimbursementModel struct {
	CircleAggregateModel
	FundID              uuid.UUID                    `gorm:"type:uuid;not null;index"`
	UserID              uuid.UUID                    `gorm:"type:uuid;not null;index"`
	RecipientUserID     uuid.UUID                    `gorm:"type:uuid;not null;index"`
	Amount              decimal.Decimal              `gorm:"type:decimal(18,4);not null"`
	Description         string                       `gorm:"type:varchar(500);not null"`
	ExpenseDate         time.Time                    `gorm:"not null;index"`
	Status              treasury.ReimbursementStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ReceiptURL          string                       `gorm:"type:varchar(2000)"`
	ReviewerID          *uuid.UUID                   `gorm:"type:uuid"`
	ReviewedAt          *time.Time
	Notes               string     `gorm:"type:varchar(500)"`
	PaidAt              *time.Time
	RecurringTransferID *uuid.UUID `gorm:"type:uuid;index:idx_reimbursements_generated_period"`
	PeriodStart         *time.Time `gorm:"index:idx_reimbursements_generated_period"`
}

// TableName returns the table name for GORM
func (ReimbursementModel) TableName() string {
	return "reimbursements"
}

// ToDomain converts the persistence model to a domain Reimbursement entity.
func (m *ReimbursementModel) ToDomain() *treasury.Reimbursement {
	return &treasury.Reimbursement{
		CircleAggregateRoot: m.circleAggregateRoot(),
		FundID:              m.FundID,
		UserID:              m.UserID,
		RecipientUserID:     m.RecipientUserID,
		Amount:              m.Amount,
		Description:         m.Description,
		ExpenseDate:         m.ExpenseDate,
		Status:              m.Status,
		ReceiptURL:          m.ReceiptURL,
		ReviewerID:          m.ReviewerID,
		ReviewedAt:          m.ReviewedAt,
		Notes:               m.Notes,
		PaidAt:              m.PaidAt,
		RecurringTransferID: m.RecurringTransferID,
		PeriodStart:         m.PeriodStart,
	}
}

// FromDomain populates the persistence model from a domain Reimbursement entity.
func (m *ReimbursementModel) FromDomain(r *treasury.Reimbursement) {
	m.FromDomainCircleAggregateRoot(r.CircleAggregateRoot)
	m.FundID = r.FundID
	m.UserID = r.UserID
	m.RecipientUserID = r.RecipientUserID
	m.Amount = r.Amount
	m.Description = r.Description
	m.ExpenseDate = r.ExpenseDate
	m.Status = r.Status
	m.ReceiptURL = r.ReceiptURL
	m.ReviewerID = r.ReviewerID
	m.ReviewedAt = r.ReviewedAt
	m.Notes = r.Notes
	m.PaidAt = r.PaidAt
	m.RecurringTransferID = r.RecurringTransferID
	m.PeriodStart = r.PeriodStart
}

// ReimbursementModelFromDomain creates a new persistence model from a domain Reimbursement.
func ReimbursementModelFromDomain(r *treasury.Reimbursement) *ReimbursementModel {
	m := &ReimbursementModel{}
	m.FromDomain(r)
	return m
}

// ChargeModel is the persistence model for the Charge aggregate root.
type ChargeModel struct {
	CircleAggregateModel
	FundID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Description string                `gorm:"type:varchar(500);not null"`
	ChargeDate  time.Time             `gorm:"not null;index"`
	Status      treasury.ChargeStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ReviewerID  *uuid.UUID            `gorm:"type:uuid"`
	ReviewedAt  *time.Time
	Notes       string `gorm:"type:varchar(500)"`
	SettledAt   *time.Time
}

// TableName returns the table name for GORM
func (ChargeModel) TableName() string {
	return "charges"
}

// ToDomain converts the persistence model to a domain Charge entity.
func (m *ChargeModel) ToDomain() *treasury.Charge {
	return &treasury.Charge{
		CircleAggregateRoot: m.circleAggregateRoot(),
		FundID:              m.FundID,
		UserID:              m.UserID,
		Amount:              m.Amount,
		Description:         m.Description,
		ChargeDate:          m.ChargeDate,
		Status:              m.Status,
		ReviewerID:          m.ReviewerID,
		ReviewedAt:          m.ReviewedAt,
		Notes:               m.Notes,
		SettledAt:           m.SettledAt,
	}
}

// FromDomain populates the persistence model from a domain Charge entity.
func (m *ChargeModel) FromDomain(c *treasury.Charge) {
	m.FromDomainCircleAggregateRoot(c.CircleAggregateRoot)
	m.FundID = c.FundID
	m.UserID = c.UserID
	m.Amount = c.Amount
	m.Description = c.Description
	m.ChargeDate = c.ChargeDate
	m.Status = c.Status
	m.ReviewerID = c.ReviewerID
	m.ReviewedAt = c.ReviewedAt
	m.Notes = c.Notes
	m.SettledAt = c.SettledAt
}

// ChargeModelFromDomain creates a new persistence model from a domain Charge.
func ChargeModelFromDomain(c *treasury.Charge) *ChargeModel {
	m := &ChargeModel{}
	m.FromDomain(c)
	return m
}

// DirectExpenseModel is the persistence model for DirectExpense entries.
type DirectExpenseModel struct {
	CircleAggregateModel
	FundID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ApartmentID *uuid.UUID      `gorm:"type:uuid;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Description string          `gorm:"type:varchar(500);not null"`
	IncurredAt  time.Time       `gorm:"not null;index"`
	EnteredByID uuid.UUID       `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (DirectExpenseModel) TableName() string {
	return "direct_expenses"
}

// ToDomain converts the persistence model to a domain DirectExpense entity.
func (m *DirectExpenseModel) ToDomain() *treasury.DirectExpense {
	return &treasury.DirectExpense{
		CircleAggregateRoot: m.circleAggregateRoot(),
		FundID:              m.FundID,
		ApartmentID:         m.ApartmentID,
		Amount:              m.Amount,
		Description:         m.Description,
		IncurredAt:          m.IncurredAt,
		EnteredByID:         m.EnteredByID,
	}
}

// FromDomain populates the persistence model from a domain DirectExpense entity.
func (m *DirectExpenseModel) FromDomain(d *treasury.DirectExpense) {
	m.FromDomainCircleAggregateRoot(d.CircleAggregateRoot)
	m.FundID = d.FundID
	m.ApartmentID = d.ApartmentID
	m.Amount = d.Amount
	m.Description = d.Description
	m.IncurredAt = d.IncurredAt
	m.EnteredByID = d.EnteredByID
}

// DirectExpenseModelFromDomain creates a new persistence model from a domain DirectExpense.
func DirectExpenseModelFromDomain(d *treasury.DirectExpense) *DirectExpenseModel {
	m := &DirectExpenseModel{}
	m.FromDomain(d)
	return m
}

// PlannedExpenseModel is the persistence model for PlannedExpense entries.
type PlannedExpenseModel struct {
	CircleAggregateModel
	FundID      uuid.UUID                     `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	Description string                        `gorm:"type:varchar(500);not null"`
	DueDate     time.Time                     `gorm:"not null;index"`
	Status      treasury.PlannedExpenseStatus `gorm:"type:varchar(20);not null;default:'PLANNED';index"`
}

// TableName returns the table name for GORM
func (PlannedExpenseModel) TableName() string {
	return "planned_expenses"
}

// ToDomain converts the persistence model to a domain PlannedExpense entity.
func (m *PlannedExpenseModel) ToDomain() *treasury.PlannedExpense {
	return &treasury.PlannedExpense{
		CircleAggregateRoot: m.circleAggregateRoot(),
		FundID:              m.FundID,
		Amount:              m.Amount,
		Description:         m.Description,
		DueDate:             m.DueDate,
		Status:              m.Status,
	}
}

// FromDomain populates the persistence model from a domain PlannedExpense entity.
func (m *PlannedExpenseModel) FromDomain(p *treasury.PlannedExpense) {
	m.FromDomainCircleAggregateRoot(p.CircleAggregateRoot)
	m.FundID = p.FundID
	m.Amount = p.Amount
	m.Description = p.Description
	m.DueDate = p.DueDate
	m.Status = p.Status
}

// PlannedExpenseModelFromDomain creates a new persistence model from a domain PlannedExpense.
func PlannedExpenseModelFromDomain(p *treasury.PlannedExpense) *PlannedExpenseModel {
	m := &PlannedExpenseModel{}
	m.FromDomain(p)
	return m
}

// RecurringTransferModel is the persistence model for RecurringTransfer definitions.
type RecurringTransferModel struct {
	CircleAggregateModel
	RecipientUserID uuid.UUID                        `gorm:"type:uuid;not null;index"`
	FundID          uuid.UUID                        `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal                  `gorm:"type:decimal(18,4);not null"`
	Description     string                           `gorm:"type:varchar(500);not null"`
	Frequency       treasury.Frequency               `gorm:"type:varchar(20);not null"`
	StartDate       time.Time                        `gorm:"not null"`
	EndDate         *time.Time
	Status          treasury.RecurringTransferStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
}

// TableName returns the table name for GORM
func (RecurringTransferModel) TableName() string {
	return "recurring_transfers"
}

// ToDomain converts the persistence model to a domain RecurringTransfer entity.
func (m *RecurringTransferModel) ToDomain() *treasury.RecurringTransfer {
	return &treasury.RecurringTransfer{
		CircleAggregateRoot: m.circleAggregateRoot(),
		RecipientUserID:     m.RecipientUserID,
		FundID:              m.FundID,
		Amount:              m.Amount,
		Description:         m.Description,
		Frequency:           m.Frequency,
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		Status:              m.Status,
	}
}

// FromDomain populates the persistence model from a domain RecurringTransfer entity.
func (m *RecurringTransferModel) FromDomain(r *treasury.RecurringTransfer) {
	m.FromDomainCircleAggregateRoot(r.CircleAggregateRoot)
	m.RecipientUserID = r.RecipientUserID
	m.FundID = r.FundID
	m.Amount = r.Amount
	m.Description = r.Description
	m.Frequency = r.Frequency
	m.StartDate = r.StartDate
	m.EndDate = r.EndDate
	m.Status = r.Status
}

// RecurringTransferModelFromDomain creates a new persistence model from a domain RecurringTransfer.
func RecurringTransferModelFromDomain(r *treasury.RecurringTransfer) *RecurringTransferModel {
	m := &RecurringTransferModel{}
	m.FromDomain(r)
	return m
}

// PaymentTransferModel is the persistence model for the PaymentTransfer aggregate root.
// The pending-transfer uniqueness per (circle, recipient, scope) is enforced by a
// partial unique index in the SQL migrations.
type PaymentTransferModel struct {
	CircleAggregateModel
	RecipientUserID    uuid.UUID                      `gorm:"type:uuid;not null;index"`
	BudgetType         treasury.BudgetType            `gorm:"type:varchar(20);not null;index"`
	GroupID            *uuid.UUID                     `gorm:"type:uuid;index"`
	TotalAmount        decimal.Decimal                `gorm:"type:decimal(18,4);not null"`
	ReimbursementCount int                            `gorm:"not null;default:0"`
	Status             treasury.PaymentTransferStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ExecutedAt         *time.Time
	ExecutedByID       *uuid.UUID                 `gorm:"type:uuid"`
	Items              []PaymentTransferItemModel `gorm:"foreignKey:TransferID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PaymentTransferModel) TableName() string {
	return "payment_transfers"
}

// ToDomain converts the persistence model to a domain PaymentTransfer entity.
func (m *PaymentTransferModel) ToDomain() *treasury.PaymentTransfer {
	items := make([]treasury.TransferItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, treasury.TransferItem{
			ItemType: item.ItemType,
			ItemID:   item.ItemID,
		})
	}
	return &treasury.PaymentTransfer{
		CircleAggregateRoot: m.circleAggregateRoot(),
		RecipientUserID:     m.RecipientUserID,
		BudgetType:          m.BudgetType,
		GroupID:             m.GroupID,
		TotalAmount:         m.TotalAmount,
		ReimbursementCount:  m.ReimbursementCount,
		Status:              m.Status,
		ExecutedAt:          m.ExecutedAt,
		ExecutedByID:        m.ExecutedByID,
		Items:               items,
	}
}

// FromDomain populates the persistence model from a domain PaymentTransfer entity.
func (m *PaymentTransferModel) FromDomain(p *treasury.PaymentTransfer) {
	m.FromDomainCircleAggregateRoot(p.CircleAggregateRoot)
	m.RecipientUserID = p.RecipientUserID
	m.BudgetType = p.BudgetType
	m.GroupID = p.GroupID
	m.TotalAmount = p.TotalAmount
	m.ReimbursementCount = p.ReimbursementCount
	m.Status = p.Status
	m.ExecutedAt = p.ExecutedAt
	m.ExecutedByID = p.ExecutedByID
	m.Items = make([]PaymentTransferItemModel, 0, len(p.Items))
	for _, item := range p.Items {
		m.Items = append(m.Items, PaymentTransferItemModel{
			TransferID: p.ID,
			ItemType:   item.ItemType,
			ItemID:     item.ItemID,
		})
	}
}

// PaymentTransferModelFromDomain creates a new persistence model from a domain PaymentTransfer.
func PaymentTransferModelFromDomain(p *treasury.PaymentTransfer) *PaymentTransferModel {
	m := &PaymentTransferModel{}
	m.FromDomain(p)
	return m
}

// PaymentTransferItemModel is the join table holding the weak back-references
// from a payment transfer to the records netted into it.
type PaymentTransferItemModel struct {
	TransferID uuid.UUID                 `gorm:"type:uuid;primary_key"`
	ItemType   treasury.TransferItemType `gorm:"type:varchar(20);primary_key"`
	ItemID     uuid.UUID                 `gorm:"type:uuid;primary_key;index"`
}

// TableName returns the table name for GORM
func (PaymentTransferItemModel) TableName() string {
	return "payment_transfer_items"
}
