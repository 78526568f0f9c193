package services

import (
	"context"
	"strings"

	apierrors "github.com/seva-trust/portal-backend/pkg/errors"
	"github.com/seva-trust/portal-backend/v1/models"
	"gorm.io/gorm"
)

// ExpenseService handles expense CRUD operations
type ExpenseService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewExpenseService creates a new expense service
func NewExpenseService(db *gorm.DB, audit *AuditService) *ExpenseService {
	return &ExpenseService{db: db, audit: audit}
}

// Create persists a new expense
func (s *ExpenseService) Create(ctx context.Context, expense *models.Expense, actorID string) (*models.Expense, error) {
	if expense.Title == "" {
		return nil, apierrors.ValidationError("title is required")
	}
	if expense.Amount <= 0 {
		return nil, apierrors.ValidationError("amount must be positive")
	}

	if err := s.db.WithContext(ctx).Create(expense).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to create expense", err)
	}

	s.audit.Record(ctx, "Expense", expense.ExpenseID, models.AuditActionCreate, actorID, nil, expense)
	return expense, nil
}

// Get retrieves an expense by ID
func (s *ExpenseService) Get(ctx context.Context, expenseID string) (*models.Expense, error) {
	return s.find(ctx, expenseID)
}

// List retrieves expenses, newest date first, with optional search over
// title/notes and a category filter.
func (s *ExpenseService) List(ctx context.Context, search, category string) ([]models.Expense, error) {
	query := s.db.WithContext(ctx).Model(&models.Expense{})
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(notes) LIKE ?", pattern, pattern)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var expenses []models.Expense
	if err := query.Order("date DESC").Find(&expenses).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to list expenses", err)
	}
	return expenses, nil
}

// Update applies a full-field overwrite of an existing expense
func (s *ExpenseService) Update(ctx context.Context, expenseID string, updated *models.Expense, actorID string) (*models.Expense, error) {
	if updated.Title == "" {
		return nil, apierrors.ValidationError("title is required")
	}
	if updated.Amount <= 0 {
		return nil, apierrors.ValidationError("amount must be positive")
	}

	existing, err := s.find(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	before := *existing
	existing.Title = updated.Title
	existing.Amount = updated.Amount
	existing.Category = updated.Category
	existing.Date = updated.Date
	existing.PaidBy = updated.PaidBy
	existing.Notes = updated.Notes
	if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to update expense", err)
	}

	s.audit.Record(ctx, "Expense", expenseID, models.AuditActionUpdate, actorID, before, existing)
	return existing, nil
}

// Delete removes an expense
func (s *ExpenseService) Delete(ctx context.Context, expenseID, actorID string) error {
	existing, err := s.find(ctx, expenseID)
	if err != nil {
		return err
	}

	before := *existing
	if err := s.db.WithContext(ctx).Delete(existing).Error; err != nil {
		return apierrors.InternalErrorWithCause("failed to delete expense", err)
	}

	s.audit.Record(ctx, "Expense", expenseID, models.AuditActionDelete, actorID, before, nil)
	return nil
}

func (s *ExpenseService) find(ctx context.Context, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	err := s.db.WithContext(ctx).First(&expense, "expense_id = ?", expenseID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apierrors.NotFoundError("Expense")
		}
		return nil, apierrors.InternalErrorWithCause("failed to fetch expense", err)
	}
	return &expense, nil
}
