package expense

import (
	"context"
	"encoding/base64"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/recibox/internal"
	"github.com/frahmantamala/recibox/internal/core/events"
	"github.com/frahmantamala/recibox/internal/storage"
)

// Repository defines the data access methods for expenses
type Repository interface {
	Create(expense *Expense) error
	GetByID(userID, id int64) (*Expense, error)
	GetByUserID(userID int64, limit, offset int) ([]*Expense, error)
	GetByProject(userID, projectID int64) ([]*Expense, error)
	Update(expense *Expense) error
	Delete(userID, id int64) error
	ImagePathsByProject(userID, projectID int64) ([]string, error)
	DeleteByProject(userID, projectID int64) error
	TotalsByProject(userID int64) (map[int64]float64, error)
}

// ObjectStore is the slice of the storage layer the editor needs.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath string, data []byte, contentType string) (*storage.ObjectInfo, error)
	Remove(ctx context.Context, paths []string) error
}

// ProjectChecker verifies the target project exists and belongs to the user.
type ProjectChecker interface {
	ProjectExists(userID, projectID int64) (bool, error)
}

// CategoryChecker verifies a category name against the user's categories.
type CategoryChecker interface {
	IsValidCategory(userID int64, name string) bool
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service handles expense business logic
type Service struct {
	repo       Repository
	store      ObjectStore
	projects   ProjectChecker
	categories CategoryChecker
	eventBus   EventPublisher
	logger     *slog.Logger
}

func NewService(repo Repository, store ObjectStore, projects ProjectChecker, categories CategoryChecker, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		store:      store,
		projects:   projects,
		categories: categories,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// CreateExpense validates, uploads any fresh receipts, then writes the
// record. Validation failures never reach the store or the repository.
func (s *Service) CreateExpense(ctx context.Context, userID int64, dto ExpenseDTO) (*Expense, error) {
	if err := s.validate(userID, dto); err != nil {
		return nil, err
	}

	images, err := s.resolveImages(ctx, userID, dto.Images)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expense := &Expense{
		UserID:      userID,
		ProjectID:   dto.ProjectID,
		Description: dto.Description,
		Amount:      dto.Amount,
		Category:    dto.Category,
		Notes:       dto.Notes,
		ExpenseDate: dto.ExpenseDate,
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(expense); err != nil {
		// Uploaded receipts are now orphaned; cleanup is deliberately not
		// attempted, a failed save must not cascade into file deletions.
		s.logger.Error("failed to create expense, uploaded receipts orphaned",
			"error", err, "user_id", userID, "receipts", images.Paths())
		return nil, err
	}

	s.eventBus.Publish(ctx, events.NewExpenseEvent(events.ExpenseCreated, expense.ID, expense.ProjectID, userID, expense.Amount))

	s.logger.Info("expense created",
		"expense_id", expense.ID,
		"user_id", userID,
		"project_id", expense.ProjectID,
		"amount", expense.Amount)
	return expense, nil
}

// UpdateExpense re-saves the full editor state. Receipts that already carry
// a path are attached as-is without re-uploading; only fresh picks hit the
// store.
func (s *Service) UpdateExpense(ctx context.Context, userID, id int64, dto ExpenseDTO) (*Expense, error) {
	if err := s.validate(userID, dto); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.ErrExpenseNotFound
	}

	images, err := s.resolveImages(ctx, userID, dto.Images)
	if err != nil {
		return nil, err
	}

	existing.ProjectID = dto.ProjectID
	existing.Description = dto.Description
	existing.Amount = dto.Amount
	existing.Category = dto.Category
	existing.Notes = dto.Notes
	existing.ExpenseDate = dto.ExpenseDate
	existing.Images = images
	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(existing); err != nil {
		s.logger.Error("failed to update expense, uploaded receipts orphaned",
			"error", err, "expense_id", id, "receipts", images.Paths())
		return nil, err
	}

	s.eventBus.Publish(ctx, events.NewExpenseEvent(events.ExpenseUpdated, existing.ID, existing.ProjectID, userID, existing.Amount))

	return existing, nil
}

// GetExpense returns one expense owned by the caller.
func (s *Service) GetExpense(userID, id int64) (*Expense, error) {
	expense, err := s.repo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, errors.ErrExpenseNotFound
	}
	return expense, nil
}

// ListExpenses returns the caller's expenses, newest first.
func (s *Service) ListExpenses(userID int64, limit, offset int) ([]*Expense, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetByUserID(userID, limit, offset)
}

// ListByProject returns every expense attached to a project.
func (s *Service) ListByProject(userID, projectID int64) ([]*Expense, error) {
	return s.repo.GetByProject(userID, projectID)
}

// DeleteExpense removes the receipt files and then the record. File removal
// is best-effort; a missing object never blocks the delete.
func (s *Service) DeleteExpense(ctx context.Context, userID, id int64) error {
	expense, err := s.repo.GetByID(userID, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return errors.ErrExpenseNotFound
	}

	if paths := expense.Images.Paths(); len(paths) > 0 {
		if err := s.store.Remove(ctx, paths); err != nil {
			s.logger.Warn("failed to remove some receipt files, continuing delete",
				"expense_id", id, "error", err)
		}
	}

	if err := s.repo.Delete(userID, id); err != nil {
		s.logger.Error("failed to delete expense", "expense_id", id, "error", err)
		return err
	}

	s.eventBus.Publish(ctx, events.NewExpenseEvent(events.ExpenseDeleted, id, expense.ProjectID, userID, expense.Amount))

	return nil
}

func (s *Service) validate(userID int64, dto ExpenseDTO) error {
	if err := dto.Validate(); err != nil {
		s.logger.Error("expense validation failed", "error", err, "user_id", userID)
		return err
	}

	exists, err := s.projects.ProjectExists(userID, dto.ProjectID)
	if err != nil {
		s.logger.Error("failed to check project", "error", err, "project_id", dto.ProjectID)
		return err
	}
	if !exists {
		return errors.ErrProjectNotFound
	}

	if dto.Category != "" && !s.categories.IsValidCategory(userID, dto.Category) {
		return errors.NewValidationFieldError("categoria", "unknown category", errors.ErrCodeCategoryNotFound)
	}

	return nil
}

// resolveImages walks the editor's receipt list in order: persisted entries
// are carried forward untouched, pending entries are uploaded one by one.
// The first upload failure aborts the save.
func (s *Service) resolveImages(ctx context.Context, userID int64, inputs []ImageInput) (Images, error) {
	if len(inputs) == 0 {
		return Images{}, nil
	}

	images := make(Images, 0, len(inputs))
	for _, input := range inputs {
		if !input.Pending() {
			images = append(images, Image{
				Path: input.Path,
				URL:  input.URL,
				Name: input.Name,
				Size: input.Size,
			})
			continue
		}

		data, err := base64.StdEncoding.DecodeString(input.Data)
		if err != nil {
			return nil, errors.NewValidationFieldError("imagens", "receipt data is not valid base64", errors.ErrCodeValidationFailed)
		}

		objectPath := storage.ObjectPath(userID, extForContentType(input.ContentType))
		info, err := s.store.Upload(ctx, objectPath, data, input.ContentType)
		if err != nil {
			s.logger.Error("receipt upload failed, aborting save",
				"user_id", userID, "path", objectPath, "error", err)
			return nil, errors.NewInternalError("failed to upload receipt", err)
		}

		images = append(images, Image{
			Path: info.Path,
			URL:  info.URL,
			Name: info.Name,
			Size: info.Size,
		})
	}
	return images, nil
}

func extForContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
