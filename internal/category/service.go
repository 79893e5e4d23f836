package category

import (
	"log/slog"

	internal "github.com/frahmantamala/recibox/internal"
)

type RepositoryAPI interface {
	GetAllForUser(userID int64) ([]*Category, error)
	GetByID(userID, id int64) (*Category, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetAllCategories returns the caller's active categories.
func (s *Service) GetAllCategories(userID int64) ([]CategoryResponse, error) {
	categories, err := s.repo.GetAllForUser(userID)
	if err != nil {
		s.logger.Error("failed to get categories from repository", "user_id", userID, "error", err)
		return nil, err
	}

	var responses []CategoryResponse
	for _, c := range categories {
		if c.IsActive {
			responses = append(responses, c.ToResponse())
		}
	}

	return responses, nil
}

// GetCategory returns a single category owned by the caller.
func (s *Service) GetCategory(userID, id int64) (*CategoryResponse, error) {
	c, err := s.repo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if c == nil || !c.IsActive {
		return nil, internal.ErrCategoryNotFound
	}
	resp := c.ToResponse()
	return &resp, nil
}

// IsValidCategory reports whether the name belongs to one of the caller's
// active categories. Expense saves call this before any write.
func (s *Service) IsValidCategory(userID int64, name string) bool {
	if name == "" {
		return false
	}
	categories, err := s.repo.GetAllForUser(userID)
	if err != nil {
		s.logger.Error("failed to look up categories", "user_id", userID, "error", err)
		return false
	}
	for _, c := range categories {
		if c.IsActive && c.Name == name {
			return true
		}
	}
	return false
}
