package user

import (
	"log/slog"
)

type RepositoryAPI interface {
	GetByID(id int64) (*User, error)
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

func (s *Service) GetUser(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to load user", "user_id", id, "error", err)
		return nil, err
	}
	return u, nil
}
