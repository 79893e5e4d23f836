package project

import (
	"context"
	"log/slog"
	"sort"
	"time"

	errors "github.com/frahmantamala/recibox/internal"
	"github.com/frahmantamala/recibox/internal/core/events"
)

// Repository defines the data access methods for projects
type Repository interface {
	Create(project *Project) error
	GetByID(userID, id int64) (*Project, error)
	GetAllForUser(userID int64) ([]*Project, error)
	Update(project *Project) error
	Delete(userID, id int64) error
}

// ExpenseRepository is the slice of the expense store the cascade needs.
type ExpenseRepository interface {
	ImagePathsByProject(userID, projectID int64) ([]string, error)
	DeleteByProject(userID, projectID int64) error
	TotalsByProject(userID int64) (map[int64]float64, error)
}

// ObjectStore removes receipt files during a cascade.
type ObjectStore interface {
	Remove(ctx context.Context, paths []string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service handles project business logic
type Service struct {
	repo        Repository
	expenseRepo ExpenseRepository
	store       ObjectStore
	eventBus    EventPublisher
	logger      *slog.Logger
}

func NewService(repo Repository, expenseRepo ExpenseRepository, store ObjectStore, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		expenseRepo: expenseRepo,
		store:       store,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// CreateProject validates and persists a new project for the user.
func (s *Service) CreateProject(ctx context.Context, userID int64, dto ProjectDTO) (*ProjectResponse, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("project validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	status := dto.Status
	if status == "" {
		status = StatusActive
	}

	now := time.Now()
	project := &Project{
		UserID:      userID,
		Name:        dto.Name,
		Description: dto.Description,
		Status:      status,
		Budget:      dto.Budget,
		StartDate:   dto.StartDate,
		EndDate:     dto.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(project); err != nil {
		s.logger.Error("failed to create project", "error", err, "user_id", userID)
		return nil, err
	}

	s.eventBus.Publish(ctx, events.NewProjectEvent(events.ProjectCreated, project.ID, userID, project.Name))

	s.logger.Info("project created", "project_id", project.ID, "user_id", userID)
	return s.toResponse(project, 0), nil
}

// UpdateProject applies the full editor state to an existing project.
func (s *Service) UpdateProject(ctx context.Context, userID, id int64, dto ProjectDTO) (*ProjectResponse, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("project validation failed", "error", err, "user_id", userID, "project_id", id)
		return nil, err
	}

	project, err := s.repo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errors.ErrProjectNotFound
	}

	project.Name = dto.Name
	project.Description = dto.Description
	if dto.Status != "" {
		project.Status = dto.Status
	}
	project.Budget = dto.Budget
	project.StartDate = dto.StartDate
	project.EndDate = dto.EndDate
	project.UpdatedAt = time.Now()

	if err := s.repo.Update(project); err != nil {
		s.logger.Error("failed to update project", "error", err, "project_id", id)
		return nil, err
	}

	s.eventBus.Publish(ctx, events.NewProjectEvent(events.ProjectUpdated, project.ID, userID, project.Name))

	totalSpent := s.totalSpentFor(userID, id)
	return s.toResponse(project, totalSpent), nil
}

// GetProject returns one project with its derived spend and progress.
func (s *Service) GetProject(userID, id int64) (*ProjectResponse, error) {
	project, err := s.repo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errors.ErrProjectNotFound
	}

	return s.toResponse(project, s.totalSpentFor(userID, id)), nil
}

// ListProjects returns the user's projects plus portfolio stats. The status
// filter narrows the returned list but stats always cover every project.
func (s *Service) ListProjects(userID int64, statusFilter string) (*ProjectsResponse, error) {
	if statusFilter != "" && !ValidStatus(statusFilter) {
		return nil, errors.NewValidationError("invalid status filter", errors.ErrCodeInvalidStatus)
	}

	projects, err := s.repo.GetAllForUser(userID)
	if err != nil {
		s.logger.Error("failed to list projects", "error", err, "user_id", userID)
		return nil, err
	}

	totals, err := s.expenseRepo.TotalsByProject(userID)
	if err != nil {
		s.logger.Warn("failed to load project totals, rendering zeros", "error", err, "user_id", userID)
		totals = map[int64]float64{}
	}

	now := time.Now()
	stats := ProjectStats{Total: len(projects)}
	filtered := make([]ProjectResponse, 0, len(projects))

	for _, p := range projects {
		switch p.Status {
		case StatusActive:
			stats.Active++
		case StatusPaused:
			stats.Paused++
		case StatusCompleted:
			stats.Completed++
		}
		if p.IsOverdue(now) {
			stats.Overdue++
		}

		if statusFilter != "" && p.Status != statusFilter {
			continue
		}
		filtered = append(filtered, *s.toResponse(p, totals[p.ID]))
	}

	return &ProjectsResponse{Projects: filtered, Stats: stats}, nil
}

// DeleteProject removes a project and everything hanging off it. Order
// matters: receipt files go first and are best-effort, then dependent
// expenses, then the project row. A failed expense delete aborts the
// cascade so the project is never orphaned from its expenses.
func (s *Service) DeleteProject(ctx context.Context, userID, id int64) error {
	project, err := s.repo.GetByID(userID, id)
	if err != nil {
		return err
	}
	if project == nil {
		return errors.ErrProjectNotFound
	}

	paths, err := s.expenseRepo.ImagePathsByProject(userID, id)
	if err != nil {
		s.logger.Warn("failed to collect receipt paths, skipping file cleanup",
			"project_id", id, "error", err)
		paths = nil
	}

	if len(paths) > 0 {
		if err := s.store.Remove(ctx, paths); err != nil {
			s.logger.Warn("failed to remove some receipt files, continuing cascade",
				"project_id", id, "paths", len(paths), "error", err)
		}
	}

	if err := s.expenseRepo.DeleteByProject(userID, id); err != nil {
		s.logger.Error("failed to delete project expenses, aborting cascade",
			"project_id", id, "error", err)
		return errors.NewInternalError("failed to delete project expenses", err)
	}

	if err := s.repo.Delete(userID, id); err != nil {
		s.logger.Error("failed to delete project", "project_id", id, "error", err)
		return err
	}

	s.eventBus.Publish(ctx, events.NewProjectEvent(events.ProjectDeleted, id, userID, project.Name))

	s.logger.Info("project deleted", "project_id", id, "user_id", userID, "receipts_removed", len(paths))
	return nil
}

// ProjectExists reports whether the project exists and belongs to the user.
// The expense editor calls this before accepting a save.
func (s *Service) ProjectExists(userID, id int64) (bool, error) {
	project, err := s.repo.GetByID(userID, id)
	if err != nil {
		return false, err
	}
	return project != nil, nil
}

// ActiveProjects returns the pick list for the expense editor, ordered by
// name.
func (s *Service) ActiveProjects(userID int64) ([]Project, error) {
	projects, err := s.repo.GetAllForUser(userID)
	if err != nil {
		return nil, err
	}

	active := make([]Project, 0, len(projects))
	for _, p := range projects {
		if p.Status == StatusActive {
			active = append(active, *p)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].Name < active[j].Name
	})
	return active, nil
}

func (s *Service) totalSpentFor(userID, projectID int64) float64 {
	totals, err := s.expenseRepo.TotalsByProject(userID)
	if err != nil {
		s.logger.Warn("failed to load project total, rendering zero", "project_id", projectID, "error", err)
		return 0
	}
	return totals[projectID]
}

func (s *Service) toResponse(p *Project, totalSpent float64) *ProjectResponse {
	now := time.Now()
	return &ProjectResponse{
		Project:    *p,
		TotalSpent: totalSpent,
		Progress:   p.Progress(now),
		Overdue:    p.IsOverdue(now),
	}
}
