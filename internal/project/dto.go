package project

import (
	"time"

	errors "github.com/frahmantamala/recibox/internal"
	"github.com/frahmantamala/recibox/internal/core/common/validation"
)

// ProjectDTO is the payload for both create and update. The client sends the
// full editor state each time.
type ProjectDTO struct {
	Name        string     `json:"nome"`
	Description string     `json:"descricao"`
	Status      string     `json:"status"`
	Budget      float64    `json:"orcamento"`
	StartDate   *time.Time `json:"data_inicio"`
	EndDate     *time.Time `json:"data_fim"`
}

func (d ProjectDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("nome", d.Name).
		Required().
		MaxLength(200)
	v.Field("status", d.Status).
		OneOf(StatusActive, StatusPaused, StatusCompleted)
	v.Field("orcamento", d.Budget).
		Custom(func(value interface{}) *errors.AppError {
			if budget, ok := value.(float64); ok && budget < 0 {
				return errors.NewValidationFieldError("orcamento", "orcamento cannot be negative", errors.ErrCodeInvalidAmount)
			}
			return nil
		})
	if d.StartDate != nil && d.EndDate != nil {
		v.Field("data_fim", *d.EndDate).
			NotBefore(*d.StartDate, "data_inicio")
	}
	return v.Validate()
}

// ProjectResponse decorates a project with its derived numbers. Progress is
// null when the project has no schedule to measure against.
type ProjectResponse struct {
	Project
	TotalSpent float64  `json:"total_gasto"`
	Progress   *float64 `json:"progresso"`
	Overdue    bool     `json:"atrasado"`
}

type ProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Stats    ProjectStats      `json:"stats"`
}

// ProjectStats summarizes a user's project portfolio for the list screen.
type ProjectStats struct {
	Total     int `json:"total"`
	Active    int `json:"ativos"`
	Paused    int `json:"pausados"`
	Completed int `json:"concluidos"`
	Overdue   int `json:"atrasados"`
}
