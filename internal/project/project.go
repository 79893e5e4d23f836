package project

import (
	"time"
)

// Project statuses as persisted. The mobile client renders these verbatim.
const (
	StatusActive    = "ativo"
	StatusPaused    = "pausado"
	StatusCompleted = "concluido"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

type Project struct {
	ID          int64      `json:"id" gorm:"column:id;primaryKey"`
	UserID      int64      `json:"user_id" gorm:"column:user_id"`
	Name        string     `json:"nome" gorm:"column:nome"`
	Description string     `json:"descricao" gorm:"column:descricao"`
	Status      string     `json:"status" gorm:"column:status"`
	Budget      float64    `json:"orcamento" gorm:"column:orcamento"`
	StartDate   *time.Time `json:"data_inicio" gorm:"column:data_inicio"`
	EndDate     *time.Time `json:"data_fim" gorm:"column:data_fim"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Project) TableName() string {
	return "projetos"
}

// Progress returns elapsed-days over total-days clamped to [0,1], or nil
// when either date is missing. A zero-length schedule reads as complete
// once its start day arrives.
func (p *Project) Progress(now time.Time) *float64 {
	if p.StartDate == nil || p.EndDate == nil {
		return nil
	}

	start := truncateToDay(*p.StartDate)
	end := truncateToDay(*p.EndDate)
	today := truncateToDay(now)

	totalDays := end.Sub(start).Hours() / 24
	elapsedDays := today.Sub(start).Hours() / 24

	var progress float64
	if totalDays <= 0 {
		if elapsedDays >= 0 {
			progress = 1
		}
	} else {
		progress = elapsedDays / totalDays
	}

	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return &progress
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsOverdue reports whether the end date has passed without the project
// reaching completion. Projects without an end date never go overdue.
func (p *Project) IsOverdue(now time.Time) bool {
	if p.EndDate == nil {
		return false
	}
	if p.Status == StatusCompleted {
		return false
	}
	return p.EndDate.Before(truncateToDay(now))
}
