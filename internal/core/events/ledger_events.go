package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	ExpenseCreated = "expense.created"
	ExpenseUpdated = "expense.updated"
	ExpenseDeleted = "expense.deleted"
	ProjectCreated = "project.created"
	ProjectUpdated = "project.updated"
	ProjectDeleted = "project.deleted"
)

func newEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func NewExpenseEvent(eventType string, expenseID, projectID, userID int64, amount float64) BaseEvent {
	return newEvent(eventType, map[string]interface{}{
		"expense_id": expenseID,
		"project_id": projectID,
		"user_id":    userID,
		"amount":     amount,
	})
}

func NewProjectEvent(eventType string, projectID, userID int64, name string) BaseEvent {
	return newEvent(eventType, map[string]interface{}{
		"project_id": projectID,
		"user_id":    userID,
		"name":       name,
	})
}
