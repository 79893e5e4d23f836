package expense

import (
	"fmt"
	"time"

	errors "github.com/frahmantamala/recibox/internal"
	"github.com/frahmantamala/recibox/internal/core/common/validation"
)

// ImageInput is one entry in the editor's receipt list. Entries come in two
// shapes: already-persisted receipts carry a Path and are attached as-is,
// fresh picks carry base64 Data and get uploaded before the record is saved.
type ImageInput struct {
	Path string `json:"path,omitempty"`
	URL  string `json:"url,omitempty"`
	Name string `json:"nome,omitempty"`
	Size *int64 `json:"size,omitempty"`

	Data        string `json:"data,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// Pending reports whether this entry still needs an upload.
func (i ImageInput) Pending() bool {
	return i.Path == "" && i.Data != ""
}

// ExpenseDTO is the payload for both create and update. The client sends the
// full editor state each time; image order is preserved.
type ExpenseDTO struct {
	ProjectID   int64        `json:"projeto_id"`
	Description string       `json:"descricao"`
	Amount      float64      `json:"valor"`
	Category    string       `json:"categoria"`
	Notes       string       `json:"observacoes"`
	ExpenseDate time.Time    `json:"data_gasto"`
	Images      []ImageInput `json:"imagens"`
}

func (d ExpenseDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("projeto_id", d.ProjectID).
		Required()
	v.Field("valor", d.Amount).
		Custom(func(value interface{}) *errors.AppError {
			if amount, ok := value.(float64); ok && amount < 0 {
				return errors.NewValidationFieldError("valor", "valor cannot be negative", errors.ErrCodeInvalidAmount)
			}
			return nil
		})
	v.Field("descricao", d.Description).
		MaxLength(500)
	v.Field("observacoes", d.Notes).
		MaxLength(1000)
	v.Field("data_gasto", d.ExpenseDate).
		NotFuture()
	v.Field("imagens", d.Images).
		Custom(func(value interface{}) *errors.AppError {
			images, ok := value.([]ImageInput)
			if !ok {
				return nil
			}
			if len(images) > MaxImages {
				return errors.NewValidationFieldError("imagens",
					fmt.Sprintf("at most %d receipts per expense", MaxImages),
					errors.ErrCodeTooManyImages)
			}
			for _, img := range images {
				if img.Path == "" && img.Data == "" {
					return errors.NewValidationFieldError("imagens",
						"each receipt needs either a stored path or image data",
						errors.ErrCodeValidationFailed)
				}
			}
			return nil
		})
	return v.Validate()
}

type ExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
	Total    int        `json:"total"`
}
