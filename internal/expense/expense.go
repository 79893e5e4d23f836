package expense

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MaxImages caps the receipts attached to a single expense.
const MaxImages = 3

// Image is a persisted receipt reference as stored inside the expense row.
type Image struct {
	Path string `json:"path"`
	URL  string `json:"url"`
	Name string `json:"nome"`
	Size *int64 `json:"size,omitempty"`
}

// Images serializes to a JSON column so receipts live and die with their
// expense row.
type Images []Image

func (im Images) Value() (driver.Value, error) {
	if im == nil {
		return "[]", nil
	}
	b, err := json.Marshal(im)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (im *Images) Scan(value interface{}) error {
	if value == nil {
		*im = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, im)
	case string:
		return json.Unmarshal([]byte(v), im)
	}
	return fmt.Errorf("unsupported type for images column: %T", value)
}

// Paths returns the storage paths of every attached receipt.
func (im Images) Paths() []string {
	paths := make([]string, 0, len(im))
	for _, img := range im {
		if img.Path != "" {
			paths = append(paths, img.Path)
		}
	}
	return paths
}

type Expense struct {
	ID          int64     `json:"id" gorm:"column:id;primaryKey"`
	UserID      int64     `json:"user_id" gorm:"column:user_id"`
	ProjectID   int64     `json:"projeto_id" gorm:"column:projeto_id"`
	Description string    `json:"descricao" gorm:"column:descricao"`
	Amount      float64   `json:"valor" gorm:"column:valor"`
	Category    string    `json:"categoria" gorm:"column:categoria"`
	Notes       string    `json:"observacoes" gorm:"column:observacoes"`
	ExpenseDate time.Time `json:"data_gasto" gorm:"column:data_gasto"`
	Images      Images    `json:"imagens" gorm:"column:imagens;type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Expense) TableName() string {
	return "gastos"
}
