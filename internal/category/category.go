package category

import (
	"time"
)

// Category is a spending category. Rows are owner scoped; the seeder creates
// a default set per user.
type Category struct {
	ID        int64     `json:"id" gorm:"column:id;primaryKey"`
	UserID    int64     `json:"user_id" gorm:"column:user_id"`
	Name      string    `json:"nome" gorm:"column:nome"`
	Color     string    `json:"cor" gorm:"column:cor"`
	Icon      string    `json:"icone" gorm:"column:icone"`
	IsActive  bool      `json:"is_active" gorm:"column:ativo"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Category) TableName() string {
	return "categorias"
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		ID:    c.ID,
		Name:  c.Name,
		Color: c.Color,
		Icon:  c.Icon,
	}
}
