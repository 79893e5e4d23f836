package user

import "time"

// User is the profile as exposed on /users/me. The dashboard greeting uses
// Name and falls back to the email local part when it is empty.
type User struct {
	ID        int64     `json:"id" gorm:"column:id;primaryKey"`
	Email     string    `json:"email" gorm:"column:email"`
	Name      string    `json:"name" gorm:"column:name"`
	IsActive  bool      `json:"is_active" gorm:"column:is_active"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName returns what the client should greet the user with.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	for i, c := range u.Email {
		if c == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}
