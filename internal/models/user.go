package models

import (
	"time"

	"github.com/google/uuid"
)

// User - модель пользователя в системе.
//
// PasswordHash хранит bcrypt-хэш и никогда не сериализуется наружу.
// IsSuperuser по умолчанию false; признак staff производный от него.
type User struct {
	ID           uuid.UUID
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsStaff — пользователь считается staff, если он суперпользователь.
func (u *User) IsStaff() bool {
	return u.IsSuperuser
}

// HasPerm — упрощённая модель прав: суперпользователю разрешено всё.
func (u *User) HasPerm(string) bool {
	return u.IsSuperuser
}
