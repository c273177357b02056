// Package models содержит доменные модели планировщика питания:
// пользователя, состояние дашборда (кладовая, план питания, цели по калориям)
// и общие ошибки бизнес-логики. Структуры используются и хранилищами,
// и HTTP-слоем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           string    `json:"id"`           // Уникальный идентификатор пользователя (uuid)
	Name         string    `json:"name"`         // Отображаемое имя
	Email        string    `json:"email"`        // Электронная почта, уникальна без учёта регистра
	PasswordHash string    `json:"passwordHash"` // bcrypt-хэш пароля
	CreatedAt    time.Time `json:"createdAt"`    // Дата регистрации
}

// PublicUser — представление пользователя без секретов, отдаётся клиенту.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public возвращает публичное представление пользователя.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
