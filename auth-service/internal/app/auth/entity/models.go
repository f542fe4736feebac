package entity

import "time"

// User представляет пользователя в системе
type User struct {
	ID          int64  `json:"id" db:"id"`
	Username    string `json:"username" db:"username"`
	Email       string `json:"email" db:"email"`
	PhoneNumber string `json:"phone_number,omitempty" db:"phone_number"`
	// Пароль принимается на входе и никогда не сериализуется наружу
	PasswordHash string `json:"-" db:"password_hash"`
	IsAdmin      bool   `json:"is_admin" db:"is_admin"`
	// Служебная отметка времени наружу не отдается
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// RefreshToken хранит refresh токены для обновления JWT
type RefreshToken struct {
	UserID    int64     `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenPair содержит access и refresh токены
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	// Время жизни access токена в секундах
	ExpiresIn int64 `json:"expires_in"`
}
