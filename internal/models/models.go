package models

import (
	"time"
)

type Medicine struct {
	ID          string  `gorm:"primaryKey"                json:"id"`
	Name        string  `gorm:"not null"                  json:"name"`
	Category    string  `gorm:"index;not null"            json:"category"`
	Price       float64 `gorm:"not null"                  json:"price"`
	Description string  `gorm:"not null"                  json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Stock       uint    `json:"stock"`
	AIHint      string  `json:"dataAiHint,omitempty"`
}

type Category struct {
	ID          string `gorm:"primaryKey"  json:"id"`
	Name        string `gorm:"not null"    json:"name"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description,omitempty"`
	AIHint      string `json:"dataAiHint,omitempty"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name         string `gorm:"not null"                  json:"name"`
	Email        string `gorm:"uniqueIndex;not null"      json:"email"`
	Phone        string `gorm:"not null"                  json:"phone"`
	PasswordHash string `gorm:"not null"                  json:"-"`
	Address      string `json:"address"`
	Role         string `gorm:"not null;default:user"     json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	Role      string `gorm:"not null"            json:"role"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}

type Order struct {
	ID        uint    `gorm:"primaryKey"      json:"id"`
	UserID    uint    `gorm:"index;not null"  json:"user_id"`
	Total     float64 `gorm:"not null"        json:"total"`
	Status    string  `gorm:"not null"        json:"status"`
	CreatedAt int64   `gorm:"not null"        json:"created_at"`
}

type OrderItem struct {
	ID         uint    `gorm:"primaryKey"      json:"id"`
	OrderID    uint    `gorm:"index;not null"  json:"order_id"`
	UserID     uint    `gorm:"not null"        json:"user_id"`
	MedicineID string  `gorm:"not null"        json:"medicine_id"`
	Quantity   uint    `gorm:"not null"        json:"quantity"`
	Price      float64 `gorm:"not null"        json:"price"`
}

// SessionRecord is one persisted session blob keyed by the client's session
// cookie. The blob holds the full serialized session+cart state.
type SessionRecord struct {
	Key       string    `gorm:"primaryKey"  json:"key"`
	Blob      []byte    `gorm:"not null"    json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}
