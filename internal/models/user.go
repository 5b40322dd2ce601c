package models

import "time"

type User struct {
	ID           string    `gorm:"primarykey;type:varchar(36)" bson:"_id" json:"id"`
	Username     string    `gorm:"type:varchar(30);not null" bson:"username" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" bson:"email" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" bson:"password_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}
