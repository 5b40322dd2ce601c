package models

import "time"

type ProjectMember struct {
	ProjectID string    `gorm:"primarykey;type:varchar(36)" bson:"-" json:"-"`
	UserID    string    `gorm:"primarykey;type:varchar(36)" bson:"user_id" json:"user_id"`
	Role      Role      `gorm:"type:varchar(20);not null" bson:"role" json:"role"`
	Position  int       `gorm:"not null;default:0" bson:"-" json:"-"`
	JoinedAt  time.Time `bson:"joined_at" json:"joined_at"`
}
