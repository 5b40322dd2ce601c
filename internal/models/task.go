package models

import (
	"time"

	"gorm.io/datatypes"
)

type Attachment struct {
	Kind string `bson:"kind" json:"kind"`
	URL  string `bson:"url" json:"url"`
}

type Task struct {
	ID          string                          `gorm:"primarykey;type:varchar(36)" bson:"_id" json:"id"`
	ProjectID   string                          `gorm:"type:varchar(36);not null;index" bson:"-" json:"project_id"`
	Title       string                          `gorm:"type:varchar(100);not null" bson:"title" json:"title"`
	Description string                          `gorm:"type:text;not null" bson:"description" json:"description"`
	Stage       Stage                           `gorm:"type:varchar(20);not null;default:'Requested'" bson:"stage" json:"stage"`
	Order       int                             `gorm:"column:sort_order;not null;default:0" bson:"order" json:"order"`
	Index       int                             `gorm:"column:task_index;not null" bson:"index" json:"index"`
	Attachments datatypes.JSONSlice[Attachment] `bson:"attachments" json:"attachments"`
	CreatedAt   time.Time                       `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time                       `bson:"updated_at" json:"updated_at"`
}
