package models

import "time"

type Project struct {
	ID            string    `gorm:"primarykey;type:varchar(36)" bson:"_id" json:"id"`
	Title         string    `gorm:"type:varchar(100);uniqueIndex;not null" bson:"title" json:"title"`
	Description   string    `gorm:"type:text" bson:"description" json:"description"`
	LastTaskIndex int       `gorm:"not null;default:0" bson:"last_task_index" json:"-"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`

	// Relations
	Members []ProjectMember `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" bson:"members" json:"members"`
	Tasks   []Task          `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" bson:"tasks" json:"tasks,omitempty"`
}

// Member returns the membership record for userID, if any.
func (p *Project) Member(userID string) (*ProjectMember, bool) {
	for i := range p.Members {
		if p.Members[i].UserID == userID {
			return &p.Members[i], true
		}
	}
	return nil, false
}

// Task returns the embedded task with the given id, if any.
func (p *Project) Task(taskID string) (*Task, bool) {
	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			return &p.Tasks[i], true
		}
	}
	return nil, false
}
