package models

import "time"

// Rating is keyed by (user, story); resubmission overwrites.
type Rating struct {
	UserID    string    `json:"user_id" gorm:"type:uuid;primaryKey"`
	StoryID   string    `json:"story_id" gorm:"type:uuid;primaryKey;index"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   *string   `json:"comment,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Story *Story `json:"-" gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE;"`
}

func (Rating) TableName() string {
	return "ratings"
}
