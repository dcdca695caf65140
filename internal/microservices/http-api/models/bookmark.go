package models

import "time"

type Bookmark struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	StoryID   string    `gorm:"type:uuid;primaryKey;index" json:"story_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Associations
	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	Story *Story `gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE;" json:"story,omitempty"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}
