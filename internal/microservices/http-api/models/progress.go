package models

import (
	"time"

	"storyhub/internal/shared"
)

// ReadingProgress is one user's advancement through one story.
type ReadingProgress struct {
	UserID               string                `gorm:"type:uuid;primaryKey" json:"user_id"`
	StoryID              string                `gorm:"type:uuid;primaryKey;index" json:"story_id"`
	LastParagraph        int                   `gorm:"not null;default:0" json:"last_paragraph"`
	TotalParagraphs      *int                  `json:"total_paragraphs,omitempty"`
	CompletionPercentage float64               `gorm:"not null;default:0" json:"completion_percentage"`
	ReadingTimeSeconds   int64                 `gorm:"not null;default:0" json:"reading_time_seconds"`
	WordsRead            int64                 `gorm:"not null;default:0" json:"words_read"`
	Language             shared.Language       `gorm:"type:varchar(8);not null;default:'en'" json:"language"`
	Status               shared.ProgressStatus `gorm:"type:varchar(16);not null;default:'STARTED';index" json:"status"`
	StartedAt            time.Time             `gorm:"not null" json:"started_at"`
	LastReadAt           time.Time             `gorm:"not null;index" json:"last_read_at"`
	CompletedAt          *time.Time            `json:"completed_at,omitempty"`

	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	Story *Story `gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE;" json:"story,omitempty"`
}

// TableName overrides the table name used by ReadingProgress to `reading_progress`
func (ReadingProgress) TableName() string {
	return "reading_progress"
}
