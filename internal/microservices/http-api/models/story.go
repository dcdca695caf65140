package models

import (
	"time"

	"storyhub/internal/shared"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Story is owned by the taxonomy side; the engagement engine only reads it
// and writes AverageRating / RatingCount.
type Story struct {
	ID            string               `json:"id" gorm:"primaryKey;type:uuid"`
	Slug          string               `json:"slug" gorm:"uniqueIndex;size:200"`
	Title         shared.LocalizedText `json:"title" gorm:"serializer:json;type:jsonb;not null"`
	CategoryID    *int64               `json:"category_id,omitempty" gorm:"index"`
	Published     bool                 `json:"published" gorm:"not null;default:false;index"`
	AverageRating float64              `json:"average_rating" gorm:"not null;default:0"`
	RatingCount   int64                `json:"rating_count" gorm:"not null;default:0"`
	CreatedAt     time.Time            `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time            `json:"updated_at" gorm:"autoUpdateTime"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
}

func (s *Story) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

func (Story) TableName() string {
	return "stories"
}
