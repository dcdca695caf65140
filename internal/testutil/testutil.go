// Package testutil opens throwaway databases and seeds fixtures for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"storyhub/database"
	"storyhub/internal/microservices/http-api/models"
	"storyhub/internal/shared"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB returns a migrated in-memory SQLite database private to the test.
// A single connection keeps every statement on the same memory database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

func SeedUser(tb testing.TB, db *gorm.DB, username string) *models.User {
	tb.Helper()
	u := &models.User{Username: username, Role: "user"}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCategory(tb testing.TB, db *gorm.DB, name string) *models.Category {
	tb.Helper()
	c := &models.Category{Name: name}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

// SeedStory creates a story titled title; category may be nil.
func SeedStory(tb testing.TB, db *gorm.DB, title string, published bool, category *models.Category) *models.Story {
	tb.Helper()
	s := &models.Story{
		Slug:      fmt.Sprintf("%s-%s", title, uuid.New().String()[:8]),
		Title:     shared.LocalizedText{EN: title},
		Published: published,
	}
	if category != nil {
		s.CategoryID = &category.ID
	}
	if err := db.Create(s).Error; err != nil {
		tb.Fatalf("seed story: %v", err)
	}
	return s
}

// Day returns midnight UTC n days before ref, plus the given hour.
func Day(ref time.Time, daysAgo, hour int) time.Time {
	y, m, d := ref.UTC().Date()
	return time.Date(y, m, d-daysAgo, hour, 0, 0, 0, time.UTC)
}
