package models

// All returns every model for AutoMigrate, parents first.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Story{},
		&ReadingProgress{},
		&Rating{},
		&Bookmark{},
	}
}
