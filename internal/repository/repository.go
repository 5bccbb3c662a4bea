package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregate entry point of all repositories
type Repository struct {
	db *gorm.DB

	User          UserRepository
	LabRoom       LabRoomRepository
	Course        CourseRepository
	ScheduleEntry ScheduleEntryRepository
}

// NewRepository builds the aggregate
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:            db,
		User:          NewUserRepo(db),
		LabRoom:       NewLabRoomRepo(db),
		Course:        NewCourseRepo(db),
		ScheduleEntry: NewScheduleEntryRepo(db),
	}
}

// BeginTx starts a transaction
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx aggregate bound to tx
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// likePattern substring pattern for ILIKE with wildcards in the input escaped
func likePattern(s string) string {
	r := make([]rune, 0, len(s)+2)
	r = append(r, '%')
	for _, c := range s {
		if c == '%' || c == '_' || c == '\\' {
			r = append(r, '\\')
		}
		r = append(r, c)
	}
	return string(append(r, '%'))
}
