package repository

import (
	"context"

	"gorm.io/gorm"

	"simlab/internal/model"
)

// CourseFilter course list filters
type CourseFilter struct {
	Status    string
	Semester  int
	DosenID   string
	LabRoomID string
	Search    string
}

// CourseCounts aggregate figures for the dashboard
type CourseCounts struct {
	Total      int64
	Active     int64
	Inactive   int64
	TotalSKS   int64
	BySemester map[int]int64
}

// CourseRepository course (mata kuliah) data access
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	GetByKode(ctx context.Context, kode string) (*model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter CourseFilter, offset, limit int) ([]model.Course, int64, error)
	ListActive(ctx context.Context) ([]model.Course, error)
	CountScheduleEntries(ctx context.Context, courseID string) (int64, error)
	Counts(ctx context.Context) (*CourseCounts, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo creates a CourseRepository
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return classify(r.db.WithContext(ctx).Omit("Dosen", "LabRoom").Create(course).Error)
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Dosen").
		Preload("LabRoom").
		Where("id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetByKode(ctx context.Context, kode string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("kode_mk = ?", kode).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return classify(r.db.WithContext(ctx).Omit("Dosen", "LabRoom", "created_at", "created_by").Save(course).Error)
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Course{})
	if result.Error != nil {
		return classifyDelete(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *courseRepo) List(ctx context.Context, filter CourseFilter, offset, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Course{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Semester > 0 {
		db = db.Where("semester = ?", filter.Semester)
	}
	if filter.DosenID != "" {
		db = db.Where("dosen_id = ?", filter.DosenID)
	}
	if filter.LabRoomID != "" {
		db = db.Where("lab_room_id = ?", filter.LabRoomID)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		db = db.Where("kode_mk ILIKE ? OR nama_mk ILIKE ?", p, p)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, classify(err)
	}

	if err := db.Preload("Dosen").Preload("LabRoom").
		Offset(offset).Limit(limit).
		Order("semester ASC, kode_mk ASC").
		Find(&courses).Error; err != nil {
		return nil, 0, classify(err)
	}

	return courses, total, nil
}

func (r *courseRepo) ListActive(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StatusActive).
		Order("kode_mk ASC").
		Find(&courses).Error
	return courses, classify(err)
}

func (r *courseRepo) CountScheduleEntries(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Where("mata_kuliah_id = ?", courseID).
		Count(&count).Error
	return count, classify(err)
}

func (r *courseRepo) Counts(ctx context.Context) (*CourseCounts, error) {
	var totals struct {
		Total    int64
		Active   int64
		Inactive int64
		TotalSKS int64 `gorm:"column:total_sks"`
	}
	err := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'active') AS active,
			COUNT(*) FILTER (WHERE status = 'inactive') AS inactive,
			COALESCE(SUM(sks), 0) AS total_sks`).
		Scan(&totals).Error
	if err != nil {
		return nil, classify(err)
	}
	out := CourseCounts{
		Total:      totals.Total,
		Active:     totals.Active,
		Inactive:   totals.Inactive,
		TotalSKS:   totals.TotalSKS,
		BySemester: map[int]int64{},
	}

	var rows []struct {
		Semester int
		Count    int64
	}
	err = r.db.WithContext(ctx).
		Model(&model.Course{}).
		Select("semester, COUNT(*) AS count").
		Group("semester").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}
	for _, row := range rows {
		out.BySemester[row.Semester] = row.Count
	}
	return &out, nil
}
