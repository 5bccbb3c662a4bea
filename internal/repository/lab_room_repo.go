package repository

import (
	"context"

	"gorm.io/gorm"

	"simlab/internal/model"
)

// LabRoomFilter lab room list filters
type LabRoomFilter struct {
	Status string
	Lokasi string
	Search string
}

// LabRoomCounts aggregate figures for the dashboard
type LabRoomCounts struct {
	Total         int64
	Active        int64
	Inactive      int64
	TotalCapacity int64
}

// LabRoomRepository lab room data access
type LabRoomRepository interface {
	Create(ctx context.Context, room *model.LabRoom) error
	GetByID(ctx context.Context, id string) (*model.LabRoom, error)
	GetByKode(ctx context.Context, kode string) (*model.LabRoom, error)
	Update(ctx context.Context, room *model.LabRoom) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter LabRoomFilter, offset, limit int) ([]model.LabRoom, int64, error)
	ListActive(ctx context.Context) ([]model.LabRoom, error)
	CountCourses(ctx context.Context, labRoomID string) (int64, error)
	CountScheduleEntries(ctx context.Context, labRoomID string) (int64, error)
	Counts(ctx context.Context) (*LabRoomCounts, error)
}

type labRoomRepo struct {
	db *gorm.DB
}

// NewLabRoomRepo creates a LabRoomRepository
func NewLabRoomRepo(db *gorm.DB) LabRoomRepository {
	return &labRoomRepo{db: db}
}

const labRoomWithCount = "lab_rooms.*, (SELECT COUNT(*) FROM mata_kuliah mk WHERE mk.lab_room_id = lab_rooms.id) AS course_count"

func (r *labRoomRepo) Create(ctx context.Context, room *model.LabRoom) error {
	return classify(r.db.WithContext(ctx).Omit("Pic").Create(room).Error)
}

func (r *labRoomRepo) GetByID(ctx context.Context, id string) (*model.LabRoom, error) {
	var room model.LabRoom
	err := r.db.WithContext(ctx).
		Select(labRoomWithCount).
		Preload("Pic").
		Where("lab_rooms.id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *labRoomRepo) GetByKode(ctx context.Context, kode string) (*model.LabRoom, error) {
	var room model.LabRoom
	err := r.db.WithContext(ctx).
		Where("kode_lab = ?", kode).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *labRoomRepo) Update(ctx context.Context, room *model.LabRoom) error {
	return classify(r.db.WithContext(ctx).Omit("Pic", "created_at", "created_by").Save(room).Error)
}

func (r *labRoomRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.LabRoom{})
	if result.Error != nil {
		return classifyDelete(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *labRoomRepo) List(ctx context.Context, filter LabRoomFilter, offset, limit int) ([]model.LabRoom, int64, error) {
	var rooms []model.LabRoom
	var total int64

	db := r.db.WithContext(ctx).Model(&model.LabRoom{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Lokasi != "" {
		db = db.Where("lokasi ILIKE ?", likePattern(filter.Lokasi))
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		db = db.Where("kode_lab ILIKE ? OR nama_lab ILIKE ? OR lokasi ILIKE ?", p, p, p)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, classify(err)
	}

	if err := db.Select(labRoomWithCount).
		Preload("Pic").
		Offset(offset).Limit(limit).
		Order("kode_lab ASC").
		Find(&rooms).Error; err != nil {
		return nil, 0, classify(err)
	}

	return rooms, total, nil
}

func (r *labRoomRepo) ListActive(ctx context.Context) ([]model.LabRoom, error) {
	var rooms []model.LabRoom
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StatusActive).
		Order("kode_lab ASC").
		Find(&rooms).Error
	return rooms, classify(err)
}

func (r *labRoomRepo) CountCourses(ctx context.Context, labRoomID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("lab_room_id = ?", labRoomID).
		Count(&count).Error
	return count, classify(err)
}

func (r *labRoomRepo) CountScheduleEntries(ctx context.Context, labRoomID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Where("lab_room_id = ?", labRoomID).
		Count(&count).Error
	return count, classify(err)
}

func (r *labRoomRepo) Counts(ctx context.Context) (*LabRoomCounts, error) {
	var out LabRoomCounts
	err := r.db.WithContext(ctx).
		Model(&model.LabRoom{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'active') AS active,
			COUNT(*) FILTER (WHERE status = 'inactive') AS inactive,
			COALESCE(SUM(kapasitas), 0) AS total_capacity`).
		Scan(&out).Error
	if err != nil {
		return nil, classify(err)
	}
	return &out, nil
}
