package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"simlab/internal/model"
	pkgerrors "simlab/pkg/errors"
)

// ScheduleEntryFilter schedule list filters
type ScheduleEntryFilter struct {
	Search       string
	MataKuliahID string
	LabRoomID    string
	DosenID      string
	Hari         string
	Status       string
	TanggalStart string
	TanggalEnd   string
}

// ScheduleCounts per-status totals plus entries dated within a week
type ScheduleCounts struct {
	Total     int64
	Scheduled int64
	Ongoing   int64
	Completed int64
	Cancelled int64
	ThisWeek  int64
}

// ScheduleEntryRepository schedule entry (jadwal praktikum) data access
type ScheduleEntryRepository interface {
	Create(ctx context.Context, entry *model.ScheduleEntry) error
	GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error)
	Update(ctx context.Context, entry *model.ScheduleEntry) error
	UpdateStatus(ctx context.Context, entry *model.ScheduleEntry, status string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ScheduleEntryFilter, offset, limit int) ([]model.ScheduleEntry, int64, error)
	ListAll(ctx context.Context, filter ScheduleEntryFilter) ([]model.ScheduleEntry, error)
	// FindSlotCandidates non-cancelled entries booked in room on (hari, tanggal),
	// excluding excludeID, with course and instructor loaded.
	FindSlotCandidates(ctx context.Context, labRoomID, hari, tanggal, excludeID string) ([]model.ScheduleEntry, error)
	// ListActiveUntil scheduled or ongoing entries dated on or before day.
	ListActiveUntil(ctx context.Context, day time.Time) ([]model.ScheduleEntry, error)
	Counts(ctx context.Context, dosenID string, weekStart, weekEnd time.Time) (*ScheduleCounts, error)
}

type scheduleEntryRepo struct {
	db *gorm.DB
}

// NewScheduleEntryRepo creates a ScheduleEntryRepository
func NewScheduleEntryRepo(db *gorm.DB) ScheduleEntryRepository {
	return &scheduleEntryRepo{db: db}
}

func (r *scheduleEntryRepo) Create(ctx context.Context, entry *model.ScheduleEntry) error {
	return classify(r.db.WithContext(ctx).Omit("Course", "Dosen", "LabRoom").Create(entry).Error)
}

func (r *scheduleEntryRepo) GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error) {
	var entry model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Dosen").
		Preload("LabRoom").
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update writes every mutable column guarded by the version the caller loaded.
func (r *scheduleEntryRepo) Update(ctx context.Context, entry *model.ScheduleEntry) error {
	oldVersion := entry.Version
	result := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Where("id = ? AND version = ?", entry.ID, oldVersion).
		Updates(map[string]interface{}{
			"mata_kuliah_id": entry.CourseID,
			"dosen_id":       entry.DosenID,
			"lab_room_id":    entry.LabRoomID,
			"hari":           entry.Hari,
			"tanggal":        entry.Tanggal,
			"jam_mulai":      entry.JamMulai,
			"jam_selesai":    entry.JamSelesai,
			"materi":         entry.Materi,
			"status":         entry.Status,
			"catatan":        entry.Catatan,
			"max_mahasiswa":  entry.MaxMahasiswa,
			"updated_by":     entry.UpdatedBy,
			"updated_at":     gorm.Expr("NOW()"),
			"version":        oldVersion + 1,
		})
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Version = oldVersion + 1
	return nil
}

func (r *scheduleEntryRepo) UpdateStatus(ctx context.Context, entry *model.ScheduleEntry, status string) error {
	oldVersion := entry.Version
	result := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Where("id = ? AND version = ?", entry.ID, oldVersion).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": gorm.Expr("NOW()"),
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Status = status
	entry.Version = oldVersion + 1
	return nil
}

func (r *scheduleEntryRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ScheduleEntry{})
	if result.Error != nil {
		return classifyDelete(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *scheduleEntryRepo) filtered(ctx context.Context, filter ScheduleEntryFilter) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.ScheduleEntry{})
	if filter.Search != "" {
		db = db.Where("materi ILIKE ?", likePattern(filter.Search))
	}
	if filter.MataKuliahID != "" {
		db = db.Where("mata_kuliah_id = ?", filter.MataKuliahID)
	}
	if filter.LabRoomID != "" {
		db = db.Where("lab_room_id = ?", filter.LabRoomID)
	}
	if filter.DosenID != "" {
		db = db.Where("dosen_id = ?", filter.DosenID)
	}
	if filter.Hari != "" {
		db = db.Where("hari = ?", filter.Hari)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.TanggalStart != "" {
		db = db.Where("tanggal >= ?", filter.TanggalStart)
	}
	if filter.TanggalEnd != "" {
		db = db.Where("tanggal <= ?", filter.TanggalEnd)
	}
	return db
}

func (r *scheduleEntryRepo) List(ctx context.Context, filter ScheduleEntryFilter, offset, limit int) ([]model.ScheduleEntry, int64, error) {
	var entries []model.ScheduleEntry
	var total int64

	db := r.filtered(ctx, filter)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, classify(err)
	}

	if err := db.Preload("Course").Preload("Dosen").Preload("LabRoom").
		Offset(offset).Limit(limit).
		Order("tanggal ASC, jam_mulai ASC, id").
		Find(&entries).Error; err != nil {
		return nil, 0, classify(err)
	}

	return entries, total, nil
}

func (r *scheduleEntryRepo) ListAll(ctx context.Context, filter ScheduleEntryFilter) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := r.filtered(ctx, filter).
		Preload("Course").Preload("Dosen").Preload("LabRoom").
		Order("tanggal ASC, jam_mulai ASC, id").
		Find(&entries).Error
	return entries, classify(err)
}

func (r *scheduleEntryRepo) FindSlotCandidates(ctx context.Context, labRoomID, hari, tanggal, excludeID string) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	db := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Dosen").
		Where("lab_room_id = ? AND hari = ? AND tanggal = ? AND status <> ?",
			labRoomID, hari, tanggal, model.ScheduleStatusCancelled)
	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}
	err := db.Order("jam_mulai ASC").Find(&entries).Error
	return entries, classify(err)
}

func (r *scheduleEntryRepo) ListActiveUntil(ctx context.Context, day time.Time) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("status IN ? AND tanggal <= ?",
			[]string{model.ScheduleStatusScheduled, model.ScheduleStatusOngoing},
			day.Format("2006-01-02")).
		Order("tanggal ASC, jam_mulai ASC").
		Find(&entries).Error
	return entries, classify(err)
}

func (r *scheduleEntryRepo) Counts(ctx context.Context, dosenID string, weekStart, weekEnd time.Time) (*ScheduleCounts, error) {
	var out ScheduleCounts
	db := r.db.WithContext(ctx).Model(&model.ScheduleEntry{})
	if dosenID != "" {
		db = db.Where("dosen_id = ?", dosenID)
	}
	err := db.Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'scheduled') AS scheduled,
			COUNT(*) FILTER (WHERE status = 'ongoing') AS ongoing,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled,
			COUNT(*) FILTER (WHERE tanggal BETWEEN ? AND ?) AS this_week`,
		weekStart.Format("2006-01-02"), weekEnd.Format("2006-01-02")).
		Scan(&out).Error
	if err != nil {
		return nil, classify(err)
	}
	return &out, nil
}
