package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"simlab/internal/dto"
	"simlab/internal/model"
	"simlab/internal/rbac"
	"simlab/internal/repository"
	"simlab/internal/scheduling"
	"simlab/internal/validation"
	pkgerrors "simlab/pkg/errors"
	pkgredis "simlab/pkg/redis"
)

const (
	dateLayout   = "2006-01-02"
	unknownName  = "Unknown"
	slotLockTTL  = 10 * time.Second
	lockAttempts = 5
	lockBackoff  = 100 * time.Millisecond
)

var (
	ErrInvalidTimeRange = errors.New("jam_mulai must be before jam_selesai")
	ErrWeekdayMismatch  = errors.New("hari does not match tanggal")
	ErrInvalidDate      = errors.New("tanggal must be YYYY-MM-DD")
	ErrSlotBusy         = fmt.Errorf("%w: slot is being booked by another request", pkgerrors.ErrOptimisticLock)
)

// Caller authenticated user performing a schedule operation
type Caller struct {
	UserID string
	Role   string
}

// SlotLocker serialises writers of one (room, date). The returned func releases the lock.
type SlotLocker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, string, time.Duration) (func(), error) {
	return func() {}, nil
}

// ScheduleService schedule entries (jadwal praktikum) and room availability
type ScheduleService interface {
	CheckAvailability(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error)
	Create(ctx context.Context, req *dto.CreateScheduleEntryRequest, caller Caller) (*dto.ScheduleEntryResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ScheduleEntryResponse, error)
	List(ctx context.Context, req *dto.ScheduleEntryListRequest, caller Caller) ([]dto.ScheduleEntryResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateScheduleEntryRequest, caller Caller) (*dto.ScheduleEntryResponse, error)
	Delete(ctx context.Context, id string, caller Caller) error
	Stats(ctx context.Context, caller Caller) (*dto.ScheduleStats, error)
	// AdvanceStatuses moves entries along the lifecycle by wall clock and
	// returns how many were changed.
	AdvanceStatuses(ctx context.Context) (int, error)
}

type scheduleService struct {
	repo    *repository.Repository
	checker *rbac.Checker
	locker  SlotLocker
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

// NewScheduleService creates a ScheduleService. locker may be nil; loc is the
// timezone jam_mulai / jam_selesai are expressed in.
func NewScheduleService(
	repo *repository.Repository,
	checker *rbac.Checker,
	locker SlotLocker,
	loc *time.Location,
	logger *zap.Logger,
) ScheduleService {
	if locker == nil {
		locker = noopLocker{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &scheduleService{
		repo:    repo,
		checker: checker,
		locker:  locker,
		loc:     loc,
		now:     time.Now,
		logger:  logger,
	}
}

// ────────────────────── Availability ──────────────────────

func (s *scheduleService) CheckAvailability(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	conflicts, err := s.conflicts(ctx, scheduling.Slot{
		LabRoomID:  req.LabRoomID,
		Hari:       req.Hari,
		Tanggal:    req.Tanggal,
		JamMulai:   req.JamMulai,
		JamSelesai: req.JamSelesai,
	}, req.ExcludeID)
	if err != nil {
		return nil, err
	}
	return &dto.AvailabilityResponse{Available: len(conflicts) == 0, Conflicts: conflicts}, nil
}

func (s *scheduleService) conflicts(ctx context.Context, slot scheduling.Slot, excludeID string) ([]dto.ScheduleConflict, error) {
	candidates, err := s.repo.ScheduleEntry.FindSlotCandidates(ctx, slot.LabRoomID, slot.Hari, slot.Tanggal, excludeID)
	if err != nil {
		s.logger.Error("load slot candidates failed", zap.String("lab_room_id", slot.LabRoomID), zap.Error(err))
		return nil, storeErr(err)
	}

	hits := scheduling.Conflicting(candidates, slot.JamMulai, slot.JamSelesai, excludeID)
	out := make([]dto.ScheduleConflict, 0, len(hits))
	for _, e := range hits {
		c := dto.ScheduleConflict{
			ID:         e.ID,
			MataKuliah: unknownName,
			Dosen:      unknownName,
			JamMulai:   e.JamMulai,
			JamSelesai: e.JamSelesai,
		}
		if e.Course != nil {
			c.MataKuliah = e.Course.NamaMK
		}
		if e.Dosen != nil {
			c.Dosen = e.Dosen.FullName
		}
		out = append(out, c)
	}
	return out, nil
}

// reserve locks the (room, date) pair and verifies the slot is free. The
// returned release func must be called once the write is done.
func (s *scheduleService) reserve(ctx context.Context, slot scheduling.Slot, excludeID string) (func(), error) {
	release, err := s.lock(ctx, "slot:"+slot.LabRoomID+":"+slot.Tanggal)
	if err != nil {
		return nil, err
	}
	conflicts, err := s.conflicts(ctx, slot, excludeID)
	if err != nil {
		release()
		return nil, err
	}
	if len(conflicts) > 0 {
		release()
		return nil, &RoomConflictError{Conflicts: conflicts}
	}
	return release, nil
}

func (s *scheduleService) lock(ctx context.Context, key string) (func(), error) {
	for attempt := 0; attempt < lockAttempts; attempt++ {
		release, err := s.locker.Lock(ctx, key, slotLockTTL)
		if err == nil {
			return release, nil
		}
		if !errors.Is(err, pkgredis.ErrLockHeld) {
			// the store constraint still rejects overlapping rows
			s.logger.Warn("slot lock unavailable", zap.String("key", key), zap.Error(err))
			return func() {}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockBackoff):
		}
	}
	return nil, ErrSlotBusy
}

// ────────────────────── Create ──────────────────────

func (s *scheduleService) Create(ctx context.Context, req *dto.CreateScheduleEntryRequest, caller Caller) (*dto.ScheduleEntryResponse, error) {
	dosenID := caller.UserID
	if req.DosenID != nil && *req.DosenID != "" {
		dosenID = *req.DosenID
	}
	if s.ownOnly(caller) && dosenID != caller.UserID {
		return nil, ErrScheduleNotOwner
	}

	slot := scheduling.Slot{
		LabRoomID:  req.LabRoomID,
		Hari:       req.Hari,
		Tanggal:    req.Tanggal,
		JamMulai:   req.JamMulai,
		JamSelesai: req.JamSelesai,
	}
	tanggal, err := checkSlot(slot)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, req.MataKuliahID, req.LabRoomID, dosenID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.ScheduleStatusScheduled
	}

	entry := &model.ScheduleEntry{
		CourseID:     req.MataKuliahID,
		DosenID:      dosenID,
		LabRoomID:    req.LabRoomID,
		Hari:         req.Hari,
		Tanggal:      tanggal,
		JamMulai:     req.JamMulai,
		JamSelesai:   req.JamSelesai,
		Materi:       req.Materi,
		Status:       status,
		Catatan:      nullable(req.Catatan),
		MaxMahasiswa: req.MaxMahasiswa,
		VersionedModel: model.VersionedModel{
			BaseModel: model.BaseModel{CreatedBy: &caller.UserID, UpdatedBy: &caller.UserID},
			Version:   1,
		},
	}

	if status != model.ScheduleStatusCancelled {
		release, err := s.reserve(ctx, slot, "")
		if err != nil {
			return nil, err
		}
		defer release()
	}

	if err := s.repo.ScheduleEntry.Create(ctx, entry); err != nil {
		return nil, s.writeErr(ctx, err, slot, "")
	}

	s.logger.Info("schedule entry created",
		zap.String("id", entry.ID),
		zap.String("lab_room_id", entry.LabRoomID),
		zap.String("tanggal", req.Tanggal))
	return s.GetByID(ctx, entry.ID)
}

// ────────────────────── Read ──────────────────────

func (s *scheduleService) GetByID(ctx context.Context, id string) (*dto.ScheduleEntryResponse, error) {
	entry, err := s.repo.ScheduleEntry.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrScheduleEntryNotFound)
	}
	resp := toScheduleEntryResponse(entry)
	return &resp, nil
}

func (s *scheduleService) List(ctx context.Context, req *dto.ScheduleEntryListRequest, caller Caller) ([]dto.ScheduleEntryResponse, int64, error) {
	filter := scopedFilter(s.checker, req, caller)
	entries, total, err := s.repo.ScheduleEntry.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list schedule entries failed", zap.Error(err))
		return nil, 0, storeErr(err)
	}

	list := make([]dto.ScheduleEntryResponse, 0, len(entries))
	for i := range entries {
		list = append(list, toScheduleEntryResponse(&entries[i]))
	}
	return list, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *scheduleService) Update(ctx context.Context, id string, req *dto.UpdateScheduleEntryRequest, caller Caller) (*dto.ScheduleEntryResponse, error) {
	entry, err := s.repo.ScheduleEntry.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrScheduleEntryNotFound)
	}
	if s.ownOnly(caller) && entry.DosenID != caller.UserID {
		return nil, ErrScheduleNotOwner
	}
	if req.Version != 0 && req.Version != entry.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}
	if req.Status != nil {
		if err := scheduling.CheckTransition(entry.Status, *req.Status); err != nil {
			return nil, err
		}
	}

	before := slotOf(entry)
	after := before
	if req.LabRoomID != nil {
		after.LabRoomID = *req.LabRoomID
	}
	if req.Hari != nil {
		after.Hari = *req.Hari
	}
	if req.Tanggal != nil {
		after.Tanggal = *req.Tanggal
	}
	if req.JamMulai != nil {
		after.JamMulai = *req.JamMulai
	}
	if req.JamSelesai != nil {
		after.JamSelesai = *req.JamSelesai
	}
	tanggal, err := checkSlot(after)
	if err != nil {
		return nil, err
	}

	courseID := entry.CourseID
	if req.MataKuliahID != nil {
		courseID = *req.MataKuliahID
	}
	dosenID := entry.DosenID
	if req.DosenID != nil {
		dosenID = *req.DosenID
		if s.ownOnly(caller) && dosenID != caller.UserID {
			return nil, ErrScheduleNotOwner
		}
	}
	if courseID != entry.CourseID || after.LabRoomID != entry.LabRoomID || dosenID != entry.DosenID {
		if err := s.checkRefs(ctx, courseID, after.LabRoomID, dosenID); err != nil {
			return nil, err
		}
	}

	entry.CourseID = courseID
	entry.DosenID = dosenID
	entry.LabRoomID = after.LabRoomID
	entry.Hari = after.Hari
	entry.Tanggal = tanggal
	entry.JamMulai = after.JamMulai
	entry.JamSelesai = after.JamSelesai
	if req.Materi != nil {
		entry.Materi = *req.Materi
	}
	if req.Status != nil {
		entry.Status = *req.Status
	}
	if req.Catatan != nil {
		entry.Catatan = nullable(req.Catatan)
	}
	if req.MaxMahasiswa != nil {
		entry.MaxMahasiswa = req.MaxMahasiswa
	}
	entry.UpdatedBy = &caller.UserID

	if after != before && entry.Status != model.ScheduleStatusCancelled {
		release, err := s.reserve(ctx, after, id)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	if err := s.repo.ScheduleEntry.Update(ctx, entry); err != nil {
		return nil, s.writeErr(ctx, err, after, id)
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *scheduleService) Delete(ctx context.Context, id string, caller Caller) error {
	entry, err := s.repo.ScheduleEntry.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, ErrScheduleEntryNotFound)
	}
	if s.ownOnly(caller) && entry.DosenID != caller.UserID {
		return ErrScheduleNotOwner
	}

	if err := s.repo.ScheduleEntry.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrScheduleEntryNotFound
		}
		s.logger.Error("delete schedule entry failed", zap.String("id", id), zap.Error(err))
		return storeErr(err)
	}

	s.logger.Info("schedule entry deleted", zap.String("id", id), zap.String("by", caller.UserID))
	return nil
}

// ────────────────────── Stats ──────────────────────

func (s *scheduleService) Stats(ctx context.Context, caller Caller) (*dto.ScheduleStats, error) {
	dosenID := ""
	if s.ownOnly(caller) {
		dosenID = caller.UserID
	}
	return scheduleStats(ctx, s.repo, dosenID, s.now().In(s.loc))
}

func scheduleStats(ctx context.Context, repo *repository.Repository, dosenID string, now time.Time) (*dto.ScheduleStats, error) {
	start, end := weekBounds(now)
	counts, err := repo.ScheduleEntry.Counts(ctx, dosenID, start, end)
	if err != nil {
		return nil, storeErr(err)
	}
	return &dto.ScheduleStats{
		Total:     counts.Total,
		Scheduled: counts.Scheduled,
		Ongoing:   counts.Ongoing,
		Completed: counts.Completed,
		Cancelled: counts.Cancelled,
		ThisWeek:  counts.ThisWeek,
	}, nil
}

// weekBounds Monday and Sunday of the ISO week containing now.
func weekBounds(now time.Time) (time.Time, time.Time) {
	offset := (int(now.Weekday()) + 6) % 7
	monday := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, now.Location())
	return monday, monday.AddDate(0, 0, 6)
}

// ────────────────────── Status job ──────────────────────

func (s *scheduleService) AdvanceStatuses(ctx context.Context) (int, error) {
	now := s.now().In(s.loc)
	entries, err := s.repo.ScheduleEntry.ListActiveUntil(ctx, now)
	if err != nil {
		return 0, storeErr(err)
	}

	advanced := 0
	for i := range entries {
		e := &entries[i]
		from := e.Status
		steps := scheduling.Path(from, scheduling.StatusAt(*e, now, s.loc))
		if len(steps) == 0 {
			continue
		}
		// one FSM move per write, scheduled → ongoing → completed
		for _, next := range steps {
			if err := s.repo.ScheduleEntry.UpdateStatus(ctx, e, next); err != nil {
				if errors.Is(err, pkgerrors.ErrOptimisticLock) {
					break
				}
				return advanced, storeErr(err)
			}
		}
		if e.Status == from {
			continue
		}
		s.logger.Debug("schedule entry advanced",
			zap.String("id", e.ID), zap.String("from", from), zap.String("to", e.Status))
		advanced++
	}
	return advanced, nil
}

// ── helpers ──

// ownOnly callers that may only touch their own entries.
func (s *scheduleService) ownOnly(caller Caller) bool {
	return isOwnOnly(s.checker, caller)
}

func isOwnOnly(checker *rbac.Checker, caller Caller) bool {
	if checker == nil {
		return false
	}
	return checker.HasPermission(caller.Role, rbac.PermScheduleOwn) &&
		!checker.HasPermission(caller.Role, rbac.PermScheduleManage)
}

// scopedFilter list filter with the own-only restriction applied.
func scopedFilter(checker *rbac.Checker, req *dto.ScheduleEntryListRequest, caller Caller) repository.ScheduleEntryFilter {
	filter := repository.ScheduleEntryFilter{
		Search:       req.Search,
		MataKuliahID: req.MataKuliahID,
		LabRoomID:    req.LabRoomID,
		DosenID:      req.DosenID,
		Hari:         req.Hari,
		Status:       req.Status,
		TanggalStart: req.TanggalStart,
		TanggalEnd:   req.TanggalEnd,
	}
	if isOwnOnly(checker, caller) {
		filter.DosenID = caller.UserID
	}
	return filter
}

func (s *scheduleService) checkRefs(ctx context.Context, courseID, labRoomID, dosenID string) error {
	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		return notFoundOr(err, ErrCourseNotFound)
	}
	if _, err := s.repo.LabRoom.GetByID(ctx, labRoomID); err != nil {
		return notFoundOr(err, ErrLabRoomNotFound)
	}
	if _, err := s.repo.User.GetByID(ctx, dosenID); err != nil {
		return notFoundOr(err, ErrUserNotFound)
	}
	return nil
}

// writeErr maps a failed insert/update. An exclusion violation means another
// writer won the slot; report who.
func (s *scheduleService) writeErr(ctx context.Context, err error, slot scheduling.Slot, excludeID string) error {
	switch {
	case errors.Is(err, pkgerrors.ErrRoomConflict):
		conflicts, cerr := s.conflicts(ctx, slot, excludeID)
		if cerr != nil {
			return &RoomConflictError{}
		}
		return &RoomConflictError{Conflicts: conflicts}
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		return err
	case errors.Is(err, pkgerrors.ErrNotFound):
		return ErrScheduleEntryNotFound
	}
	s.logger.Error("write schedule entry failed", zap.Error(err))
	return storeErr(err)
}

func slotOf(e *model.ScheduleEntry) scheduling.Slot {
	return scheduling.Slot{
		LabRoomID:  e.LabRoomID,
		Hari:       e.Hari,
		Tanggal:    formatDate(e),
		JamMulai:   e.JamMulai,
		JamSelesai: e.JamSelesai,
	}
}

// checkSlot start before end and weekday matching the date; returns the parsed date.
func checkSlot(slot scheduling.Slot) (datatypes.Date, error) {
	d, err := time.ParseInLocation(dateLayout, slot.Tanggal, time.UTC)
	if err != nil {
		return datatypes.Date{}, ErrInvalidDate
	}
	if slot.JamMulai >= slot.JamSelesai {
		return datatypes.Date{}, ErrInvalidTimeRange
	}
	if validation.WeekdayOf(d) != slot.Hari {
		return datatypes.Date{}, ErrWeekdayMismatch
	}
	return datatypes.Date(d), nil
}
