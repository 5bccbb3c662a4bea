package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"simlab/internal/model"
	"simlab/internal/repository"
	pkgerrors "simlab/pkg/errors"
)

// mocks shares id generation and cross-table lookups between the mock repos.
type mocks struct {
	seq      int
	users    *mockUserRepo
	rooms    *mockLabRoomRepo
	courses  *mockCourseRepo
	schedule *mockScheduleEntryRepo
}

func newMocks() *mocks {
	m := &mocks{}
	m.users = &mockUserRepo{m: m, users: make(map[string]*model.User)}
	m.rooms = &mockLabRoomRepo{m: m, rooms: make(map[string]*model.LabRoom)}
	m.courses = &mockCourseRepo{m: m, courses: make(map[string]*model.Course)}
	m.schedule = &mockScheduleEntryRepo{m: m, entries: make(map[string]*model.ScheduleEntry)}
	return m
}

func (m *mocks) repository() *repository.Repository {
	return &repository.Repository{
		User:          m.users,
		LabRoom:       m.rooms,
		Course:        m.courses,
		ScheduleEntry: m.schedule,
	}
}

func (m *mocks) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%03d", prefix, m.seq)
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	m     *mocks
	users map[string]*model.User
	// failList forces List to fail
	failList error
}

func (r *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: ux_users_email", pkgerrors.ErrDuplicateKey)
		}
	}
	if user.ID == "" {
		user.ID = r.m.nextID("user")
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	if cp.LabRoomID != nil {
		if room, ok := r.m.rooms.rooms[*cp.LabRoomID]; ok {
			rc := *room
			cp.LabRoom = &rc
		}
	}
	return &cp, nil
}

func (r *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) GetByNimNip(_ context.Context, nimNip string) (*model.User, error) {
	for _, u := range r.users {
		if u.NimNip != nil && *u.NimNip == nimNip {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	cp.LabRoom = nil
	cp.UpdatedAt = time.Now()
	r.users[user.ID] = &cp
	return nil
}

func (r *mockUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, e := range r.m.schedule.entries {
		if e.DosenID == id {
			return fmt.Errorf("%w: fk_jadwal_dosen", pkgerrors.ErrDependencyExists)
		}
	}
	delete(r.users, id)
	return nil
}

func (r *mockUserRepo) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	if r.failList != nil {
		return nil, 0, r.failList
	}
	var result []model.User
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(u.FullName+" "+u.Email), strings.ToLower(filter.Search)) {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return page(result, offset, limit), int64(len(result)), nil
}

// ── Mock LabRoomRepository ──

type mockLabRoomRepo struct {
	m     *mocks
	rooms map[string]*model.LabRoom
}

func (r *mockLabRoomRepo) Create(_ context.Context, room *model.LabRoom) error {
	for _, x := range r.rooms {
		if x.KodeLab == room.KodeLab {
			return fmt.Errorf("%w: ux_lab_rooms_kode_lab", pkgerrors.ErrDuplicateKey)
		}
	}
	if room.ID == "" {
		room.ID = r.m.nextID("room")
	}
	cp := *room
	r.rooms[room.ID] = &cp
	return nil
}

func (r *mockLabRoomRepo) GetByID(ctx context.Context, id string) (*model.LabRoom, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *room
	cp.CourseCount, _ = r.CountCourses(ctx, id)
	if cp.PicID != nil {
		if u, ok := r.m.users.users[*cp.PicID]; ok {
			uc := *u
			cp.Pic = &uc
		}
	}
	return &cp, nil
}

func (r *mockLabRoomRepo) GetByKode(_ context.Context, kode string) (*model.LabRoom, error) {
	for _, x := range r.rooms {
		if x.KodeLab == kode {
			cp := *x
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockLabRoomRepo) Update(_ context.Context, room *model.LabRoom) error {
	if _, ok := r.rooms[room.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *room
	cp.Pic = nil
	r.rooms[room.ID] = &cp
	return nil
}

func (r *mockLabRoomRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.rooms[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.rooms, id)
	return nil
}

func (r *mockLabRoomRepo) List(_ context.Context, filter repository.LabRoomFilter, offset, limit int) ([]model.LabRoom, int64, error) {
	var result []model.LabRoom
	for _, x := range r.rooms {
		if filter.Status != "" && x.Status != filter.Status {
			continue
		}
		if filter.Lokasi != "" && x.Lokasi != filter.Lokasi {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(x.KodeLab+" "+x.NamaLab), strings.ToLower(filter.Search)) {
			continue
		}
		result = append(result, *x)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].KodeLab < result[j].KodeLab })
	return page(result, offset, limit), int64(len(result)), nil
}

func (r *mockLabRoomRepo) ListActive(_ context.Context) ([]model.LabRoom, error) {
	var result []model.LabRoom
	for _, x := range r.rooms {
		if x.Status == model.StatusActive {
			result = append(result, *x)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].KodeLab < result[j].KodeLab })
	return result, nil
}

func (r *mockLabRoomRepo) CountCourses(_ context.Context, labRoomID string) (int64, error) {
	var n int64
	for _, c := range r.m.courses.courses {
		if c.LabRoomID != nil && *c.LabRoomID == labRoomID {
			n++
		}
	}
	return n, nil
}

func (r *mockLabRoomRepo) CountScheduleEntries(_ context.Context, labRoomID string) (int64, error) {
	var n int64
	for _, e := range r.m.schedule.entries {
		if e.LabRoomID == labRoomID {
			n++
		}
	}
	return n, nil
}

func (r *mockLabRoomRepo) Counts(_ context.Context) (*repository.LabRoomCounts, error) {
	var out repository.LabRoomCounts
	for _, x := range r.rooms {
		out.Total++
		if x.Status == model.StatusActive {
			out.Active++
		} else {
			out.Inactive++
		}
		out.TotalCapacity += int64(x.Kapasitas)
	}
	return &out, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	m       *mocks
	courses map[string]*model.Course
}

func (r *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	for _, x := range r.courses {
		if x.KodeMK == course.KodeMK {
			return fmt.Errorf("%w: ux_mata_kuliah_kode_mk", pkgerrors.ErrDuplicateKey)
		}
	}
	if course.ID == "" {
		course.ID = r.m.nextID("course")
	}
	cp := *course
	r.courses[course.ID] = &cp
	return nil
}

func (r *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	if cp.DosenID != nil {
		if u, ok := r.m.users.users[*cp.DosenID]; ok {
			uc := *u
			cp.Dosen = &uc
		}
	}
	if cp.LabRoomID != nil {
		if room, ok := r.m.rooms.rooms[*cp.LabRoomID]; ok {
			rc := *room
			cp.LabRoom = &rc
		}
	}
	return &cp, nil
}

func (r *mockCourseRepo) GetByKode(_ context.Context, kode string) (*model.Course, error) {
	for _, x := range r.courses {
		if x.KodeMK == kode {
			cp := *x
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	if _, ok := r.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *course
	cp.Dosen, cp.LabRoom = nil, nil
	r.courses[course.ID] = &cp
	return nil
}

func (r *mockCourseRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *mockCourseRepo) List(_ context.Context, filter repository.CourseFilter, offset, limit int) ([]model.Course, int64, error) {
	var result []model.Course
	for _, x := range r.courses {
		if filter.Status != "" && x.Status != filter.Status {
			continue
		}
		if filter.Semester != 0 && x.Semester != filter.Semester {
			continue
		}
		if filter.DosenID != "" && (x.DosenID == nil || *x.DosenID != filter.DosenID) {
			continue
		}
		result = append(result, *x)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Semester != result[j].Semester {
			return result[i].Semester < result[j].Semester
		}
		return result[i].KodeMK < result[j].KodeMK
	})
	return page(result, offset, limit), int64(len(result)), nil
}

func (r *mockCourseRepo) ListActive(_ context.Context) ([]model.Course, error) {
	var result []model.Course
	for _, x := range r.courses {
		if x.Status == model.StatusActive {
			result = append(result, *x)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].KodeMK < result[j].KodeMK })
	return result, nil
}

func (r *mockCourseRepo) CountScheduleEntries(_ context.Context, courseID string) (int64, error) {
	var n int64
	for _, e := range r.m.schedule.entries {
		if e.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

func (r *mockCourseRepo) Counts(_ context.Context) (*repository.CourseCounts, error) {
	out := repository.CourseCounts{BySemester: map[int]int64{}}
	for _, x := range r.courses {
		out.Total++
		if x.Status == model.StatusActive {
			out.Active++
		} else {
			out.Inactive++
		}
		out.TotalSKS += int64(x.SKS)
		out.BySemester[x.Semester]++
	}
	return &out, nil
}

// ── Mock ScheduleEntryRepository ──

type mockScheduleEntryRepo struct {
	m       *mocks
	entries map[string]*model.ScheduleEntry
	// createErr forces Create to fail, e.g. with a store exclusion violation
	createErr error
	// onStatus observes every status write
	onStatus func(status string)
}

func (r *mockScheduleEntryRepo) withRefs(e *model.ScheduleEntry) model.ScheduleEntry {
	cp := *e
	if c, ok := r.m.courses.courses[cp.CourseID]; ok {
		cc := *c
		cp.Course = &cc
	}
	if u, ok := r.m.users.users[cp.DosenID]; ok {
		uc := *u
		cp.Dosen = &uc
	}
	if room, ok := r.m.rooms.rooms[cp.LabRoomID]; ok {
		rc := *room
		cp.LabRoom = &rc
	}
	return cp
}

func (r *mockScheduleEntryRepo) Create(_ context.Context, entry *model.ScheduleEntry) error {
	if r.createErr != nil {
		return r.createErr
	}
	if entry.ID == "" {
		entry.ID = r.m.nextID("jadwal")
	}
	if entry.Version == 0 {
		entry.Version = 1
	}
	cp := *entry
	cp.Course, cp.Dosen, cp.LabRoom = nil, nil, nil
	r.entries[entry.ID] = &cp
	return nil
}

func (r *mockScheduleEntryRepo) GetByID(_ context.Context, id string) (*model.ScheduleEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := r.withRefs(e)
	return &cp, nil
}

func (r *mockScheduleEntryRepo) Update(_ context.Context, entry *model.ScheduleEntry) error {
	cur, ok := r.entries[entry.ID]
	if !ok || cur.Version != entry.Version {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Version++
	cp := *entry
	cp.Course, cp.Dosen, cp.LabRoom = nil, nil, nil
	r.entries[entry.ID] = &cp
	return nil
}

func (r *mockScheduleEntryRepo) UpdateStatus(_ context.Context, entry *model.ScheduleEntry, status string) error {
	cur, ok := r.entries[entry.ID]
	if !ok || cur.Version != entry.Version {
		return pkgerrors.ErrOptimisticLock
	}
	if r.onStatus != nil {
		r.onStatus(status)
	}
	cur.Status = status
	cur.Version++
	entry.Status = status
	entry.Version = cur.Version
	return nil
}

func (r *mockScheduleEntryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.entries[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *mockScheduleEntryRepo) matching(filter repository.ScheduleEntryFilter) []model.ScheduleEntry {
	var result []model.ScheduleEntry
	for _, e := range r.entries {
		if filter.DosenID != "" && e.DosenID != filter.DosenID {
			continue
		}
		if filter.LabRoomID != "" && e.LabRoomID != filter.LabRoomID {
			continue
		}
		if filter.MataKuliahID != "" && e.CourseID != filter.MataKuliahID {
			continue
		}
		if filter.Hari != "" && e.Hari != filter.Hari {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		result = append(result, r.withRefs(e))
	}
	sort.Slice(result, func(i, j int) bool {
		di, dj := formatDate(&result[i]), formatDate(&result[j])
		if di != dj {
			return di < dj
		}
		return result[i].JamMulai < result[j].JamMulai
	})
	return result
}

func (r *mockScheduleEntryRepo) List(_ context.Context, filter repository.ScheduleEntryFilter, offset, limit int) ([]model.ScheduleEntry, int64, error) {
	result := r.matching(filter)
	return page(result, offset, limit), int64(len(result)), nil
}

func (r *mockScheduleEntryRepo) ListAll(_ context.Context, filter repository.ScheduleEntryFilter) ([]model.ScheduleEntry, error) {
	return r.matching(filter), nil
}

func (r *mockScheduleEntryRepo) FindSlotCandidates(_ context.Context, labRoomID, hari, tanggal, excludeID string) ([]model.ScheduleEntry, error) {
	var result []model.ScheduleEntry
	for _, e := range r.entries {
		if e.LabRoomID != labRoomID || e.Hari != hari || formatDate(e) != tanggal {
			continue
		}
		if e.Status == model.ScheduleStatusCancelled || e.ID == excludeID {
			continue
		}
		result = append(result, r.withRefs(e))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].JamMulai < result[j].JamMulai })
	return result, nil
}

func (r *mockScheduleEntryRepo) ListActiveUntil(_ context.Context, day time.Time) ([]model.ScheduleEntry, error) {
	limit := day.Format("2006-01-02")
	var result []model.ScheduleEntry
	for _, e := range r.entries {
		if e.Status != model.ScheduleStatusScheduled && e.Status != model.ScheduleStatusOngoing {
			continue
		}
		if formatDate(e) > limit {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

func (r *mockScheduleEntryRepo) Counts(_ context.Context, dosenID string, weekStart, weekEnd time.Time) (*repository.ScheduleCounts, error) {
	from, to := weekStart.Format("2006-01-02"), weekEnd.Format("2006-01-02")
	var out repository.ScheduleCounts
	for _, e := range r.entries {
		if dosenID != "" && e.DosenID != dosenID {
			continue
		}
		out.Total++
		switch e.Status {
		case model.ScheduleStatusScheduled:
			out.Scheduled++
		case model.ScheduleStatusOngoing:
			out.Ongoing++
		case model.ScheduleStatusCompleted:
			out.Completed++
		case model.ScheduleStatusCancelled:
			out.Cancelled++
		}
		if d := formatDate(e); d >= from && d <= to {
			out.ThisWeek++
		}
	}
	return &out, nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
