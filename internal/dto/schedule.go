package dto

// ── schedule entry (jadwal praktikum) module ──

// ScheduleEntryListRequest schedule list / export query
type ScheduleEntryListRequest struct {
	PaginationRequest
	Search       string `form:"search"         binding:"omitempty,max=100"`
	MataKuliahID string `form:"mata_kuliah_id" binding:"omitempty,uuid"`
	LabRoomID    string `form:"lab_room_id"    binding:"omitempty,uuid"`
	DosenID      string `form:"dosen_id"       binding:"omitempty,uuid"`
	Hari         string `form:"hari"           binding:"omitempty,oneof=senin selasa rabu kamis jumat sabtu minggu"`
	Status       string `form:"status"         binding:"omitempty,oneof=scheduled ongoing completed cancelled"`
	TanggalStart string `form:"tanggal_start"  binding:"omitempty,datetime=2006-01-02"`
	TanggalEnd   string `form:"tanggal_end"    binding:"omitempty,datetime=2006-01-02"`
}

// CreateScheduleEntryRequest new schedule entry; dosen_id defaults to the caller
type CreateScheduleEntryRequest struct {
	MataKuliahID string  `json:"mata_kuliah_id" validate:"required,uuid"`
	DosenID      *string `json:"dosen_id"       validate:"omitempty,uuid"`
	LabRoomID    string  `json:"lab_room_id"    validate:"required,uuid"`
	Hari         string  `json:"hari"           validate:"required,weekday"`
	Tanggal      string  `json:"tanggal"        validate:"required,date_ymd"`
	JamMulai     string  `json:"jam_mulai"      validate:"required,hhmm"`
	JamSelesai   string  `json:"jam_selesai"    validate:"required,hhmm"`
	Materi       string  `json:"materi"         validate:"required,max=255"`
	Status       string  `json:"status"         validate:"omitempty,oneof=scheduled ongoing completed cancelled"`
	Catatan      *string `json:"catatan"        validate:"omitempty,max=2000"`
	MaxMahasiswa *int    `json:"max_mahasiswa"  validate:"omitempty,min=1,max=1000"`
}

// UpdateScheduleEntryRequest partial schedule update
type UpdateScheduleEntryRequest struct {
	MataKuliahID *string `json:"mata_kuliah_id" validate:"omitnil,uuid"`
	DosenID      *string `json:"dosen_id"       validate:"omitnil,uuid"`
	LabRoomID    *string `json:"lab_room_id"    validate:"omitnil,uuid"`
	Hari         *string `json:"hari"           validate:"omitnil,weekday"`
	Tanggal      *string `json:"tanggal"        validate:"omitnil,date_ymd"`
	JamMulai     *string `json:"jam_mulai"      validate:"omitnil,hhmm"`
	JamSelesai   *string `json:"jam_selesai"    validate:"omitnil,hhmm"`
	Materi       *string `json:"materi"         validate:"omitnil,min=1,max=255"`
	Status       *string `json:"status"         validate:"omitnil,oneof=scheduled ongoing completed cancelled"`
	Catatan      *string `json:"catatan"        validate:"omitempty,max=2000"`
	MaxMahasiswa *int    `json:"max_mahasiswa"  validate:"omitnil,min=1,max=1000"`
	// Version last version seen by the client; 0 skips the check.
	Version int `json:"version" validate:"omitempty,min=1"`
}

// ScheduleEntryResponse schedule row with embedded course, instructor and room
type ScheduleEntryResponse struct {
	ID           string        `json:"id"`
	MataKuliahID string        `json:"mata_kuliah_id"`
	DosenID      string        `json:"dosen_id"`
	LabRoomID    string        `json:"lab_room_id"`
	Hari         string        `json:"hari"`
	Tanggal      string        `json:"tanggal"`
	JamMulai     string        `json:"jam_mulai"`
	JamSelesai   string        `json:"jam_selesai"`
	Materi       string        `json:"materi"`
	Status       string        `json:"status"`
	Catatan      *string       `json:"catatan"`
	MaxMahasiswa *int          `json:"max_mahasiswa"`
	Version      int           `json:"version"`
	MataKuliah   *CourseBrief  `json:"mata_kuliah"`
	Dosen        *UserBrief    `json:"dosen"`
	LabRoom      *LabRoomBrief `json:"lab_room"`
	CreatedAt    string        `json:"created_at"`
	UpdatedAt    string        `json:"updated_at"`
}

// ── availability ──

// AvailabilityRequest proposed booking to test against the room calendar
type AvailabilityRequest struct {
	LabRoomID  string `json:"lab_room_id" validate:"required,uuid"`
	Hari       string `json:"hari"        validate:"required,weekday"`
	Tanggal    string `json:"tanggal"     validate:"required,date_ymd"`
	JamMulai   string `json:"jam_mulai"   validate:"required,hhmm"`
	JamSelesai string `json:"jam_selesai" validate:"required,hhmm"`
	ExcludeID  string `json:"exclude_id"  validate:"omitempty,uuid"`
}

// ScheduleConflict an existing booking overlapping the requested slot
type ScheduleConflict struct {
	ID         string `json:"id"`
	MataKuliah string `json:"mata_kuliah"`
	Dosen      string `json:"dosen"`
	JamMulai   string `json:"jam_mulai"`
	JamSelesai string `json:"jam_selesai"`
}

// AvailabilityResponse availability result; conflicts is never null
type AvailabilityResponse struct {
	Available bool               `json:"available"`
	Conflicts []ScheduleConflict `json:"conflicts"`
}

// ── stats ──

// ScheduleStats schedule counters
type ScheduleStats struct {
	Total     int64 `json:"total"`
	Scheduled int64 `json:"scheduled"`
	Ongoing   int64 `json:"ongoing"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
	ThisWeek  int64 `json:"this_week"`
}
