package dto

// ── lab room module ──

// LabRoomListRequest lab room list query
type LabRoomListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
	Lokasi string `form:"lokasi" binding:"omitempty,max=200"`
	Search string `form:"search" binding:"omitempty,max=100"`
}

// CreateLabRoomRequest new lab room
type CreateLabRoomRequest struct {
	KodeLab   string   `json:"kode_lab"  validate:"required,max=20,lab_code"`
	NamaLab   string   `json:"nama_lab"  validate:"required,min=5,max=100"`
	Deskripsi *string  `json:"deskripsi" validate:"omitempty,max=2000"`
	Kapasitas int      `json:"kapasitas" validate:"required,min=1,max=100"`
	Status    string   `json:"status"    validate:"omitempty,oneof=active inactive"`
	Lokasi    string   `json:"lokasi"    validate:"required,max=200"`
	Fasilitas []string `json:"fasilitas" validate:"omitempty,dive,required,max=100"`
	PicID     *string  `json:"pic_id"    validate:"omitempty,uuid"`
}

// UpdateLabRoomRequest partial lab room update
type UpdateLabRoomRequest struct {
	KodeLab   *string   `json:"kode_lab"  validate:"omitnil,max=20,lab_code"`
	NamaLab   *string   `json:"nama_lab"  validate:"omitnil,min=5,max=100"`
	Deskripsi *string   `json:"deskripsi" validate:"omitempty,max=2000"`
	Kapasitas *int      `json:"kapasitas" validate:"omitnil,min=1,max=100"`
	Status    *string   `json:"status"    validate:"omitnil,oneof=active inactive"`
	Lokasi    *string   `json:"lokasi"    validate:"omitnil,min=1,max=200"`
	Fasilitas *[]string `json:"fasilitas" validate:"omitnil,dive,required,max=100"`
	PicID     *string   `json:"pic_id"    validate:"omitempty,uuid"`
}

// LabRoomResponse lab room row
type LabRoomResponse struct {
	ID              string     `json:"id"`
	KodeLab         string     `json:"kode_lab"`
	NamaLab         string     `json:"nama_lab"`
	Deskripsi       *string    `json:"deskripsi"`
	Kapasitas       int        `json:"kapasitas"`
	Status          string     `json:"status"`
	Lokasi          string     `json:"lokasi"`
	Fasilitas       []string   `json:"fasilitas"`
	PicID           *string    `json:"pic_id"`
	Pic             *UserBrief `json:"pic,omitempty"`
	MataKuliahCount int64      `json:"mata_kuliah_count"`
	CreatedAt       string     `json:"created_at"`
	UpdatedAt       string     `json:"updated_at"`
}

// LabRoomOption select-box entry
type LabRoomOption struct {
	ID        string `json:"id"`
	KodeLab   string `json:"kode_lab"`
	NamaLab   string `json:"nama_lab"`
	Kapasitas int    `json:"kapasitas"`
}
