package dto

// ── course (mata kuliah) module ──

// CourseListRequest course list query
type CourseListRequest struct {
	PaginationRequest
	Status    string `form:"status"      binding:"omitempty,oneof=active inactive"`
	Semester  int    `form:"semester"    binding:"omitempty,min=1,max=8"`
	DosenID   string `form:"dosen_id"    binding:"omitempty,uuid"`
	LabRoomID string `form:"lab_room_id" binding:"omitempty,uuid"`
	Search    string `form:"search"      binding:"omitempty,max=100"`
}

// CreateCourseRequest new course
type CreateCourseRequest struct {
	KodeMK              string   `json:"kode_mk"              validate:"required,course_code"`
	NamaMK              string   `json:"nama_mk"              validate:"required,min=5,max=150"`
	SKS                 int      `json:"sks"                  validate:"required,min=1,max=6"`
	Semester            int      `json:"semester"             validate:"required,min=1,max=8"`
	DosenID             *string  `json:"dosen_id"             validate:"omitempty,uuid"`
	LabRoomID           *string  `json:"lab_room_id"          validate:"omitempty,uuid"`
	Status              string   `json:"status"               validate:"omitempty,oneof=active inactive"`
	Deskripsi           *string  `json:"deskripsi"            validate:"omitempty,max=2000"`
	Silabus             *string  `json:"silabus"              validate:"omitempty,max=20000"`
	CapaianPembelajaran []string `json:"capaian_pembelajaran" validate:"omitempty,dive,required,max=500"`
}

// UpdateCourseRequest partial course update
type UpdateCourseRequest struct {
	KodeMK              *string   `json:"kode_mk"              validate:"omitnil,course_code"`
	NamaMK              *string   `json:"nama_mk"              validate:"omitnil,min=5,max=150"`
	SKS                 *int      `json:"sks"                  validate:"omitnil,min=1,max=6"`
	Semester            *int      `json:"semester"             validate:"omitnil,min=1,max=8"`
	DosenID             *string   `json:"dosen_id"             validate:"omitempty,uuid"`
	LabRoomID           *string   `json:"lab_room_id"          validate:"omitempty,uuid"`
	Status              *string   `json:"status"               validate:"omitnil,oneof=active inactive"`
	Deskripsi           *string   `json:"deskripsi"            validate:"omitempty,max=2000"`
	Silabus             *string   `json:"silabus"              validate:"omitempty,max=20000"`
	CapaianPembelajaran *[]string `json:"capaian_pembelajaran" validate:"omitnil,dive,required,max=500"`
}

// AssignInstructorRequest set the course instructor
type AssignInstructorRequest struct {
	DosenID string `json:"dosen_id" validate:"required,uuid"`
}

// CourseResponse course row with embedded instructor and lab room
type CourseResponse struct {
	ID                  string        `json:"id"`
	KodeMK              string        `json:"kode_mk"`
	NamaMK              string        `json:"nama_mk"`
	SKS                 int           `json:"sks"`
	Semester            int           `json:"semester"`
	DosenID             *string       `json:"dosen_id"`
	LabRoomID           *string       `json:"lab_room_id"`
	Status              string        `json:"status"`
	Deskripsi           *string       `json:"deskripsi"`
	Silabus             *string       `json:"silabus"`
	CapaianPembelajaran []string      `json:"capaian_pembelajaran"`
	Dosen               *UserBrief    `json:"dosen"`
	LabRoom             *LabRoomBrief `json:"lab_room"`
	CreatedAt           string        `json:"created_at"`
	UpdatedAt           string        `json:"updated_at"`
}

// CourseOption select-box entry
type CourseOption struct {
	ID     string `json:"id"`
	KodeMK string `json:"kode_mk"`
	NamaMK string `json:"nama_mk"`
	SKS    int    `json:"sks"`
}
