package model

import "gorm.io/datatypes"

// Schedule entry lifecycle: scheduled → ongoing → completed,
// cancelled reachable from scheduled or ongoing.
const (
	ScheduleStatusScheduled = "scheduled"
	ScheduleStatusOngoing   = "ongoing"
	ScheduleStatusCompleted = "completed"
	ScheduleStatusCancelled = "cancelled"
)

// ValidScheduleStatuses all lifecycle states
var ValidScheduleStatuses = []string{
	ScheduleStatusScheduled,
	ScheduleStatusOngoing,
	ScheduleStatusCompleted,
	ScheduleStatusCancelled,
}

// Weekdays (hari). Index 0 is Monday.
var Weekdays = []string{"senin", "selasa", "rabu", "kamis", "jumat", "sabtu", "minggu"}

// ScheduleEntry table jadwal_praktikum
type ScheduleEntry struct {
	ID           string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CourseID     string         `gorm:"column:mata_kuliah_id;type:uuid;not null"       json:"mata_kuliah_id"`
	DosenID      string         `gorm:"type:uuid;not null"                             json:"dosen_id"`
	LabRoomID    string         `gorm:"type:uuid;not null"                             json:"lab_room_id"`
	Hari         string         `gorm:"type:varchar(10);not null"                      json:"hari"`
	Tanggal      datatypes.Date `gorm:"not null"                                       json:"tanggal"`
	JamMulai     string         `gorm:"type:varchar(5);not null"                       json:"jam_mulai"`
	JamSelesai   string         `gorm:"type:varchar(5);not null"                       json:"jam_selesai"`
	Materi       string         `gorm:"type:varchar(255);not null"                     json:"materi"`
	Status       string         `gorm:"type:varchar(10);not null;default:'scheduled'"  json:"status"`
	Catatan      *string        `gorm:"type:text"                                      json:"catatan,omitempty"`
	MaxMahasiswa *int           `json:"max_mahasiswa,omitempty"`
	VersionedModel

	Course  *Course  `gorm:"foreignKey:CourseID;references:ID"  json:"mata_kuliah,omitempty"`
	Dosen   *User    `gorm:"foreignKey:DosenID;references:ID"   json:"dosen,omitempty"`
	LabRoom *LabRoom `gorm:"foreignKey:LabRoomID;references:ID" json:"lab_room,omitempty"`
}

// TableName table name
func (ScheduleEntry) TableName() string { return "jadwal_praktikum" }
