package model

import "github.com/lib/pq"

// LabRoom table lab_rooms
type LabRoom struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	KodeLab   string         `gorm:"type:varchar(20);not null"                      json:"kode_lab"`
	NamaLab   string         `gorm:"type:varchar(100);not null"                     json:"nama_lab"`
	Deskripsi *string        `gorm:"type:text"                                      json:"deskripsi,omitempty"`
	Kapasitas int            `gorm:"not null"                                       json:"kapasitas"`
	Status    string         `gorm:"type:varchar(10);not null;default:'active'"     json:"status"`
	Lokasi    string         `gorm:"type:varchar(200);not null;default:''"          json:"lokasi"`
	Fasilitas pq.StringArray `gorm:"type:text[];not null;default:'{}'"              json:"fasilitas"`
	PicID     *string        `gorm:"type:uuid"                                      json:"pic_id,omitempty"`
	BaseModel

	Pic *User `gorm:"foreignKey:PicID;references:ID" json:"pic,omitempty"`

	// CourseCount filled by list/detail queries; not a column.
	CourseCount int64 `gorm:"->;-:migration" json:"mata_kuliah_count"`
}

// TableName table name
func (LabRoom) TableName() string { return "lab_rooms" }
