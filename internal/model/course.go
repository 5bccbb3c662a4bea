package model

import "github.com/lib/pq"

// Course table mata_kuliah
type Course struct {
	ID                  string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	KodeMK              string         `gorm:"column:kode_mk;type:varchar(10);not null"       json:"kode_mk"`
	NamaMK              string         `gorm:"column:nama_mk;type:varchar(150);not null"      json:"nama_mk"`
	SKS                 int            `gorm:"column:sks;not null"                            json:"sks"`
	Semester            int            `gorm:"not null"                                       json:"semester"`
	DosenID             *string        `gorm:"type:uuid"                                      json:"dosen_id,omitempty"`
	LabRoomID           *string        `gorm:"type:uuid"                                      json:"lab_room_id,omitempty"`
	Status              string         `gorm:"type:varchar(10);not null;default:'active'"     json:"status"`
	Deskripsi           *string        `gorm:"type:text"                                      json:"deskripsi,omitempty"`
	Silabus             *string        `gorm:"type:text"                                      json:"silabus,omitempty"`
	CapaianPembelajaran pq.StringArray `gorm:"type:text[];not null;default:'{}'"              json:"capaian_pembelajaran"`
	BaseModel

	Dosen   *User    `gorm:"foreignKey:DosenID;references:ID"   json:"dosen,omitempty"`
	LabRoom *LabRoom `gorm:"foreignKey:LabRoomID;references:ID" json:"lab_room,omitempty"`
}

// TableName table name
func (Course) TableName() string { return "mata_kuliah" }
