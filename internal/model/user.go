package model

// Roles. Values are the identifiers stored in users.role and used as RBAC keys.
const (
	RoleAdmin         = "admin"
	RoleInstructor    = "dosen"
	RoleLabTechnician = "laboran"
	RoleStudent       = "mahasiswa"
)

// ValidRoles every role the system knows about
var ValidRoles = []string{RoleAdmin, RoleInstructor, RoleLabTechnician, RoleStudent}

// User table users
type User struct {
	ID           string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string  `gorm:"type:varchar(255);not null"                     json:"email"`
	FullName     string  `gorm:"type:varchar(100);not null"                     json:"full_name"`
	Role         string  `gorm:"type:varchar(20);not null"                      json:"role"`
	NimNip       *string `gorm:"column:nim_nip;type:varchar(20)"                json:"nim_nip,omitempty"`
	Phone        *string `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	Status       string  `gorm:"type:varchar(10);not null;default:'active'"     json:"status"`
	LabRoomID    *string `gorm:"type:uuid"                                      json:"lab_room_id,omitempty"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	BaseModel

	LabRoom *LabRoom `gorm:"foreignKey:LabRoomID;references:ID" json:"lab_room,omitempty"`
}

// TableName table name
func (User) TableName() string { return "users" }
