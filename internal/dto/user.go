package dto

// ── user module ──

// UserListRequest user list query
type UserListRequest struct {
	PaginationRequest
	Role      string `form:"role"        binding:"omitempty,oneof=admin dosen laboran mahasiswa"`
	Status    string `form:"status"      binding:"omitempty,oneof=active inactive"`
	LabRoomID string `form:"lab_room_id" binding:"omitempty,uuid"`
	Search    string `form:"search"      binding:"omitempty,max=100"`
}

// CreateUserRequest new user
type CreateUserRequest struct {
	Email     string  `json:"email"       validate:"required,email,max=255"`
	FullName  string  `json:"full_name"   validate:"required,min=2,max=100"`
	Role      string  `json:"role"        validate:"required,oneof=admin dosen laboran mahasiswa"`
	NimNip    *string `json:"nim_nip"     validate:"omitempty,min=5,max=20"`
	Phone     *string `json:"phone"       validate:"omitempty,phone_id"`
	Status    string  `json:"status"      validate:"omitempty,oneof=active inactive"`
	LabRoomID *string `json:"lab_room_id" validate:"omitempty,uuid"`
}

// UpdateUserRequest partial user update; nil fields are left unchanged
type UpdateUserRequest struct {
	Email     *string `json:"email"       validate:"omitnil,email,max=255"`
	FullName  *string `json:"full_name"   validate:"omitnil,min=2,max=100"`
	Role      *string `json:"role"        validate:"omitnil,oneof=admin dosen laboran mahasiswa"`
	NimNip    *string `json:"nim_nip"     validate:"omitempty,min=5,max=20"`
	Phone     *string `json:"phone"       validate:"omitempty,phone_id"`
	Status    *string `json:"status"      validate:"omitnil,oneof=active inactive"`
	LabRoomID *string `json:"lab_room_id" validate:"omitempty,uuid"`
}

// UserResponse user without credentials
type UserResponse struct {
	ID        string        `json:"id"`
	Email     string        `json:"email"`
	FullName  string        `json:"full_name"`
	Role      string        `json:"role"`
	NimNip    *string       `json:"nim_nip"`
	Phone     *string       `json:"phone"`
	Status    string        `json:"status"`
	LabRoomID *string       `json:"lab_room_id"`
	LabRoom   *LabRoomBrief `json:"lab_room,omitempty"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

// CreateUserResponse created user plus the one-time temporary password
type CreateUserResponse struct {
	User         UserResponse `json:"user"`
	TempPassword string       `json:"temp_password"`
}

// ResetPasswordResponse reset password
type ResetPasswordResponse struct {
	TempPassword string `json:"temp_password"`
}
