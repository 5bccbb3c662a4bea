package dto

// LabRoomStats lab room counters
type LabRoomStats struct {
	Total         int64 `json:"total"`
	Active        int64 `json:"active"`
	Inactive      int64 `json:"inactive"`
	TotalCapacity int64 `json:"total_capacity"`
}

// CourseStats course counters
type CourseStats struct {
	Total      int64         `json:"total"`
	Active     int64         `json:"active"`
	Inactive   int64         `json:"inactive"`
	TotalSKS   int64         `json:"total_sks"`
	BySemester map[int]int64 `json:"by_semester"`
}

// DashboardStats aggregated dashboard payload
type DashboardStats struct {
	LabRooms LabRoomStats  `json:"lab_rooms"`
	Courses  CourseStats   `json:"courses"`
	Schedule ScheduleStats `json:"schedule"`
}
