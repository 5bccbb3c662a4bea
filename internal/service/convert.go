package service

import (
	"time"

	"simlab/internal/dto"
	"simlab/internal/model"
)

const timeLayout = time.RFC3339

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{ID: u.ID, FullName: u.FullName, Email: u.Email}
}

func toLabRoomBrief(r *model.LabRoom) *dto.LabRoomBrief {
	if r == nil {
		return nil
	}
	return &dto.LabRoomBrief{ID: r.ID, KodeLab: r.KodeLab, NamaLab: r.NamaLab}
}

func toCourseBrief(c *model.Course) *dto.CourseBrief {
	if c == nil {
		return nil
	}
	return &dto.CourseBrief{ID: c.ID, KodeMK: c.KodeMK, NamaMK: c.NamaMK}
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		NimNip:    u.NimNip,
		Phone:     u.Phone,
		Status:    u.Status,
		LabRoomID: u.LabRoomID,
		LabRoom:   toLabRoomBrief(u.LabRoom),
		CreatedAt: u.CreatedAt.Format(timeLayout),
		UpdatedAt: u.UpdatedAt.Format(timeLayout),
	}
}

func toLabRoomResponse(r *model.LabRoom) dto.LabRoomResponse {
	fasilitas := []string(r.Fasilitas)
	if fasilitas == nil {
		fasilitas = []string{}
	}
	return dto.LabRoomResponse{
		ID:              r.ID,
		KodeLab:         r.KodeLab,
		NamaLab:         r.NamaLab,
		Deskripsi:       r.Deskripsi,
		Kapasitas:       r.Kapasitas,
		Status:          r.Status,
		Lokasi:          r.Lokasi,
		Fasilitas:       fasilitas,
		PicID:           r.PicID,
		Pic:             toUserBrief(r.Pic),
		MataKuliahCount: r.CourseCount,
		CreatedAt:       r.CreatedAt.Format(timeLayout),
		UpdatedAt:       r.UpdatedAt.Format(timeLayout),
	}
}

func toCourseResponse(c *model.Course) dto.CourseResponse {
	cpl := []string(c.CapaianPembelajaran)
	if cpl == nil {
		cpl = []string{}
	}
	return dto.CourseResponse{
		ID:                  c.ID,
		KodeMK:              c.KodeMK,
		NamaMK:              c.NamaMK,
		SKS:                 c.SKS,
		Semester:            c.Semester,
		DosenID:             c.DosenID,
		LabRoomID:           c.LabRoomID,
		Status:              c.Status,
		Deskripsi:           c.Deskripsi,
		Silabus:             c.Silabus,
		CapaianPembelajaran: cpl,
		Dosen:               toUserBrief(c.Dosen),
		LabRoom:             toLabRoomBrief(c.LabRoom),
		CreatedAt:           c.CreatedAt.Format(timeLayout),
		UpdatedAt:           c.UpdatedAt.Format(timeLayout),
	}
}

func toScheduleEntryResponse(e *model.ScheduleEntry) dto.ScheduleEntryResponse {
	return dto.ScheduleEntryResponse{
		ID:           e.ID,
		MataKuliahID: e.CourseID,
		DosenID:      e.DosenID,
		LabRoomID:    e.LabRoomID,
		Hari:         e.Hari,
		Tanggal:      formatDate(e),
		JamMulai:     e.JamMulai,
		JamSelesai:   e.JamSelesai,
		Materi:       e.Materi,
		Status:       e.Status,
		Catatan:      e.Catatan,
		MaxMahasiswa: e.MaxMahasiswa,
		Version:      e.Version,
		MataKuliah:   toCourseBrief(e.Course),
		Dosen:        toUserBrief(e.Dosen),
		LabRoom:      toLabRoomBrief(e.LabRoom),
		CreatedAt:    e.CreatedAt.Format(timeLayout),
		UpdatedAt:    e.UpdatedAt.Format(timeLayout),
	}
}

func formatDate(e *model.ScheduleEntry) string {
	return time.Time(e.Tanggal).Format("2006-01-02")
}

// nullable "" clears a nullable column, anything else sets it
func nullable(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

// dedupe keeps the first occurrence of each value, in order
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
