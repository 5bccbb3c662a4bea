package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"simlab/internal/dto"
	"simlab/internal/model"
	"simlab/internal/rbac"
	"simlab/internal/repository"
	"simlab/internal/scheduling"
)

var ErrExportGenerateFail = errors.New("failed to generate export file")

// ExportService schedule exports. Both formats honour the list filters and
// the own-only restriction.
type ExportService interface {
	// ExportXLSX one row per entry; returns the workbook and a file name.
	ExportXLSX(ctx context.Context, req *dto.ScheduleEntryListRequest, caller Caller) (*bytes.Buffer, string, error)
	// ExportICS iCalendar feed with one VEVENT per entry.
	ExportICS(ctx context.Context, req *dto.ScheduleEntryListRequest, caller Caller) ([]byte, string, error)
}

type exportService struct {
	repo    *repository.Repository
	checker *rbac.Checker
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(repo *repository.Repository, checker *rbac.Checker, loc *time.Location, logger *zap.Logger) ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{repo: repo, checker: checker, loc: loc, now: time.Now, logger: logger}
}

func (s *exportService) entries(ctx context.Context, req *dto.ScheduleEntryListRequest, caller Caller) ([]model.ScheduleEntry, error) {
	entries, err := s.repo.ScheduleEntry.ListAll(ctx, scopedFilter(s.checker, req, caller))
	if err != nil {
		s.logger.Error("load schedule entries for export failed", zap.Error(err))
		return nil, storeErr(err)
	}
	return entries, nil
}

// ────────────────────── Excel ──────────────────────

var xlsxHeaders = []string{
	"Tanggal", "Hari", "Jam Mulai", "Jam Selesai", "Kode MK", "Mata Kuliah",
	"Dosen", "Kode Lab", "Lab", "Materi", "Status", "Max Mahasiswa", "Catatan",
}

func (s *exportService) ExportXLSX(ctx context.Context, req *dto.ScheduleEntryListRequest, caller Caller) (*bytes.Buffer, string, error) {
	entries, err := s.entries(ctx, req, caller)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Jadwal Praktikum"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range xlsxHeaders {
		f.SetCellValue(sheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(xlsxHeaders)-1), 1), headerStyle)
	f.SetColWidth(sheet, "A", "D", 12)
	f.SetColWidth(sheet, "E", "E", 12)
	f.SetColWidth(sheet, "F", "G", 28)
	f.SetColWidth(sheet, "H", "I", 20)
	f.SetColWidth(sheet, "J", "J", 36)
	f.SetColWidth(sheet, "K", "M", 14)

	for i := range entries {
		e := &entries[i]
		row := i + 2
		values := []interface{}{
			formatDate(e),
			e.Hari,
			e.JamMulai,
			e.JamSelesai,
			courseCode(e),
			courseName(e),
			dosenName(e),
			roomCode(e),
			roomName(e),
			e.Materi,
			e.Status,
			"",
			"",
		}
		if e.MaxMahasiswa != nil {
			values[11] = *e.MaxMahasiswa
		}
		if e.Catatan != nil {
			values[12] = *e.Catatan
		}
		for col, v := range values {
			f.SetCellValue(sheet, cell(colName(col), row), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write xlsx failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("jadwal_praktikum_%s.xlsx", s.now().In(s.loc).Format("20060102"))
	return buf, filename, nil
}

// ────────────────────── iCalendar ──────────────────────

func (s *exportService) ExportICS(ctx context.Context, req *dto.ScheduleEntryListRequest, caller Caller) ([]byte, string, error) {
	entries, err := s.entries(ctx, req, caller)
	if err != nil {
		return nil, "", err
	}

	stamp := s.now().UTC()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//simlab//jadwal praktikum//ID")
	cal.SetXWRCalName("Jadwal Praktikum")
	cal.SetXWRTimezone(s.loc.String())

	for i := range entries {
		e := &entries[i]
		start, end, ok := s.eventTimes(e)
		if !ok {
			continue
		}

		ev := cal.AddEvent(e.ID + "@simlab")
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(fmt.Sprintf("%s %s: %s", courseCode(e), courseName(e), e.Materi))
		ev.SetLocation(strings.TrimSpace(roomCode(e) + " " + roomName(e)))

		desc := "Dosen: " + dosenName(e)
		if e.Catatan != nil && *e.Catatan != "" {
			desc += "\n" + *e.Catatan
		}
		ev.SetDescription(desc)

		status := "CONFIRMED"
		if e.Status == model.ScheduleStatusCancelled {
			status = "CANCELLED"
		}
		ev.SetProperty(ics.ComponentPropertyStatus, status)
	}

	filename := fmt.Sprintf("jadwal_praktikum_%s.ics", s.now().In(s.loc).Format("20060102"))
	return []byte(cal.Serialize()), filename, nil
}

func (s *exportService) eventTimes(e *model.ScheduleEntry) (time.Time, time.Time, bool) {
	start, err1 := scheduling.Minutes(e.JamMulai)
	end, err2 := scheduling.Minutes(e.JamSelesai)
	if err1 != nil || err2 != nil {
		return time.Time{}, time.Time{}, false
	}
	d := time.Time(e.Tanggal)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.loc)
	return day.Add(time.Duration(start) * time.Minute), day.Add(time.Duration(end) * time.Minute), true
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func courseCode(e *model.ScheduleEntry) string {
	if e.Course == nil {
		return ""
	}
	return e.Course.KodeMK
}

func courseName(e *model.ScheduleEntry) string {
	if e.Course == nil {
		return unknownName
	}
	return e.Course.NamaMK
}

func dosenName(e *model.ScheduleEntry) string {
	if e.Dosen == nil {
		return unknownName
	}
	return e.Dosen.FullName
}

func roomCode(e *model.ScheduleEntry) string {
	if e.LabRoom == nil {
		return ""
	}
	return e.LabRoom.KodeLab
}

func roomName(e *model.ScheduleEntry) string {
	if e.LabRoom == nil {
		return unknownName
	}
	return e.LabRoom.NamaLab
}
