package service

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"simlab/internal/dto"
	"simlab/internal/model"
	"simlab/internal/repository"
	pkgerrors "simlab/pkg/errors"
)

// CourseService course (mata kuliah) management
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CourseResponse, error)
	List(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	Options(ctx context.Context) ([]dto.CourseOption, error)
	AssignInstructor(ctx context.Context, id string, req *dto.AssignInstructorRequest, callerID string) (*dto.CourseResponse, error)
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService creates a CourseService
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	if err := s.checkKodeFree(ctx, req.KodeMK, ""); err != nil {
		return nil, err
	}
	dosenID := nullable(req.DosenID)
	if err := s.checkInstructor(ctx, dosenID); err != nil {
		return nil, err
	}
	labRoomID := nullable(req.LabRoomID)
	if err := s.checkLabRoom(ctx, labRoomID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.StatusActive
	}
	cpl := req.CapaianPembelajaran
	if cpl == nil {
		cpl = []string{}
	}

	course := &model.Course{
		KodeMK:              req.KodeMK,
		NamaMK:              req.NamaMK,
		SKS:                 req.SKS,
		Semester:            req.Semester,
		DosenID:             dosenID,
		LabRoomID:           labRoomID,
		Status:              status,
		Deskripsi:           nullable(req.Deskripsi),
		Silabus:             nullable(req.Silabus),
		CapaianPembelajaran: pq.StringArray(cpl),
		BaseModel:           model.BaseModel{CreatedBy: &callerID, UpdatedBy: &callerID},
	}
	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("create course failed", zap.Error(err))
		return nil, s.translate(err)
	}

	return s.GetByID(ctx, course.ID)
}

// ────────────────────── Read ──────────────────────

func (s *courseService) GetByID(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrCourseNotFound)
	}
	resp := toCourseResponse(course)
	return &resp, nil
}

func (s *courseService) List(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error) {
	filter := repository.CourseFilter{
		Status:    req.Status,
		Semester:  req.Semester,
		DosenID:   req.DosenID,
		LabRoomID: req.LabRoomID,
		Search:    req.Search,
	}
	courses, total, err := s.repo.Course.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list courses failed", zap.Error(err))
		return nil, 0, storeErr(err)
	}

	list := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		list = append(list, toCourseResponse(&courses[i]))
	}
	return list, total, nil
}

// Options active courses for select boxes
func (s *courseService) Options(ctx context.Context) ([]dto.CourseOption, error) {
	courses, err := s.repo.Course.ListActive(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	out := make([]dto.CourseOption, 0, len(courses))
	for _, c := range courses {
		out = append(out, dto.CourseOption{ID: c.ID, KodeMK: c.KodeMK, NamaMK: c.NamaMK, SKS: c.SKS})
	}
	return out, nil
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrCourseNotFound)
	}

	if req.KodeMK != nil && *req.KodeMK != course.KodeMK {
		if err := s.checkKodeFree(ctx, *req.KodeMK, id); err != nil {
			return nil, err
		}
		course.KodeMK = *req.KodeMK
	}
	if req.DosenID != nil {
		dosenID := nullable(req.DosenID)
		if err := s.checkInstructor(ctx, dosenID); err != nil {
			return nil, err
		}
		course.DosenID = dosenID
		course.Dosen = nil
	}
	if req.LabRoomID != nil {
		labRoomID := nullable(req.LabRoomID)
		if err := s.checkLabRoom(ctx, labRoomID); err != nil {
			return nil, err
		}
		course.LabRoomID = labRoomID
		course.LabRoom = nil
	}
	if req.NamaMK != nil {
		course.NamaMK = *req.NamaMK
	}
	if req.SKS != nil {
		course.SKS = *req.SKS
	}
	if req.Semester != nil {
		course.Semester = *req.Semester
	}
	if req.Status != nil {
		course.Status = *req.Status
	}
	if req.Deskripsi != nil {
		course.Deskripsi = nullable(req.Deskripsi)
	}
	if req.Silabus != nil {
		course.Silabus = nullable(req.Silabus)
	}
	if req.CapaianPembelajaran != nil {
		course.CapaianPembelajaran = pq.StringArray(*req.CapaianPembelajaran)
	}
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("update course failed", zap.String("course_id", id), zap.Error(err))
		return nil, s.translate(err)
	}

	return s.GetByID(ctx, id)
}

// AssignInstructor sets the course instructor; the user must be an active dosen.
func (s *courseService) AssignInstructor(ctx context.Context, id string, req *dto.AssignInstructorRequest, callerID string) (*dto.CourseResponse, error) {
	return s.Update(ctx, id, &dto.UpdateCourseRequest{DosenID: &req.DosenID}, callerID)
}

// ────────────────────── Delete ──────────────────────

func (s *courseService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Course.GetByID(ctx, id); err != nil {
		return notFoundOr(err, ErrCourseNotFound)
	}

	count, err := s.repo.Course.CountScheduleEntries(ctx, id)
	if err != nil {
		return storeErr(err)
	}
	if count > 0 {
		return ErrCourseHasSchedule
	}

	if err := s.repo.Course.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrDependencyExists):
			return ErrCourseHasSchedule
		case isNotFound(err):
			return ErrCourseNotFound
		}
		s.logger.Error("delete course failed", zap.String("course_id", id), zap.Error(err))
		return storeErr(err)
	}

	s.logger.Info("course deleted", zap.String("course_id", id), zap.String("by", callerID))
	return nil
}

// ── helpers ──

func (s *courseService) checkKodeFree(ctx context.Context, kode, selfID string) error {
	existing, err := s.repo.Course.GetByKode(ctx, kode)
	if err == nil && existing.ID != selfID {
		return ErrCourseCodeExists
	}
	if err != nil && !isNotFound(err) {
		return storeErr(err)
	}
	return nil
}

func (s *courseService) checkInstructor(ctx context.Context, dosenID *string) error {
	if dosenID == nil {
		return nil
	}
	user, err := s.repo.User.GetByID(ctx, *dosenID)
	if err != nil {
		return notFoundOr(err, ErrUserNotFound)
	}
	if user.Role != model.RoleInstructor || user.Status != model.StatusActive {
		return ErrNotInstructor
	}
	return nil
}

func (s *courseService) checkLabRoom(ctx context.Context, labRoomID *string) error {
	if labRoomID == nil {
		return nil
	}
	if _, err := s.repo.LabRoom.GetByID(ctx, *labRoomID); err != nil {
		return notFoundOr(err, ErrLabRoomNotFound)
	}
	return nil
}

func (s *courseService) translate(err error) error {
	switch {
	case errors.Is(err, pkgerrors.ErrDuplicateKey):
		return ErrCourseCodeExists
	case errors.Is(err, pkgerrors.ErrNotFound):
		return ErrLabRoomNotFound
	}
	return storeErr(err)
}
