package service

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"simlab/internal/dto"
	"simlab/internal/model"
	"simlab/internal/repository"
	pkgerrors "simlab/pkg/errors"
)

// LabRoomService lab room management
type LabRoomService interface {
	Create(ctx context.Context, req *dto.CreateLabRoomRequest, callerID string) (*dto.LabRoomResponse, error)
	GetByID(ctx context.Context, id string) (*dto.LabRoomResponse, error)
	List(ctx context.Context, req *dto.LabRoomListRequest) ([]dto.LabRoomResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateLabRoomRequest, callerID string) (*dto.LabRoomResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	Options(ctx context.Context) ([]dto.LabRoomOption, error)
}

type labRoomService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLabRoomService creates a LabRoomService
func NewLabRoomService(repo *repository.Repository, logger *zap.Logger) LabRoomService {
	return &labRoomService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *labRoomService) Create(ctx context.Context, req *dto.CreateLabRoomRequest, callerID string) (*dto.LabRoomResponse, error) {
	if err := s.checkKodeFree(ctx, req.KodeLab, ""); err != nil {
		return nil, err
	}
	picID := nullable(req.PicID)
	if err := s.checkPic(ctx, picID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.StatusActive
	}

	room := &model.LabRoom{
		KodeLab:   req.KodeLab,
		NamaLab:   req.NamaLab,
		Deskripsi: nullable(req.Deskripsi),
		Kapasitas: req.Kapasitas,
		Status:    status,
		Lokasi:    strings.TrimSpace(req.Lokasi),
		Fasilitas: pq.StringArray(dedupe(req.Fasilitas)),
		PicID:     picID,
		BaseModel: model.BaseModel{CreatedBy: &callerID, UpdatedBy: &callerID},
	}
	if err := s.repo.LabRoom.Create(ctx, room); err != nil {
		s.logger.Error("create lab room failed", zap.Error(err))
		return nil, s.translate(err)
	}

	return s.GetByID(ctx, room.ID)
}

// ────────────────────── Read ──────────────────────

func (s *labRoomService) GetByID(ctx context.Context, id string) (*dto.LabRoomResponse, error) {
	room, err := s.repo.LabRoom.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrLabRoomNotFound)
	}
	resp := toLabRoomResponse(room)
	return &resp, nil
}

func (s *labRoomService) List(ctx context.Context, req *dto.LabRoomListRequest) ([]dto.LabRoomResponse, int64, error) {
	filter := repository.LabRoomFilter{Status: req.Status, Lokasi: req.Lokasi, Search: req.Search}
	rooms, total, err := s.repo.LabRoom.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list lab rooms failed", zap.Error(err))
		return nil, 0, storeErr(err)
	}

	list := make([]dto.LabRoomResponse, 0, len(rooms))
	for i := range rooms {
		list = append(list, toLabRoomResponse(&rooms[i]))
	}
	return list, total, nil
}

// Options active rooms for select boxes
func (s *labRoomService) Options(ctx context.Context) ([]dto.LabRoomOption, error) {
	rooms, err := s.repo.LabRoom.ListActive(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	out := make([]dto.LabRoomOption, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, dto.LabRoomOption{ID: r.ID, KodeLab: r.KodeLab, NamaLab: r.NamaLab, Kapasitas: r.Kapasitas})
	}
	return out, nil
}

// ────────────────────── Update ──────────────────────

func (s *labRoomService) Update(ctx context.Context, id string, req *dto.UpdateLabRoomRequest, callerID string) (*dto.LabRoomResponse, error) {
	room, err := s.repo.LabRoom.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrLabRoomNotFound)
	}

	if req.KodeLab != nil && *req.KodeLab != room.KodeLab {
		if err := s.checkKodeFree(ctx, *req.KodeLab, id); err != nil {
			return nil, err
		}
		room.KodeLab = *req.KodeLab
	}
	if req.PicID != nil {
		picID := nullable(req.PicID)
		if err := s.checkPic(ctx, picID); err != nil {
			return nil, err
		}
		room.PicID = picID
		room.Pic = nil
	}
	if req.NamaLab != nil {
		room.NamaLab = *req.NamaLab
	}
	if req.Deskripsi != nil {
		room.Deskripsi = nullable(req.Deskripsi)
	}
	if req.Kapasitas != nil {
		room.Kapasitas = *req.Kapasitas
	}
	if req.Status != nil {
		room.Status = *req.Status
	}
	if req.Lokasi != nil {
		room.Lokasi = strings.TrimSpace(*req.Lokasi)
	}
	if req.Fasilitas != nil {
		room.Fasilitas = pq.StringArray(dedupe(*req.Fasilitas))
	}
	room.UpdatedBy = &callerID

	if err := s.repo.LabRoom.Update(ctx, room); err != nil {
		s.logger.Error("update lab room failed", zap.String("lab_room_id", id), zap.Error(err))
		return nil, s.translate(err)
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *labRoomService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.LabRoom.GetByID(ctx, id); err != nil {
		return notFoundOr(err, ErrLabRoomNotFound)
	}

	if err := s.checkUnused(ctx, id); err != nil {
		return err
	}

	if err := s.repo.LabRoom.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrDependencyExists):
			// a reference appeared after the check
			if depErr := s.checkUnused(ctx, id); depErr != nil {
				return depErr
			}
			return storeErr(err)
		case isNotFound(err):
			return ErrLabRoomNotFound
		}
		s.logger.Error("delete lab room failed", zap.String("lab_room_id", id), zap.Error(err))
		return storeErr(err)
	}

	s.logger.Info("lab room deleted", zap.String("lab_room_id", id), zap.String("by", callerID))
	return nil
}

// ── helpers ──

func (s *labRoomService) checkKodeFree(ctx context.Context, kode, selfID string) error {
	existing, err := s.repo.LabRoom.GetByKode(ctx, kode)
	if err == nil && existing.ID != selfID {
		return ErrLabRoomCodeExists
	}
	if err != nil && !isNotFound(err) {
		return storeErr(err)
	}
	return nil
}

func (s *labRoomService) checkPic(ctx context.Context, picID *string) error {
	if picID == nil {
		return nil
	}
	if _, err := s.repo.User.GetByID(ctx, *picID); err != nil {
		return notFoundOr(err, ErrUserNotFound)
	}
	return nil
}

func (s *labRoomService) translate(err error) error {
	switch {
	case errors.Is(err, pkgerrors.ErrDuplicateKey):
		return ErrLabRoomCodeExists
	case errors.Is(err, pkgerrors.ErrNotFound):
		return ErrUserNotFound
	}
	return storeErr(err)
}

// checkUnused no course or schedule entry references the room.
func (s *labRoomService) checkUnused(ctx context.Context, id string) error {
	courses, err := s.repo.LabRoom.CountCourses(ctx, id)
	if err != nil {
		return storeErr(err)
	}
	if courses > 0 {
		return ErrLabRoomHasCourses
	}
	entries, err := s.repo.LabRoom.CountScheduleEntries(ctx, id)
	if err != nil {
		return storeErr(err)
	}
	if entries > 0 {
		return ErrLabRoomHasSchedules
	}
	return nil
}
