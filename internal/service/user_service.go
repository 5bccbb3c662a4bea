package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"simlab/internal/dto"
	"simlab/internal/model"
	"simlab/internal/repository"
	"simlab/internal/validation"
	pkgerrors "simlab/pkg/errors"
)

const tempPasswordLength = 12

// UserService user management
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.CreateUserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	ResetPassword(ctx context.Context, id string, callerID string) (*dto.ResetPasswordResponse, error)
}

type userService struct {
	repo      *repository.Repository
	validator *validation.Validator
	logger    *zap.Logger
}

// NewUserService creates a UserService
func NewUserService(repo *repository.Repository, v *validation.Validator, logger *zap.Logger) UserService {
	return &userService{repo: repo, validator: v, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.CreateUserResponse, error) {
	if err := s.checkEmailFree(ctx, req.Email, ""); err != nil {
		return nil, err
	}
	nimNip := nullable(req.NimNip)
	if nimNip != nil {
		if err := s.checkNimNipFree(ctx, *nimNip, ""); err != nil {
			return nil, err
		}
	}
	labRoomID := nullable(req.LabRoomID)
	if err := s.checkLabRoom(ctx, labRoomID); err != nil {
		return nil, err
	}

	tempPwd, hash, err := s.newTempPassword()
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.StatusActive
	}

	user := &model.User{
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         req.Role,
		NimNip:       nimNip,
		Phone:        nullable(req.Phone),
		Status:       status,
		LabRoomID:    labRoomID,
		PasswordHash: hash,
		BaseModel:    model.BaseModel{CreatedBy: &callerID, UpdatedBy: &callerID},
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("create user failed", zap.Error(err))
		return nil, s.translate(err)
	}

	created, err := s.repo.User.GetByID(ctx, user.ID)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}

	return &dto.CreateUserResponse{User: toUserResponse(created), TempPassword: tempPwd}, nil
}

// ────────────────────── Read ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	filter := repository.UserFilter{
		Role:      req.Role,
		Status:    req.Status,
		LabRoomID: req.LabRoomID,
		Search:    req.Search,
	}
	users, total, err := s.repo.User.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, 0, storeErr(err)
	}

	list := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		list = append(list, toUserResponse(&users[i]))
	}
	return list, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}

	if req.Email != nil && *req.Email != user.Email {
		if err := s.checkEmailFree(ctx, *req.Email, id); err != nil {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.NimNip != nil {
		nimNip := nullable(req.NimNip)
		if nimNip != nil && (user.NimNip == nil || *user.NimNip != *nimNip) {
			if err := s.checkNimNipFree(ctx, *nimNip, id); err != nil {
				return nil, err
			}
		}
		user.NimNip = nimNip
	}
	if req.LabRoomID != nil {
		labRoomID := nullable(req.LabRoomID)
		if err := s.checkLabRoom(ctx, labRoomID); err != nil {
			return nil, err
		}
		user.LabRoomID = labRoomID
		user.LabRoom = nil
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Phone != nil {
		user.Phone = nullable(req.Phone)
	}
	if req.Status != nil {
		user.Status = *req.Status
	}

	// role, email and nim_nip are only valid together
	if req.Role != nil || req.Email != nil || req.NimNip != nil {
		if fields := s.validator.CheckUser(user.Role, user.Email, user.NimNip); !fields.Valid() {
			return nil, fmt.Errorf("%w: %w", ErrUserInvalid, fields)
		}
	}
	user.UpdatedBy = &callerID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update user failed", zap.String("user_id", id), zap.Error(err))
		return nil, s.translate(err)
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id string, callerID string) error {
	if id == callerID {
		return ErrUserSelfDelete
	}
	if _, err := s.repo.User.GetByID(ctx, id); err != nil {
		return notFoundOr(err, ErrUserNotFound)
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		if errors.Is(err, pkgerrors.ErrDependencyExists) {
			return ErrUserHasSchedules
		}
		if isNotFound(err) {
			return ErrUserNotFound
		}
		s.logger.Error("delete user failed", zap.String("user_id", id), zap.Error(err))
		return storeErr(err)
	}

	s.logger.Info("user deleted", zap.String("user_id", id), zap.String("by", callerID))
	return nil
}

// ────────────────────── ResetPassword ──────────────────────

func (s *userService) ResetPassword(ctx context.Context, id string, callerID string) (*dto.ResetPasswordResponse, error) {
	if _, err := s.repo.User.GetByID(ctx, id); err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}

	tempPwd, hash, err := s.newTempPassword()
	if err != nil {
		return nil, err
	}
	if err := s.repo.User.UpdatePassword(ctx, id, hash); err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("reset password failed", zap.String("user_id", id), zap.Error(err))
		return nil, storeErr(err)
	}

	s.logger.Info("password reset", zap.String("user_id", id), zap.String("by", callerID))
	return &dto.ResetPasswordResponse{TempPassword: tempPwd}, nil
}

// ── helpers ──

func (s *userService) checkEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.User.GetByEmail(ctx, email)
	if err == nil && existing.ID != selfID {
		return ErrEmailExists
	}
	if err != nil && !isNotFound(err) {
		return storeErr(err)
	}
	return nil
}

func (s *userService) checkNimNipFree(ctx context.Context, nimNip, selfID string) error {
	existing, err := s.repo.User.GetByNimNip(ctx, nimNip)
	if err == nil && existing.ID != selfID {
		return ErrNimNipExists
	}
	if err != nil && !isNotFound(err) {
		return storeErr(err)
	}
	return nil
}

func (s *userService) checkLabRoom(ctx context.Context, labRoomID *string) error {
	if labRoomID == nil {
		return nil
	}
	if _, err := s.repo.LabRoom.GetByID(ctx, *labRoomID); err != nil {
		return notFoundOr(err, ErrLabRoomNotFound)
	}
	return nil
}

// translate maps a constraint violation that raced past the pre-checks.
func (s *userService) translate(err error) error {
	switch {
	case errors.Is(err, pkgerrors.ErrDuplicateKey):
		if strings.Contains(err.Error(), "nim_nip") {
			return ErrNimNipExists
		}
		return ErrEmailExists
	case errors.Is(err, pkgerrors.ErrNotFound):
		return ErrLabRoomNotFound
	}
	return storeErr(err)
}

func (s *userService) newTempPassword() (plain, hash string, err error) {
	plain, err = generateTempPassword(tempPasswordLength)
	if err != nil {
		s.logger.Error("generate temp password failed", zap.Error(err))
		return "", "", err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return "", "", err
	}
	return plain, string(h), nil
}

// generateTempPassword random password with at least one letter and one digit;
// ambiguous characters (0/O, 1/l/I) are left out.
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 8 {
		length = 8
	}

	pick := func(set string) (byte, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return 0, err
		}
		return set[n.Int64()], nil
	}

	result := make([]byte, length)
	var err error
	if result[0], err = pick(letters); err != nil {
		return "", err
	}
	if result[1], err = pick(digits); err != nil {
		return "", err
	}
	for i := 2; i < length; i++ {
		if result[i], err = pick(all); err != nil {
			return "", err
		}
	}

	// Fisher-Yates
	for i := length - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		result[i], result[j.Int64()] = result[j.Int64()], result[i]
	}

	return string(result), nil
}
