package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"simlab/internal/dto"
	"simlab/internal/scheduling"
	pkgerrors "simlab/pkg/errors"
)

// ── business errors ──
//
// Each sentinel wraps one of the shared error kinds so handlers can fall back
// on the kind when a module error has no dedicated mapping.

var (
	ErrUserNotFound        = fmt.Errorf("%w: user", pkgerrors.ErrNotFound)
	ErrUserInvalid         = fmt.Errorf("%w: user", pkgerrors.ErrValidation)
	ErrEmailExists         = fmt.Errorf("%w: email already registered", pkgerrors.ErrDuplicateKey)
	ErrNimNipExists        = fmt.Errorf("%w: nim/nip already registered", pkgerrors.ErrDuplicateKey)
	ErrUserSelfDelete      = errors.New("cannot delete your own account")
	ErrUserHasSchedules    = fmt.Errorf("%w: user is assigned to schedule entries", pkgerrors.ErrDependencyExists)
	ErrLabRoomNotFound     = fmt.Errorf("%w: lab room", pkgerrors.ErrNotFound)
	ErrLabRoomCodeExists   = fmt.Errorf("%w: kode_lab already exists", pkgerrors.ErrDuplicateKey)
	ErrLabRoomHasCourses   = fmt.Errorf("%w: lab room is used by courses", pkgerrors.ErrDependencyExists)
	ErrLabRoomHasSchedules = fmt.Errorf("%w: lab room has schedule entries", pkgerrors.ErrDependencyExists)
	ErrCourseNotFound      = fmt.Errorf("%w: course", pkgerrors.ErrNotFound)
	ErrCourseCodeExists    = fmt.Errorf("%w: kode_mk already exists", pkgerrors.ErrDuplicateKey)
	ErrCourseHasSchedule   = fmt.Errorf("%w: course has schedule entries", pkgerrors.ErrDependencyExists)
	ErrNotInstructor       = errors.New("user is not an active dosen")

	ErrScheduleEntryNotFound   = fmt.Errorf("%w: schedule entry", pkgerrors.ErrNotFound)
	ErrInvalidStatusTransition = scheduling.ErrInvalidStatusTransition
	ErrScheduleNotOwner        = errors.New("schedule entry belongs to another instructor")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("account is inactive")
)

// RoomConflictError the requested slot overlaps existing bookings. It
// unwraps to pkgerrors.ErrRoomConflict.
type RoomConflictError struct {
	Conflicts []dto.ScheduleConflict
}

func (e *RoomConflictError) Error() string {
	if len(e.Conflicts) == 0 {
		return "Lab room is not available at the requested time"
	}
	names := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		names = append(names, c.MataKuliah)
	}
	return "Lab room is not available at the requested time. Conflicts: " + strings.Join(names, ", ")
}

func (e *RoomConflictError) Unwrap() error { return pkgerrors.ErrRoomConflict }

// notFoundOr translates a point-read error: missing row → notFound, anything
// else becomes a store error.
func notFoundOr(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, pkgerrors.ErrNotFound) {
		return notFound
	}
	return storeErr(err)
}

// storeErr keeps already classified errors and marks the rest as store failures.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{
		pkgerrors.ErrStore,
		pkgerrors.ErrNotFound,
		pkgerrors.ErrDuplicateKey,
		pkgerrors.ErrDependencyExists,
		pkgerrors.ErrRoomConflict,
		pkgerrors.ErrOptimisticLock,
	} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", pkgerrors.ErrStore, err)
}

// isNotFound point read found nothing
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
