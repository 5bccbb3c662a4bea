// Package validation checks candidate records before they reach a service.
//
// Field rules live in `validate` struct tags on the request DTOs; rules that
// span several fields are registered as struct-level validations. The result
// is a FieldErrors map keyed by JSON field name holding the message of the
// first violated rule for that field.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"simlab/config"
	"simlab/internal/dto"
	"simlab/internal/model"
)

var (
	labCodePattern    = regexp.MustCompile(`^[A-Z0-9-]+$`)
	courseCodePattern = regexp.MustCompile(`^[A-Z]{2,4}\d{3,4}$`)
	hhmmPattern       = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	phonePattern      = regexp.MustCompile(`^(\+62|62|0)[0-9]{9,13}$`)
	nimPattern        = regexp.MustCompile(`^\d{8,10}$`)
)

// DefaultEmailDomains allowed email suffixes per role
var DefaultEmailDomains = map[string][]string{
	model.RoleAdmin:         {"@akbid.ac.id"},
	model.RoleInstructor:    {"@akbid.ac.id", "@lecturer.akbid.ac.id"},
	model.RoleLabTechnician: {"@akbid.ac.id", "@staff.akbid.ac.id"},
	model.RoleStudent:       {"@student.akbid.ac.id", "@mhs.akbid.ac.id"},
}

// FieldErrors field → first violated rule message. Empty means valid.
type FieldErrors map[string]string

// Valid reports whether no rule was violated.
func (f FieldErrors) Valid() bool { return len(f) == 0 }

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator wraps a configured validator.Validate.
type Validator struct {
	v       *validator.Validate
	domains map[string][]string
}

// New builds a Validator. Roles missing from cfg.EmailDomains fall back to
// DefaultEmailDomains.
func New(cfg *config.ValidationConfig) *Validator {
	domains := make(map[string][]string, len(DefaultEmailDomains))
	for role, d := range DefaultEmailDomains {
		domains[role] = d
	}
	if cfg != nil {
		for role, d := range cfg.EmailDomains {
			if len(d) > 0 {
				domains[role] = d
			}
		}
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "lab_code", matches(labCodePattern))
	mustRegister(v, "course_code", matches(courseCodePattern))
	mustRegister(v, "hhmm", matches(hhmmPattern))
	mustRegister(v, "phone_id", matches(phonePattern))
	mustRegister(v, "weekday", func(fl validator.FieldLevel) bool {
		return isWeekday(fl.Field().String())
	})
	mustRegister(v, "date_ymd", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})

	val := &Validator{v: v, domains: domains}
	v.RegisterStructValidation(val.createUserRules, dto.CreateUserRequest{})
	v.RegisterStructValidation(val.updateUserRules, dto.UpdateUserRequest{})
	v.RegisterStructValidation(createScheduleRules, dto.CreateScheduleEntryRequest{})
	v.RegisterStructValidation(updateScheduleRules, dto.UpdateScheduleEntryRequest{})
	v.RegisterStructValidation(availabilityRules, dto.AvailabilityRequest{})
	return val
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Validate runs field and cross-field rules against s (a request DTO or a
// pointer to one). The input is never modified.
func (val *Validator) Validate(s interface{}) FieldErrors {
	out := FieldErrors{}
	err := val.v.Struct(s)
	if err == nil {
		return out
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		key := fieldKey(fe)
		if _, seen := out[key]; seen {
			continue
		}
		out[key] = message(fe)
	}
	return out
}

// AllowedEmailDomains suffixes accepted for role.
func (val *Validator) AllowedEmailDomains(role string) []string {
	return append([]string(nil), val.domains[role]...)
}

// ── entity lookup ──

// Entities accepted by ValidateEntity.
const (
	EntityUser          = "user"
	EntityLabRoom       = "lab-room"
	EntityCourse        = "course"
	EntityScheduleEntry = "schedule-entry"
)

// ErrUnknownEntity returned by ValidateEntity for an unsupported entity name.
var ErrUnknownEntity = errors.New("unknown entity")

// ValidateEntity decodes raw JSON into the create (or, with partial, the
// update) record of entity and validates it. A malformed body is reported as
// an error, not as field errors.
func (val *Validator) ValidateEntity(entity string, raw []byte, partial bool) (FieldErrors, error) {
	target, err := newRecord(entity, partial)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode %s: %w", entity, err)
	}
	return val.Validate(target), nil
}

func newRecord(entity string, partial bool) (interface{}, error) {
	switch entity {
	case EntityUser:
		if partial {
			return &dto.UpdateUserRequest{}, nil
		}
		return &dto.CreateUserRequest{}, nil
	case EntityLabRoom:
		if partial {
			return &dto.UpdateLabRoomRequest{}, nil
		}
		return &dto.CreateLabRoomRequest{}, nil
	case EntityCourse:
		if partial {
			return &dto.UpdateCourseRequest{}, nil
		}
		return &dto.CreateCourseRequest{}, nil
	case EntityScheduleEntry:
		if partial {
			return &dto.UpdateScheduleEntryRequest{}, nil
		}
		return &dto.CreateScheduleEntryRequest{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
}

func isWeekday(s string) bool {
	for _, d := range model.Weekdays {
		if d == s {
			return true
		}
	}
	return false
}

// fieldKey JSON name of the failing field; nested paths keep their parent
// prefix (fasilitas[1]).
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
