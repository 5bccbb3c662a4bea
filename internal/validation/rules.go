package validation

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"simlab/internal/dto"
	"simlab/internal/model"
)

// Custom cross-field tags reported by the struct-level rules.
const (
	tagIdentifierRequired = "nim_nip_required"
	tagNipPrefix          = "nip_prefix"
	tagNimFormat          = "nim_format"
	tagEmailDomain        = "email_domain"
	tagTimeOrder          = "time_order"
	tagWeekdayMatch       = "weekday_match"
)

// ── user ──

// userViolation one broken cross-field rule on a user record.
type userViolation struct {
	field, structField string
	value              interface{}
	tag, param         string
}

func (val *Validator) createUserRules(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.CreateUserRequest)
	report(sl, val.userViolations(req.Role, req.Email, req.NimNip, false))
}

// Partial records are checked only for the pairs that are present.
func (val *Validator) updateUserRules(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.UpdateUserRequest)
	if req.Role == nil {
		return
	}
	email := ""
	if req.Email != nil {
		email = *req.Email
	}
	report(sl, val.userViolations(*req.Role, email, req.NimNip, true))
}

// CheckUser runs the role-dependent email domain and identifier rules on a
// complete user record, such as the result of applying a partial update.
func (val *Validator) CheckUser(role, email string, nimNip *string) FieldErrors {
	out := FieldErrors{}
	for _, v := range val.userViolations(role, email, nimNip, false) {
		if _, seen := out[v.field]; !seen {
			out[v.field] = ruleMessage(v.tag, v.param, reflect.String)
		}
	}
	return out
}

func report(sl validator.StructLevel, vs []userViolation) {
	for _, v := range vs {
		sl.ReportError(v.value, v.field, v.structField, v.tag, v.param)
	}
}

func (val *Validator) userViolations(role, email string, nimNip *string, partial bool) []userViolation {
	var out []userViolation
	if email != "" {
		if domains, ok := val.domains[role]; ok && !hasAnySuffix(email, domains) {
			out = append(out, userViolation{"email", "Email", email, tagEmailDomain, strings.Join(domains, ", ")})
		}
	}

	id := ""
	if nimNip != nil {
		id = *nimNip
	}
	if id == "" && partial && nimNip == nil {
		return out
	}

	bad := func(tag, param string) {
		out = append(out, userViolation{"nim_nip", "NimNip", nimNip, tag, param})
	}
	switch role {
	case model.RoleInstructor:
		switch {
		case id == "":
			bad(tagIdentifierRequired, role)
		case !strings.HasPrefix(id, "19") && !strings.HasPrefix(id, "20"):
			bad(tagNipPrefix, "")
		}
	case model.RoleLabTechnician:
		if id == "" {
			bad(tagIdentifierRequired, role)
		}
	case model.RoleStudent:
		switch {
		case id == "":
			bad(tagIdentifierRequired, role)
		case !nimPattern.MatchString(id):
			bad(tagNimFormat, "")
		}
	}
	return out
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

// ── schedule ──

func createScheduleRules(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.CreateScheduleEntryRequest)
	checkSlot(sl, req.Hari, req.Tanggal, req.JamMulai, req.JamSelesai)
}

func updateScheduleRules(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.UpdateScheduleEntryRequest)
	checkSlot(sl, deref(req.Hari), deref(req.Tanggal), deref(req.JamMulai), deref(req.JamSelesai))
}

func availabilityRules(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.AvailabilityRequest)
	checkSlot(sl, req.Hari, req.Tanggal, req.JamMulai, req.JamSelesai)
}

// checkSlot start before end, weekday agrees with the date. Each rule runs
// only when both of its fields are present and well-formed.
func checkSlot(sl validator.StructLevel, hari, tanggal, start, end string) {
	if hhmmPattern.MatchString(start) && hhmmPattern.MatchString(end) && start >= end {
		sl.ReportError(end, "jam_selesai", "JamSelesai", tagTimeOrder, "")
	}
	if hari == "" || tanggal == "" || !isWeekday(hari) {
		return
	}
	d, err := time.Parse("2006-01-02", tanggal)
	if err != nil {
		return
	}
	if WeekdayOf(d) != hari {
		sl.ReportError(hari, "hari", "Hari", tagWeekdayMatch, WeekdayOf(d))
	}
}

// WeekdayOf weekday name of d as stored in the hari column.
func WeekdayOf(d time.Time) string {
	// time.Weekday starts at Sunday, model.Weekdays at Monday.
	return model.Weekdays[(int(d.Weekday())+6)%7]
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
