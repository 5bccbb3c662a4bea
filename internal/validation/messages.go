package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func message(fe validator.FieldError) string {
	return ruleMessage(fe.Tag(), fe.Param(), fe.Kind())
}

func ruleMessage(tag, param string, kind reflect.Kind) string {
	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid id"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(param, " ", ", ")
	case "min":
		return boundMessage(kind, param, "at least")
	case "max":
		return boundMessage(kind, param, "at most")
	case "lab_code":
		return "may only contain uppercase letters, digits and hyphens"
	case "course_code":
		return "must be 2-4 uppercase letters followed by 3-4 digits (e.g. TI101)"
	case "hhmm":
		return "must be a time in HH:MM format"
	case "phone_id":
		return "must be a valid phone number (e.g. 08123456789)"
	case "weekday":
		return "must be one of: senin, selasa, rabu, kamis, jumat, sabtu, minggu"
	case "date_ymd":
		return "must be a date in YYYY-MM-DD format"
	case tagIdentifierRequired:
		return fmt.Sprintf("is required for role %s", param)
	case tagNipPrefix:
		return "NIP for dosen must start with 19 or 20"
	case tagNimFormat:
		return "NIM must be 8-10 digits"
	case tagEmailDomain:
		return "email must use one of the domains: " + param
	case tagTimeOrder:
		return "end time must be after start time"
	case tagWeekdayMatch:
		return fmt.Sprintf("does not match the date (expected %s)", param)
	}
	return "is invalid"
}

func boundMessage(kind reflect.Kind, param, bound string) string {
	switch kind {
	case reflect.String:
		return fmt.Sprintf("must be %s %s characters", bound, param)
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("must contain %s %s items", bound, param)
	}
	return fmt.Sprintf("must be %s %s", bound, param)
}
