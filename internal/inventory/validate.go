package inventory

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"itam-backend/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var (
	ipPattern  = regexp.MustCompile(`^((25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$`)
	macPattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}([0-9A-Fa-f]{2})$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("ipaddr", func(fl validator.FieldLevel) bool {
		return ipPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("macaddr", func(fl validator.FieldLevel) bool {
		return macPattern.MatchString(fl.Field().String())
	})
	return v
}

func ValidIP(s string) bool  { return ipPattern.MatchString(s) }
func ValidMAC(s string) bool { return macPattern.MatchString(s) }

// NormalizeIP drops leading zeros from each octet so that 010.000.000.005 and
// 10.0.0.5 are stored as the same address. Malformed input is returned trimmed
// and left for validation to reject.
func NormalizeIP(s string) string {
	s = strings.TrimSpace(s)
	if !ipPattern.MatchString(s) {
		return s
	}
	octets := strings.Split(s, ".")
	for i, o := range octets {
		n, _ := strconv.Atoi(o)
		octets[i] = strconv.Itoa(n)
	}
	return strings.Join(octets, ".")
}

// NormalizeMAC upper-cases a MAC address and uses colons as separators.
func NormalizeMAC(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", ":"))
}

// check validates v and reports the first failing field as InvalidInput.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperr.Newf(apperr.InvalidInput, "%s: %s", fe.Field(), describe(fe))
	}
	return apperr.Wrap(apperr.InvalidInput, "invalid input", err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "ipaddr":
		return "invalid IP address format, example 192.168.1.1"
	case "macaddr":
		return "invalid MAC address format, example 00:1A:2B:3C:4D:5E"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "numeric":
		return "must be numeric"
	case "oneof":
		return "must be one of " + fe.Param()
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	default:
		return "is invalid"
	}
}

// Check validates an arbitrary struct with the inventory rules.
func Check(v any) error { return check(v) }
