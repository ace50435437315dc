// Package fields normalizes and validates request fields with ozzo-validation.
// Failures come back as *domain.ValidationError carrying the caller's message.
package fields

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"allmanager/internal/config"
	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
)

// EmailPattern is deliberately loose: something@something.tld, no whitespace.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EmailRules validate a normalized email address.
var EmailRules = []validation.Rule{
	validation.Required,
	validation.RuneLength(1, config.MaxEmailLength),
	validation.Match(EmailPattern),
}

func invalid(msg string) error {
	return &domain.ValidationError{Message: msg}
}

// Check runs ozzo rules against value and replaces any failure with msg.
func Check(value interface{}, msg string, rules ...validation.Rule) error {
	if err := validation.Validate(value, rules...); err != nil {
		return invalid(msg)
	}
	return nil
}

// Text trims a required value and checks it has 1..max characters.
func Text(value string, max int, msg string) (string, error) {
	v := strings.TrimSpace(value)
	if err := Check(v, msg, validation.Required, validation.RuneLength(1, max)); err != nil {
		return "", err
	}
	return v, nil
}

// OptionalText trims an optional value. Nil or blank becomes nil.
func OptionalText(value *string, max int, msg string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil, nil
	}
	if err := Check(v, msg, validation.RuneLength(1, max)); err != nil {
		return nil, err
	}
	return &v, nil
}

// PatchRequiredText handles an update to a NOT NULL text column.
// Absent returns nil; null or blank is rejected.
func PatchRequiredText(o models.Optional[string], max int, msg string) (*string, error) {
	if !o.Present {
		return nil, nil
	}
	if o.Value == nil {
		return nil, invalid(msg)
	}
	v, err := Text(*o.Value, max, msg)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// PatchText handles an update to a nullable text column.
// set reports whether the column changes; null or blank clears it.
func PatchText(o models.Optional[string], max int, msg string) (set bool, value *string, err error) {
	if !o.Present {
		return false, nil, nil
	}
	value, err = OptionalText(o.Value, max, msg)
	if err != nil {
		return false, nil, err
	}
	return true, value, nil
}

// Email trims and lowercases an address, then validates it.
func Email(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if err := Check(v, "Invalid email", EmailRules...); err != nil {
		return "", err
	}
	return v, nil
}

// OptionalEmail normalizes an optional address. Nil or blank becomes nil.
func OptionalEmail(value *string) (*string, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	v, err := Email(*value)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// PatchEmail handles an update to a nullable email column.
func PatchEmail(o models.Optional[string]) (set bool, value *string, err error) {
	if !o.Present {
		return false, nil, nil
	}
	value, err = OptionalEmail(o.Value)
	if err != nil {
		return false, nil, err
	}
	return true, value, nil
}

// Enum returns value if it is one of allowed, or def when value is nil.
func Enum[T ~string](value *T, def T, allowed []any, msg string) (T, error) {
	if value == nil {
		return def, nil
	}
	if err := Check(*value, msg, validation.Required, validation.In(allowed...)); err != nil {
		return "", err
	}
	return *value, nil
}

// PatchEnum handles an update to a NOT NULL enum column.
func PatchEnum[T ~string](o models.Optional[T], allowed []any, msg string) (*T, error) {
	if !o.Present {
		return nil, nil
	}
	if o.Value == nil {
		return nil, invalid(msg)
	}
	v, err := Enum(o.Value, "", allowed, msg)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// dateRule accepts real calendar dates in YYYY-MM-DD form.
var dateRule = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if _, err := time.Parse(models.DateLayout, s); err != nil {
		return err
	}
	return nil
})

// OptionalDate normalizes an optional YYYY-MM-DD date. Nil or blank becomes nil.
func OptionalDate(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil, nil
	}
	if err := Check(v, "Invalid due_date", dateRule); err != nil {
		return nil, err
	}
	return &v, nil
}

// PatchDate handles an update to a nullable date column.
func PatchDate(o models.Optional[string]) (set bool, value *string, err error) {
	if !o.Present {
		return false, nil, nil
	}
	value, err = OptionalDate(o.Value)
	if err != nil {
		return false, nil, err
	}
	return true, value, nil
}

// OptionalID validates an optional reference. Nil or zero becomes nil.
func OptionalID(value *int64, msg string) (*int64, error) {
	if value == nil || *value == 0 {
		return nil, nil
	}
	if *value < 0 {
		return nil, invalid(msg)
	}
	v := *value
	return &v, nil
}

// PatchID handles an update to a nullable reference column.
func PatchID(o models.Optional[int64], msg string) (set bool, value *int64, err error) {
	if !o.Present {
		return false, nil, nil
	}
	value, err = OptionalID(o.Value, msg)
	if err != nil {
		return false, nil, err
	}
	return true, value, nil
}
