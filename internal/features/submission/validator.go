package submission

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"go-formhub/internal/features/form"

	"github.com/d5/tengo/v2"
)

// emailRe matches the usual local@domain shape: something, an @, something,
// a dot, more something. Intentionally loose.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Result is the outcome of validating one raw payload against a field set.
// Valid iff Errors is empty; Data then holds the coerced values keyed by
// field name. Optional fields absent from the payload are omitted.
type Result struct {
	Data   map[string]any
	Errors []string
}

func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Validate runs every active field against the raw payload. Errors across
// fields are all collected (never fail-fast between fields); within one
// field the type-specific checks stop at the first failure.
func Validate(fields []form.FormField, raw map[string]any) Result {
	return ValidateWithFiles(fields, raw, nil)
}

// ValidateWithFiles additionally matches uploaded files to file fields by
// their declared field name. A matched file field's scalar output is the
// first file's original name; its constraint set is checked against the
// whole matched group.
func ValidateWithFiles(fields []form.FormField, raw map[string]any, files map[string][]SubmissionFile) Result {
	res := Result{Data: make(map[string]any)}

	for _, field := range fields {
		if !field.IsActive {
			continue
		}

		if field.Type == form.FieldTypeFile {
			matched := files[field.Name]
			if len(matched) == 0 {
				if field.Validation.Required {
					res.Errors = append(res.Errors, fmt.Sprintf("%s is required", field.Label))
				}
				continue
			}
			if errs := CheckFileConstraints(field, matched); len(errs) > 0 {
				res.Errors = append(res.Errors, errs...)
				continue
			}
			res.Data[field.Name] = matched[0].OriginalName
			continue
		}

		val, exists := raw[field.Name]
		if isEmpty(val) {
			exists = false
		}

		if !exists {
			if field.Validation.Required {
				res.Errors = append(res.Errors, fmt.Sprintf("%s is required", field.Label))
			}
			continue
		}

		clean, errs := validateField(field, val)
		if len(errs) > 0 {
			res.Errors = append(res.Errors, errs...)
			continue
		}
		res.Data[field.Name] = clean
	}

	return res
}

func isEmpty(val any) bool {
	if val == nil {
		return true
	}
	if s, ok := val.(string); ok && s == "" {
		return true
	}
	if list, ok := val.([]any); ok && len(list) == 0 {
		return true
	}
	return false
}

func validateField(field form.FormField, val any) (any, []string) {
	var clean any
	var errs []string

	switch field.Type {
	case form.FieldTypeNumber:
		clean, errs = validateNumber(field, val)
	case form.FieldTypeEmail:
		clean, errs = validateEmail(field, val)
	case form.FieldTypeText, form.FieldTypeTextArea:
		clean, errs = validateText(field, val)
	case form.FieldTypeDropdown, form.FieldTypeRadio:
		clean, errs = validateChoice(field, val)
	case form.FieldTypeCheckbox:
		clean, errs = validateMultiChoice(field, val)
	default:
		clean = val
	}

	if len(errs) > 0 {
		return nil, errs
	}

	if field.Validation.Script != "" {
		if err := runFieldScript(field.Validation.Script, clean); err != nil {
			return nil, []string{fmt.Sprintf("%s failed custom validation", field.Label)}
		}
	}

	return clean, nil
}

func validateNumber(field form.FormField, val any) (any, []string) {
	var num float64
	switch v := val.(type) {
	case float64:
		num = v
	case int:
		num = float64(v)
	case int64:
		num = float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, []string{fmt.Sprintf("%s must be a valid number", field.Label)}
		}
		num = f
	default:
		return nil, []string{fmt.Sprintf("%s must be a valid number", field.Label)}
	}

	var errs []string
	if field.Validation.Min != nil && num < *field.Validation.Min {
		errs = append(errs, fmt.Sprintf("%s must be at least %s", field.Label, formatNumber(*field.Validation.Min)))
	}
	if field.Validation.Max != nil && num > *field.Validation.Max {
		errs = append(errs, fmt.Sprintf("%s must be at most %s", field.Label, formatNumber(*field.Validation.Max)))
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return num, nil
}

func validateEmail(field form.FormField, val any) (any, []string) {
	s, ok := val.(string)
	if !ok || !emailRe.MatchString(s) {
		return nil, []string{fmt.Sprintf("%s must be a valid email address", field.Label)}
	}
	return s, nil
}

// validateText checks min length, then max length, then pattern, stopping at
// the first failure.
func validateText(field form.FormField, val any) (any, []string) {
	s := fmt.Sprintf("%v", val)
	v := field.Validation

	if v.MinLength != nil && len([]rune(s)) < *v.MinLength {
		return nil, []string{fmt.Sprintf("%s must be at least %d characters", field.Label, *v.MinLength)}
	}
	if v.MaxLength != nil && len([]rune(s)) > *v.MaxLength {
		return nil, []string{fmt.Sprintf("%s must be at most %d characters", field.Label, *v.MaxLength)}
	}
	if v.Pattern != "" {
		re, err := regexp.Compile(v.Pattern)
		if err != nil || !re.MatchString(s) {
			return nil, []string{fmt.Sprintf("%s format is invalid", field.Label)}
		}
	}
	return s, nil
}

// validateChoice enforces option membership for dropdown and radio fields.
// The submitted value must be one of the declared option values.
func validateChoice(field form.FormField, val any) (any, []string) {
	s := fmt.Sprintf("%v", val)
	if !isOptionValue(field, s) {
		return nil, []string{fmt.Sprintf("%s has an invalid selection", field.Label)}
	}
	return s, nil
}

// validateMultiChoice accepts a single value or a list; every element must
// be a declared option value. Output is always a string list.
func validateMultiChoice(field form.FormField, val any) (any, []string) {
	var values []string
	switch v := val.(type) {
	case []any:
		for _, item := range v {
			values = append(values, fmt.Sprintf("%v", item))
		}
	case []string:
		values = v
	default:
		values = []string{fmt.Sprintf("%v", v)}
	}

	for _, s := range values {
		if !isOptionValue(field, s) {
			return nil, []string{fmt.Sprintf("%s has an invalid selection", field.Label)}
		}
	}
	return values, nil
}

func isOptionValue(field form.FormField, s string) bool {
	for _, opt := range field.Options {
		if opt.Value == s {
			return true
		}
	}
	return false
}

// runFieldScript evaluates an admin-authored tengo script with the submitted
// value in scope. The script must set `valid` truthy for the value to pass.
func runFieldScript(src string, value any) error {
	script := tengo.NewScript([]byte(src))
	if err := script.Add("value", value); err != nil {
		return err
	}

	compiled, err := script.Run()
	if err != nil {
		return err
	}

	if !compiled.Get("valid").Bool() {
		return errors.New("script rejected value")
	}
	return nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// CheckFileConstraints enforces a file field's declared limits against the
// files actually matched to it. This is the authoritative server-side check;
// client pre-checks are advisory only.
func CheckFileConstraints(field form.FormField, files []SubmissionFile) []string {
	v := field.Validation
	var errs []string

	count := len(files)
	if v.MinFileCount != nil && count < *v.MinFileCount {
		errs = append(errs, fmt.Sprintf("%s requires at least %d file(s)", field.Label, *v.MinFileCount))
	}
	if v.MaxFileCount != nil && count > *v.MaxFileCount {
		errs = append(errs, fmt.Sprintf("%s allows at most %d file(s)", field.Label, *v.MaxFileCount))
	}

	for _, f := range files {
		if v.MaxFileSize > 0 && f.Size > v.MaxFileSize {
			errs = append(errs, fmt.Sprintf("%s: file %s exceeds the maximum size", field.Label, f.OriginalName))
		}
		if len(v.FileTypes) > 0 && !mimeAllowed(f.MimeType, v.FileTypes) {
			errs = append(errs, fmt.Sprintf("%s: file type %s is not allowed", field.Label, f.MimeType))
		}
	}
	return errs
}

func mimeAllowed(mimeType string, allowed []string) bool {
	for _, t := range allowed {
		if t == mimeType {
			return true
		}
	}
	return false
}
