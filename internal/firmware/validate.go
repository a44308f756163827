package firmware

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"fwversion/internal/model"
)

// Default accepted build year range.
const (
	DefaultMinYear = 2020
	DefaultMaxYear = 2100
)

// plausibility is the view of a record checked by the validator. Numeric
// fields are widened so the range tags still mean something if a false
// magic match lands on garbage.
type plausibility struct {
	Major     uint   `validate:"lte=255"`
	Minor     uint   `validate:"lte=255"`
	Patch     uint   `validate:"lte=65535"`
	BoardName string `validate:"has_alnum"`
	GitCommit string `validate:"omitempty,hex_prefix"`
	BuildDate string `validate:"build_date"`
}

// fieldNames maps struct fields to the record's wire names for messages.
var fieldNames = map[string]string{
	"Major":     "major",
	"Minor":     "minor",
	"Patch":     "patch",
	"BoardName": "board_name",
	"GitCommit": "git_commit",
	"BuildDate": "build_date",
}

// Validator decides whether a decoded candidate looks like a real version
// record. It is used to pick between magic matches in raw images.
type Validator struct {
	validate *validator.Validate
	minYear  int
	maxYear  int
}

// NewValidator creates a validator accepting build years in [minYear, maxYear].
// Zero values fall back to the defaults.
func NewValidator(minYear, maxYear int) *Validator {
	if minYear == 0 {
		minYear = DefaultMinYear
	}
	if maxYear == 0 {
		maxYear = DefaultMaxYear
	}

	v := &Validator{
		validate: validator.New(),
		minYear:  minYear,
		maxYear:  maxYear,
	}
	mustRegister(v.validate, "has_alnum", hasAlnum)
	mustRegister(v.validate, "hex_prefix", hexPrefix)
	mustRegister(v.validate, "build_date", v.buildDate)
	return v
}

// mustRegister panics on a bad tag so a broken rule set never reaches Check,
// where the struct tags would otherwise fail as unknown validations.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Plausible reports whether r passes every check.
func (v *Validator) Plausible(r model.VersionRecord) bool {
	return v.Check(r) == nil
}

// Check validates r and describes every failed check.
// A panic inside a check is reported as a failure, never propagated.
func (v *Validator) Check(r model.VersionRecord) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("validation aborted: %v", p)
		}
	}()

	view := plausibility{
		Major:     uint(r.Major),
		Minor:     uint(r.Minor),
		Patch:     uint(r.Patch),
		BoardName: r.BoardName,
		GitCommit: r.GitCommit,
		BuildDate: r.BuildDate,
	}

	if err := v.validate.Struct(view); err != nil {
		fieldErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		msgs := make([]string, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fieldNames[fe.Field()], v.describe(fe)))
		}
		return fmt.Errorf("implausible version record: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// describe converts a field error to a readable reason.
func (v *Validator) describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "lte":
		return fmt.Sprintf("%v exceeds %s", fe.Value(), fe.Param())
	case "has_alnum":
		return fmt.Sprintf("%q has no alphanumeric character", fe.Value())
	case "hex_prefix":
		return fmt.Sprintf("%q does not start with %d hex digits", fe.Value(), model.ShortCommitLen)
	case "build_date":
		return fmt.Sprintf("%q is not a date between %d and %d", fe.Value(), v.minYear, v.maxYear)
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

// hasAlnum requires at least one letter or digit.
func hasAlnum(fl validator.FieldLevel) bool {
	for _, c := range fl.Field().String() {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			return true
		}
	}
	return false
}

// hexPrefix requires the short commit hash to be hex digits, in either case.
func hexPrefix(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) > model.ShortCommitLen {
		s = s[:model.ShortCommitLen]
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// buildDate only constrains ten-character dates: three parts separated by
// '-' or '.', the first a year inside the configured range.
func (v *Validator) buildDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 10 {
		return true
	}
	parts := strings.Split(strings.ReplaceAll(s, ".", "-"), "-")
	if len(parts) != 3 {
		return false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	return year >= v.minYear && year <= v.maxYear
}
