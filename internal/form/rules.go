package form

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xenking/product-desk/internal/domain/product"
	"github.com/xenking/product-desk/pkg/calendar"
)

// Field names the product form inputs. The values double as wire names.
type Field string

const (
	FieldID           Field = "id"
	FieldName         Field = "name"
	FieldDescription  Field = "description"
	FieldLogo         Field = "logo"
	FieldDateRelease  Field = "date_release"
	FieldDateRevision Field = "date_revision"
)

// Fields lists all form fields in display order.
var Fields = []Field{
	FieldID, FieldName, FieldDescription, FieldLogo, FieldDateRelease, FieldDateRevision,
}

// logoPattern accepts URL-like values with an optional scheme.
var logoPattern = regexp.MustCompile(`(?i)^(https?://)?([\w.-]+)\.[a-z]{2,}(\S*)$`)

// lengthRule validates required plus min/max rune length bounds.
func lengthRule(value string, min, max int) *FieldError {
	if value == "" {
		return &FieldError{Kind: KindRequired}
	}
	n := utf8.RuneCountInString(value)
	if n < min {
		return &FieldError{Kind: KindMinLength, RequiredLength: min}
	}
	if n > max {
		return &FieldError{Kind: KindMaxLength, RequiredLength: max}
	}
	return nil
}

func validateID(value string) *FieldError {
	return lengthRule(value, product.IDMinLen, product.IDMaxLen)
}

func validateName(value string) *FieldError {
	return lengthRule(value, product.NameMinLen, product.NameMaxLen)
}

func validateDescription(value string) *FieldError {
	return lengthRule(value, product.DescriptionMinLen, product.DescriptionMaxLen)
}

func validateLogo(value string) *FieldError {
	if value == "" {
		return &FieldError{Kind: KindRequired}
	}
	if !logoPattern.MatchString(value) {
		return &FieldError{Kind: KindPattern}
	}
	return nil
}

// validateRelease checks the release date is present, parseable, and not in
// the past relative to today.
func validateRelease(value string, today calendar.Date) *FieldError {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Kind: KindRequired}
	}
	d, err := calendar.ParseDate(value)
	if err != nil {
		return &FieldError{Kind: KindDateInvalid}
	}
	if d.Before(today) {
		return &FieldError{Kind: KindDateInvalid}
	}
	return nil
}

// validateRevision checks the revision date is present, parseable, and equals
// the release date plus exactly one calendar year. The cross-field check is
// skipped while the release value itself is absent or unparseable; the
// release field carries its own error in that case.
func validateRevision(value, releaseValue string) *FieldError {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Kind: KindRequired}
	}
	d, err := calendar.ParseDate(value)
	if err != nil {
		return &FieldError{Kind: KindDateInvalid}
	}

	release, err := calendar.ParseDate(releaseValue)
	if err != nil {
		return nil
	}
	if d != release.AddYears(1) {
		return &FieldError{Kind: KindRevisionMismatch}
	}
	return nil
}
