package form

// Kind identifies a validation failure type. Kinds are ordered by surfacing
// priority: when several rules fail at once only the highest-priority error
// is reported for the field.
type Kind string

const (
	KindRequired         Kind = "required"
	KindMinLength        Kind = "minlength"
	KindMaxLength        Kind = "maxlength"
	KindPattern          Kind = "pattern"
	KindDateInvalid      Kind = "dateInvalid"
	KindRevisionMismatch Kind = "revisionMismatch"
	KindIDExists         Kind = "idExists"
)

// FieldError is a single validation failure on a field. RequiredLength is
// set for length violations so messages can mention the bound.
type FieldError struct {
	Kind           Kind
	RequiredLength int
}
