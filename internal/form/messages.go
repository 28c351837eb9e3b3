package form

import "fmt"

// MessageFunc renders a FieldError for a human-readable field label.
type MessageFunc func(err FieldError, label string) string

// Messages maps error kinds to message renderers. Unknown kinds fall back to
// a generic message, so registering a mapper for every custom kind is
// optional.
type Messages struct {
	mappers map[Kind]MessageFunc
}

// DefaultMessages returns the standard message set for product form errors.
func DefaultMessages() *Messages {
	return &Messages{mappers: map[Kind]MessageFunc{
		KindRequired: func(_ FieldError, label string) string {
			return fmt.Sprintf("%s is required", label)
		},
		KindMinLength: func(err FieldError, label string) string {
			return fmt.Sprintf("%s must be at least %d characters", label, err.RequiredLength)
		},
		KindMaxLength: func(err FieldError, label string) string {
			return fmt.Sprintf("%s must be at most %d characters", label, err.RequiredLength)
		},
		KindPattern: func(_ FieldError, label string) string {
			return fmt.Sprintf("%s is not valid", label)
		},
		KindDateInvalid: func(_ FieldError, _ string) string {
			return "date must be today or later"
		},
		KindRevisionMismatch: func(_ FieldError, _ string) string {
			return "revision date must be exactly one year after the release date"
		},
		KindIDExists: func(_ FieldError, _ string) string {
			return "this product ID is already registered"
		},
	}}
}

// Register installs or replaces the renderer for a kind.
func (m *Messages) Register(kind Kind, fn MessageFunc) {
	m.mappers[kind] = fn
}

// Render returns the message for err, or a generic fallback when no renderer
// is registered for its kind.
func (m *Messages) Render(err FieldError, label string) string {
	if fn, ok := m.mappers[err.Kind]; ok {
		return fn(err, label)
	}
	return fmt.Sprintf("%s is invalid", label)
}
