// Package forms implements the catalog form engine: client-side validation
// of a draft record, submission through an external collaborator, and
// reconciliation of field errors reported by the backend with locally
// detected ones.
package forms

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"katalog/internal/models"
)

// Submitter is the external collaborator a passing draft is sent through.
// A draft without an id is created; one with an id is updated.
type Submitter interface {
	CreateCatalog(catalog *models.Catalog) error
	UpdateCatalog(catalog *models.Catalog) error
}

// Notifier is the opaque notification channel for generic, non-field-scoped
// feedback (toasts).
type Notifier interface {
	Notify(message string)
}

// Canonical field names used for error annotations.
const (
	FieldCode        = "code"
	FieldName        = "name"
	FieldDescription = "description"
	FieldUnitPrice   = "unitPrice"
	FieldTaxRate     = "taxRate"
	FieldType        = "type"
)

// Validation error codes attached to fields by local validation.
const (
	ErrCodeRequired = "Required"
	ErrCodeTooShort = "TooShort"
)

// Generic notification messages.
const (
	msgFixHighlighted = "Please fix the highlighted fields."
	msgSaveFailed     = "Save failed. Please try again."
)

// Phase is the state of the form's submit cycle.
type Phase int

const (
	PhaseEditing Phase = iota
	PhaseValidating
	PhaseSubmitting
	PhaseSuccess
)

// Form holds one catalog draft together with its error annotations. Local
// errors come from client-side validation, remote errors from the last
// rejected submission; for display, a field's local error wins over its
// remote ones. Editing a field clears both kinds for that field immediately.
//
// Like the list controller, a Form is single-writer and not goroutine-safe.
type Form struct {
	draft        models.Catalog
	localErrors  map[string]string
	remoteErrors map[string][]string

	phase      Phase
	submitting bool
	closed     bool

	validate  *validator.Validate
	submitter Submitter
	notifier  Notifier
}

// NewForm creates a form with an empty draft, for creating a new catalog
// entry.
func NewForm(submitter Submitter, notifier Notifier) *Form {
	return newForm(models.Catalog{Type: models.CatalogTypeProduct}, submitter, notifier)
}

// EditForm creates a form whose draft is a copy of an existing catalog
// entry.
func EditForm(existing models.Catalog, submitter Submitter, notifier Notifier) *Form {
	return newForm(existing, submitter, notifier)
}

func newForm(draft models.Catalog, submitter Submitter, notifier Notifier) *Form {
	return &Form{
		draft:        draft,
		localErrors:  make(map[string]string),
		remoteErrors: make(map[string][]string),
		phase:        PhaseEditing,
		validate:     validator.New(),
		submitter:    submitter,
		notifier:     notifier,
	}
}

// SetCode updates the draft's article code.
func (f *Form) SetCode(code string) {
	f.draft.Code = code
	f.clearFieldErrors(FieldCode)
}

// SetName updates the draft's name.
func (f *Form) SetName(name string) {
	f.draft.Name = name
	f.clearFieldErrors(FieldName)
}

// SetDescription updates the draft's description.
func (f *Form) SetDescription(description string) {
	f.draft.Description = description
	f.clearFieldErrors(FieldDescription)
}

// SetUnitPrice updates the draft's unit price. Negative input is clamped to
// zero at the point of entry, so the stored value is never invalid and no
// submit-time rule exists for this field.
func (f *Form) SetUnitPrice(price float64) {
	if price < 0 {
		price = 0
	}
	f.draft.UnitPrice = price
	f.clearFieldErrors(FieldUnitPrice)
}

// SetTaxRate updates the draft's tax rate, clamped to [0, 100] at the point
// of entry (clamp-on-input, same policy as SetUnitPrice).
func (f *Form) SetTaxRate(rate float64) {
	if rate < 0 {
		rate = 0
	}
	if rate > 100 {
		rate = 100
	}
	f.draft.TaxRate = rate
	f.clearFieldErrors(FieldTaxRate)
}

// SetType updates the draft's catalog type.
func (f *Form) SetType(t models.CatalogType) {
	f.draft.Type = t
	f.clearFieldErrors(FieldType)
}

// SetDisabled updates the draft's status flag.
func (f *Form) SetDisabled(disabled bool) {
	f.draft.Disabled = disabled
}

// clearFieldErrors drops both the local and remote annotations of one field.
// Errors are feedback tied to the value at the time of the last check, never
// sticky past the next edit.
func (f *Form) clearFieldErrors(field string) {
	delete(f.localErrors, field)
	delete(f.remoteErrors, field)
}

// Submit runs local validation and, if it passes, sends the draft through
// the submission collaborator. It returns true when the submission succeeded
// and the form closed.
//
// Repeated triggers while a submission is pending are ignored, so one draft
// can never produce duplicate concurrent creates or updates.
func (f *Form) Submit() bool {
	if f.submitting || f.closed {
		return false
	}

	f.phase = PhaseValidating
	f.draft.Name = strings.TrimSpace(f.draft.Name)
	f.draft.Description = strings.TrimSpace(f.draft.Description)

	if !f.runLocalValidation() {
		f.phase = PhaseEditing
		f.notifier.Notify(msgFixHighlighted)
		return false
	}

	f.phase = PhaseSubmitting
	f.submitting = true
	var err error
	if f.draft.ID == 0 {
		err = f.submitter.CreateCatalog(&f.draft)
	} else {
		err = f.submitter.UpdateCatalog(&f.draft)
	}
	f.submitting = false

	if err == nil {
		f.phase = PhaseSuccess
		f.closed = true
		f.draft = models.Catalog{}
		return true
	}

	f.phase = PhaseEditing
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		if len(rejection.FieldErrors) > 0 {
			// Field-scoped rejection: annotate the fields, no toast.
			for field, messages := range rejection.FieldErrors {
				f.remoteErrors[normalizeField(field)] = append([]string(nil), messages...)
			}
			return false
		}
		if rejection.Message != "" {
			f.notifier.Notify(rejection.Message)
			return false
		}
	}
	f.notifier.Notify(msgSaveFailed)
	return false
}

// runLocalValidation checks the name and description rules and records
// per-field error codes. Price and tax carry no submit-time rule because
// their setters clamp on input.
func (f *Form) runLocalValidation() bool {
	err := f.validate.StructPartial(f.draft, "Name", "Description")
	if err == nil {
		return true
	}
	for _, fieldErr := range err.(validator.ValidationErrors) {
		f.localErrors[normalizeField(fieldErr.Field())] = codeForTag(fieldErr.Tag())
	}
	return false
}

// codeForTag maps a validator tag to the error code shown on the field.
func codeForTag(tag string) string {
	switch tag {
	case "required":
		return ErrCodeRequired
	case "min":
		return ErrCodeTooShort
	}
	return tag
}

// normalizeField maps a struct-field or backend-reported key onto the
// canonical lower-camel field name ("Name" -> "name").
func normalizeField(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// ErrorFor returns the message to display for a field: the local error if
// one is present, otherwise the first remote message, otherwise "".
func (f *Form) ErrorFor(field string) string {
	if msg, ok := f.localErrors[field]; ok {
		return msg
	}
	if msgs, ok := f.remoteErrors[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// HasErrors reports whether any field currently carries an annotation.
func (f *Form) HasErrors() bool {
	return len(f.localErrors) > 0 || len(f.remoteErrors) > 0
}

// Draft returns the current draft record.
func (f *Form) Draft() models.Catalog {
	return f.draft
}

// Phase returns the current state of the submit cycle.
func (f *Form) Phase() Phase {
	return f.phase
}

// Submitting reports whether a submission is pending; the submit control is
// disabled while it is.
func (f *Form) Submitting() bool {
	return f.submitting
}

// Closed reports whether the form finished successfully and discarded its
// draft.
func (f *Form) Closed() bool {
	return f.closed
}
