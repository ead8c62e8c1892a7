package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/microgram17/jobtracker/internal/models"
)

// Form is raw dashboard input, exactly as typed by the user.
// The validate rules run against the trimmed copy of the form.
type Form struct {
	Company     string `form:"company" validate:"notblank"`
	Position    string `form:"position" validate:"notblank"`
	Status      string `form:"status" validate:"oneof=applied interview offer rejected"`
	Link        string `form:"link" validate:"link"`
	Notes       string `form:"notes"`
	AppliedDate string `form:"applied_date" validate:"omitempty,datetime=2006-01-02"`
	UpdatedDate string `form:"updated_date" validate:"omitempty,datetime=2006-01-02"`
}

// Submission is a Form after trimming and normalization, ready to send.
type Submission struct {
	Company     string
	Position    string
	Status      models.Status
	Link        *string
	Notes       *string
	AppliedDate *models.Date
	UpdatedDate *models.Date
}

// Errors maps a form field name to a message.
type Errors map[string]string

func (e Errors) Any() bool { return len(e) > 0 }

var formValidator = mustFormValidator()

func mustFormValidator() *validator.Validate {
	v, err := newFormValidator()
	if err != nil {
		panic(fmt.Sprintf("building form validator: %v", err))
	}
	return v
}

func newFormValidator() (*validator.Validate, error) {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("link", func(fl validator.FieldLevel) bool {
		return IsValidURL(fl.Field().String())
	}); err != nil {
		return nil, err
	}
	return v, nil
}

// Check validates and normalizes f. The Submission is only meaningful when Errors is empty.
func (f Form) Check() (Submission, Errors) {
	t := f.trimmed()

	errs := Errors{}
	var verrs validator.ValidationErrors
	if err := formValidator.Struct(t); errors.As(err, &verrs) {
		for _, fe := range verrs {
			errs[fe.Field()] = messageFor(fe)
		}
	}
	if errs.Any() {
		return Submission{}, errs
	}

	sub := Submission{
		Company:  t.Company,
		Position: t.Position,
		Status:   models.Status(t.Status),
		Link:     FormatURL(t.Link),
		Notes:    orNil(t.Notes),
	}
	sub.AppliedDate = parseDate(t.AppliedDate)
	sub.UpdatedDate = parseDate(t.UpdatedDate)
	return sub, errs
}

func (f Form) trimmed() Form {
	return Form{
		Company:     strings.TrimSpace(f.Company),
		Position:    strings.TrimSpace(f.Position),
		Status:      strings.TrimSpace(f.Status),
		Link:        strings.TrimSpace(f.Link),
		Notes:       strings.TrimSpace(f.Notes),
		AppliedDate: strings.TrimSpace(f.AppliedDate),
		UpdatedDate: strings.TrimSpace(f.UpdatedDate),
	}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return fe.StructField() + " is required"
	case "oneof":
		return "Status must be one of applied, interview, offer, rejected"
	case "link":
		return "Link must be a URL such as https://example.com or example.com"
	case "datetime":
		return "Date must be in YYYY-MM-DD format"
	default:
		return fe.StructField() + " is invalid"
	}
}

func orNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseDate only sees values that already passed the datetime rule.
func parseDate(raw string) *models.Date {
	if raw == "" {
		return nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil
	}
	return &d
}
