package dtos

import (
	"fmt"

	"github.com/microgram17/jobtracker/internal/models"
	"github.com/xeipuuv/gojsonschema"
)

// Both schemas close the object with additionalProperties=false, so a payload can only
// ever name the declared record fields.
const createSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["company", "position", "status"],
  "properties": {
    "company":      {"type": "string"},
    "position":     {"type": "string"},
    "status":       {"type": "string", "enum": ["applied", "interview", "offer", "rejected"]},
    "link":         {"type": ["string", "null"]},
    "notes":        {"type": ["string", "null"]},
    "applied_date": {"type": ["string", "null"], "format": "date"},
    "updated_date": {"type": ["string", "null"], "format": "date"}
  }
}`

const updateSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "company":      {"type": "string"},
    "position":     {"type": "string"},
    "status":       {"type": "string", "enum": ["applied", "interview", "offer", "rejected"]},
    "link":         {"type": ["string", "null"]},
    "notes":        {"type": ["string", "null"]},
    "applied_date": {"type": ["string", "null"], "format": "date"},
    "updated_date": {"type": ["string", "null"], "format": "date"}
  }
}`

var (
	createApplicationSchema = mustSchema(createSchema)
	updateApplicationSchema = mustSchema(updateSchema)
)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("compiling schema: %v", err))
	}
	return schema
}

// ErrMalformedJSON is returned when a body is not a JSON document at all.
type ErrMalformedJSON struct {
	Err error
}

func (e *ErrMalformedJSON) Error() string { return "invalid JSON body: " + e.Err.Error() }

func (e *ErrMalformedJSON) Unwrap() error { return e.Err }

// ValidateCreate checks a raw POST body against the create schema.
func ValidateCreate(body []byte) error {
	return validate(createApplicationSchema, body)
}

// ValidateUpdate checks a raw PUT/PATCH body against the update schema.
func ValidateUpdate(body []byte) error {
	return validate(updateApplicationSchema, body)
}

func validate(schema *gojsonschema.Schema, body []byte) error {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &ErrMalformedJSON{Err: err}
	}
	if res.Valid() {
		return nil
	}

	fields := make([]models.FieldError, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		field := e.Field()
		if p, ok := e.Details()["property"].(string); ok && (field == "(root)" || field == "") {
			field = p
		}
		fields = append(fields, models.FieldError{Field: field, Message: e.Description()})
	}
	return models.NewValidationError(fields...)
}
