package dtos

import (
	"github.com/microgram17/jobtracker/internal/models"
)

// CreateApplicationRequest is the body of POST /applications.
type CreateApplicationRequest struct {
	Company  string        `json:"company" binding:"required"`
	Position string        `json:"position" binding:"required"`
	Status   models.Status `json:"status" binding:"required,oneof=applied interview offer rejected"`

	// Optional Fields
	Link        *string      `json:"link"`
	Notes       *string      `json:"notes"`
	AppliedDate *models.Date `json:"applied_date"`
	UpdatedDate *models.Date `json:"updated_date"`
}

func (r CreateApplicationRequest) ToModel() models.NewApplication {
	return models.NewApplication{
		Company:     r.Company,
		Position:    r.Position,
		Status:      r.Status,
		Link:        r.Link,
		Notes:       r.Notes,
		AppliedDate: r.AppliedDate,
		UpdatedDate: r.UpdatedDate,
	}
}

// UpdateApplicationRequest is the body of PUT/PATCH /applications/:id.
// Keys left out of the document are not touched; explicit nulls clear optional fields.
type UpdateApplicationRequest = models.ApplicationPatch

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error    string              `json:"error"`
	Message  string              `json:"message"`
	Fields   []models.FieldError `json:"fields,omitempty"`
	Company  string              `json:"company,omitempty"`
	Position string              `json:"position,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// Error codes carried in ErrorResponse.Error.
const (
	CodeInvalidJSON      = "invalid_json"
	CodeInvalidID        = "invalid_id"
	CodeValidation       = "validation_error"
	CodeNotFound         = "not_found"
	CodeDuplicate        = "duplicate"
	CodeStoreUnavailable = "store_unavailable"
	CodeTimeout          = "timeout"
	CodeInternal         = "internal_error"
)
