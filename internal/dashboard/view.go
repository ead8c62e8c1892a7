package dashboard

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/microgram17/jobtracker/internal/models"
	"github.com/microgram17/jobtracker/internal/validation"
)

const filterAll = "all"

// ViewState is everything the page template needs. It is rebuilt from the
// request on every call and passed to the template; nothing is kept between requests.
type ViewState struct {
	Filter          string
	EditingID       int64
	ConfirmDeleteID int64

	AddForm     validation.Form
	EditForm    validation.Form
	FieldErrors validation.Errors

	Flash string
	Error string

	Applications []models.Application
	Statuses     []models.Status
}

// stateFromQuery reads the view selectors carried in the URL.
func stateFromQuery(c *gin.Context) ViewState {
	s := ViewState{
		Filter:      filterAll,
		Flash:       c.Query("flash"),
		FieldErrors: validation.Errors{},
		Statuses:    models.Statuses,
		AddForm:     validation.Form{Status: string(models.StatusApplied)},
	}
	if st, ok := models.ParseStatus(c.Query("status")); ok {
		s.Filter = string(st)
	}
	s.EditingID = queryID(c, "edit")
	s.ConfirmDeleteID = queryID(c, "confirm_delete")
	return s
}

// FilterStatus is the status to ask the API for, or "" for all.
func (s ViewState) FilterStatus() models.Status {
	if s.Filter == filterAll {
		return ""
	}
	return models.Status(s.Filter)
}

// FilterOptions lists the filter dropdown entries.
func (s ViewState) FilterOptions() []string {
	opts := []string{filterAll}
	for _, st := range s.Statuses {
		opts = append(opts, string(st))
	}
	return opts
}

func queryID(c *gin.Context, key string) int64 {
	id, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// formFromRecord pre-fills the edit form with a stored application.
func formFromRecord(a models.Application) validation.Form {
	f := validation.Form{
		Company:  a.Company,
		Position: a.Position,
		Status:   string(a.Status),
	}
	if a.Link != nil {
		f.Link = *a.Link
	}
	if a.Notes != nil {
		f.Notes = *a.Notes
	}
	if a.AppliedDate != nil {
		f.AppliedDate = a.AppliedDate.String()
	}
	if a.UpdatedDate != nil {
		f.UpdatedDate = a.UpdatedDate.String()
	}
	return f
}
