package dashboard

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microgram17/jobtracker/internal/dtos"
	"github.com/microgram17/jobtracker/internal/middleware"
	"github.com/microgram17/jobtracker/internal/models"
	"github.com/microgram17/jobtracker/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

// API is the part of Client the dashboard uses.
type API interface {
	List(ctx context.Context, status models.Status) ([]models.Application, error)
	Create(ctx context.Context, req dtos.CreateApplicationRequest) (*models.Application, error)
	Update(ctx context.Context, id int64, patch models.ApplicationPatch) (*models.Application, error)
	Delete(ctx context.Context, id int64) (*models.Application, error)
}

type Dashboard struct {
	API API
	Log *slog.Logger
	// Now supplies the date stamped on edits that leave "updated" blank.
	Now func() time.Time
}

func New(api API, log *slog.Logger) *Dashboard {
	if log == nil {
		log = slog.Default()
	}
	return &Dashboard{API: api, Log: log, Now: time.Now}
}

// Router builds the dashboard engine with its templates loaded.
func (d *Dashboard) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(d.Log))
	r.SetHTMLTemplate(template.Must(
		template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"),
	))

	r.GET("/", d.Index)
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.POST("/applications", d.Add)
	r.POST("/applications/:id", d.Edit)
	r.POST("/applications/:id/delete", d.Delete)
	return r
}

var templateFuncs = template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"date": func(d *models.Date) string {
		if d == nil {
			return "-"
		}
		return d.String()
	},
}

// Index renders the list, honouring the filter, edit and confirm-delete selectors in the URL.
func (d *Dashboard) Index(c *gin.Context) {
	state := stateFromQuery(c)
	d.render(c, http.StatusOK, &state)
}

// Add handles the "Add Application" form.
func (d *Dashboard) Add(c *gin.Context) {
	state := stateFromQuery(c)

	var form validation.Form
	if err := c.ShouldBind(&form); err != nil {
		state.Error = "Could not read the form."
		d.render(c, http.StatusBadRequest, &state)
		return
	}
	state.AddForm = form

	sub, errs := form.Check()
	if errs.Any() {
		state.FieldErrors = errs
		d.render(c, http.StatusUnprocessableEntity, &state)
		return
	}

	_, err := d.API.Create(c.Request.Context(), dtos.CreateApplicationRequest{
		Company:     sub.Company,
		Position:    sub.Position,
		Status:      sub.Status,
		Link:        sub.Link,
		Notes:       sub.Notes,
		AppliedDate: sub.AppliedDate,
		UpdatedDate: sub.UpdatedDate,
	})
	if err != nil {
		d.apiFailure(c, &state, err)
		return
	}

	d.redirect(c, state, "Application added!")
}

// Edit handles the per-row edit form.
func (d *Dashboard) Edit(c *gin.Context) {
	state := stateFromQuery(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		state.Error = "Unknown application."
		d.render(c, http.StatusBadRequest, &state)
		return
	}
	state.EditingID = id

	var form validation.Form
	if err := c.ShouldBind(&form); err != nil {
		state.Error = "Could not read the form."
		d.render(c, http.StatusBadRequest, &state)
		return
	}
	state.EditForm = form

	sub, errs := form.Check()
	if errs.Any() {
		state.FieldErrors = errs
		d.render(c, http.StatusUnprocessableEntity, &state)
		return
	}

	updated := sub.UpdatedDate
	if updated == nil {
		y, m, day := d.Now().Date()
		today := models.NewDate(y, m, day)
		updated = &today
	}

	patch := models.ApplicationPatch{
		Company:     models.Some(sub.Company),
		Position:    models.Some(sub.Position),
		Status:      models.Some(sub.Status),
		Link:        optionalFrom(sub.Link),
		Notes:       optionalFrom(sub.Notes),
		UpdatedDate: models.Some(*updated),
	}
	if _, err := d.API.Update(c.Request.Context(), id, patch); err != nil {
		d.apiFailure(c, &state, err)
		return
	}

	state.EditingID = 0
	d.redirect(c, state, "Application updated!")
}

// Delete removes an application once the user has confirmed it.
func (d *Dashboard) Delete(c *gin.Context) {
	state := stateFromQuery(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		state.Error = "Unknown application."
		d.render(c, http.StatusBadRequest, &state)
		return
	}

	if c.PostForm("confirm") != "yes" {
		state.ConfirmDeleteID = id
		d.redirect(c, state, "")
		return
	}

	if _, err := d.API.Delete(c.Request.Context(), id); err != nil {
		d.apiFailure(c, &state, err)
		return
	}

	state.ConfirmDeleteID = 0
	d.redirect(c, state, "Application deleted!")
}

// apiFailure re-renders the page with the user's input intact and an inline message.
func (d *Dashboard) apiFailure(c *gin.Context, state *ViewState, err error) {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		state.Error = "Error: " + apiErr.Error()
		for _, f := range apiErr.Body.Fields {
			state.FieldErrors[f.Field] = f.Message
		}
		d.render(c, apiErr.StatusCode, state)
	default:
		d.Log.Error("dashboard API call failed", "error", err)
		state.Error = "The job tracker is unavailable right now. Please try again."
		d.render(c, http.StatusBadGateway, state)
	}
}

// render loads the (filtered) list and writes the page.
func (d *Dashboard) render(c *gin.Context, status int, state *ViewState) {
	apps, err := d.API.List(c.Request.Context(), state.FilterStatus())
	if err != nil {
		d.Log.Error("fetching applications", "error", err)
		if state.Error == "" {
			state.Error = "Failed to fetch applications. Please try again."
		}
	}
	state.Applications = apps

	// Only pre-fill the edit form on a fresh open, never over the user's rejected input.
	if state.EditingID != 0 && state.EditForm == (validation.Form{}) {
		for _, a := range apps {
			if a.ID == state.EditingID {
				state.EditForm = formFromRecord(a)
				break
			}
		}
	}

	c.HTML(status, "index.html", state)
}

func (d *Dashboard) redirect(c *gin.Context, state ViewState, flash string) {
	q := url.Values{}
	if state.Filter != filterAll {
		q.Set("status", state.Filter)
	}
	if state.EditingID != 0 {
		q.Set("edit", strconv.FormatInt(state.EditingID, 10))
	}
	if state.ConfirmDeleteID != 0 {
		q.Set("confirm_delete", strconv.FormatInt(state.ConfirmDeleteID, 10))
	}
	if flash != "" {
		q.Set("flash", flash)
	}
	target := "/"
	if enc := q.Encode(); enc != "" {
		target += "?" + enc
	}
	c.Redirect(http.StatusSeeOther, target)
}

func optionalFrom(s *string) models.Optional[string] {
	if s == nil {
		return models.Null[string]()
	}
	return models.Some(*s)
}
