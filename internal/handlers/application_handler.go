package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microgram17/jobtracker/internal/dtos"
	"github.com/microgram17/jobtracker/internal/models"
)

// ApplicationService is the set of operations the handlers call.
type ApplicationService interface {
	List(ctx context.Context) ([]models.Application, error)
	Get(ctx context.Context, id int64) (*models.Application, error)
	Create(ctx context.Context, in models.NewApplication) (*models.Application, error)
	Update(ctx context.Context, id int64, patch models.ApplicationPatch) (*models.Application, error)
	Delete(ctx context.Context, id int64) (*models.Application, error)
}

type ApplicationHandler struct {
	Service ApplicationService
	Log     *slog.Logger
}

func NewApplicationHandler(svc ApplicationService, log *slog.Logger) *ApplicationHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ApplicationHandler{Service: svc, Log: log}
}

// Register mounts the application routes on r.
func (h *ApplicationHandler) Register(r gin.IRouter) {
	r.GET("/applications", h.ListApplications)
	r.GET("/applications/:id", h.GetApplication)
	r.POST("/applications", h.CreateApplication)
	r.PUT("/applications/:id", h.UpdateApplication)
	r.PATCH("/applications/:id", h.UpdateApplication)
	r.DELETE("/applications/:id", h.DeleteApplication)
}

// ListApplications is GET /applications, optionally filtered by ?status=.
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	var filter models.Status
	if raw, ok := c.GetQuery("status"); ok && raw != "" && raw != "all" {
		st, valid := models.ParseStatus(raw)
		if !valid {
			h.fail(c, models.NewValidationError(models.FieldError{Field: "status", Message: "must be one of applied, interview, offer, rejected"}))
			return
		}
		filter = st
	}

	apps, err := h.Service.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	if filter != "" {
		kept := apps[:0]
		for _, a := range apps {
			if a.Status == filter {
				kept = append(kept, a)
			}
		}
		apps = kept
	}
	if apps == nil {
		apps = []models.Application{}
	}
	c.JSON(http.StatusOK, apps)
}

// GetApplication is GET /applications/:id.
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	app, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// CreateApplication is POST /applications.
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.badJSON(c, err)
		return
	}
	if err := dtos.ValidateCreate(body); err != nil {
		h.fail(c, err)
		return
	}

	var req dtos.CreateApplicationRequest
	if err := binding.JSON.BindBody(body, &req); err != nil {
		h.fail(c, bindingError(err))
		return
	}

	app, err := h.Service.Create(c.Request.Context(), req.ToModel())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// UpdateApplication is PUT or PATCH /applications/:id. Both are partial updates.
func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		h.badJSON(c, err)
		return
	}
	if err := dtos.ValidateUpdate(body); err != nil {
		h.fail(c, err)
		return
	}

	var req dtos.UpdateApplicationRequest
	if err := binding.JSON.BindBody(body, &req); err != nil {
		h.fail(c, bindingError(err))
		return
	}

	app, err := h.Service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// DeleteApplication is DELETE /applications/:id. It returns the removed record.
func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	app, err := h.Service.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// HealthCheck is GET /health.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dtos.HealthResponse{Status: "ok"})
}

func (h *ApplicationHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dtos.ErrorResponse{
			Error:   dtos.CodeInvalidID,
			Message: "id must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

func (h *ApplicationHandler) badJSON(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: dtos.CodeInvalidJSON, Message: err.Error()})
}

// fail maps a service error onto a status code and error body.
func (h *ApplicationHandler) fail(c *gin.Context, err error) {
	var (
		verr      *models.ValidationError
		dup       *models.DuplicateError
		malformed *dtos.ErrMalformedJSON
	)

	switch {
	case errors.As(err, &malformed):
		h.badJSON(c, malformed)
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, dtos.ErrorResponse{
			Error:   dtos.CodeValidation,
			Message: verr.Error(),
			Fields:  verr.Fields,
		})
	case errors.As(err, &dup):
		c.JSON(http.StatusConflict, dtos.ErrorResponse{
			Error:    dtos.CodeDuplicate,
			Message:  dup.Error(),
			Company:  dup.Company,
			Position: dup.Position,
		})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, dtos.ErrorResponse{Error: dtos.CodeNotFound, Message: "Application not found"})
	case errors.Is(err, context.DeadlineExceeded):
		h.Log.Warn("request timed out", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusGatewayTimeout, dtos.ErrorResponse{Error: dtos.CodeTimeout, Message: "the request took too long"})
	case errors.Is(err, models.ErrStoreUnavailable):
		h.Log.Error("store unavailable", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusServiceUnavailable, dtos.ErrorResponse{Error: dtos.CodeStoreUnavailable, Message: "storage is unavailable, try again"})
	default:
		h.Log.Error("unhandled error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, dtos.ErrorResponse{Error: dtos.CodeInternal, Message: "internal error"})
	}
}

// bindingError turns gin binding failures into the same field errors the service reports.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &dtos.ErrMalformedJSON{Err: err}
	}
	fields := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, models.FieldError{Field: jsonName(fe.Field()), Message: "failed " + fe.Tag() + " check"})
	}
	return models.NewValidationError(fields...)
}

var jsonNames = map[string]string{
	"Company":     "company",
	"Position":    "position",
	"Status":      "status",
	"Link":        "link",
	"Notes":       "notes",
	"AppliedDate": "applied_date",
	"UpdatedDate": "updated_date",
}

func jsonName(field string) string {
	if n, ok := jsonNames[field]; ok {
		return n
	}
	return field
}
