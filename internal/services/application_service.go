package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/microgram17/jobtracker/internal/models"
	"github.com/microgram17/jobtracker/internal/repository"
)

// ApplicationService owns the rules for job application records:
// required fields, the closed status set, and (company, position) uniqueness.
type ApplicationService struct {
	store    repository.Store
	validate *validator.Validate
	log      *slog.Logger
}

func NewApplicationService(store repository.Store, log *slog.Logger) *ApplicationService {
	if log == nil {
		log = slog.Default()
	}
	return &ApplicationService{
		store:    store,
		validate: mustValidator(),
		log:      log,
	}
}

func mustValidator() *validator.Validate {
	v, err := newValidator()
	if err != nil {
		panic(fmt.Sprintf("building application validator: %v", err))
	}
	return v
}

func newValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("registering notblank: %w", err)
	}
	if err := v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return models.Status(fl.Field().String()).Valid()
	}); err != nil {
		return nil, fmt.Errorf("registering status: %w", err)
	}
	return v, nil
}

// List returns every stored application.
func (s *ApplicationService) List(ctx context.Context) ([]models.Application, error) {
	return s.store.ListAll(ctx)
}

// Get returns models.ErrNotFound if no application has the id.
func (s *ApplicationService) Get(ctx context.Context, id int64) (*models.Application, error) {
	return s.store.FindByID(ctx, id)
}

// Create stores a new application unless its (company, position) pair is already taken.
func (s *ApplicationService) Create(ctx context.Context, in models.NewApplication) (*models.Application, error) {
	if err := s.validateNew(in); err != nil {
		return nil, err
	}

	existing, err := s.store.FindByCompanyAndPosition(ctx, in.Company, in.Position)
	switch {
	case err == nil:
		return nil, &models.DuplicateError{Company: existing.Company, Position: existing.Position}
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("checking for duplicate: %w", err)
	}

	// The store's unique index still rejects a concurrent insert of the same pair.
	app, err := s.store.Insert(ctx, in)
	if err != nil {
		return nil, err
	}

	s.log.Info("application created", "id", app.ID, "company", app.Company, "position", app.Position)
	return app, nil
}

// Update applies the supplied fields of patch to the application with the given id.
//
// When company or position is supplied, the pair that would result from merging
// the patch with the stored record must not belong to any other application.
func (s *ApplicationService) Update(ctx context.Context, id int64, patch models.ApplicationPatch) (*models.Application, error) {
	if err := s.validatePatch(patch); err != nil {
		return nil, err
	}

	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.TouchesIdentity() {
		company, position := patch.Effective(current)
		if company != current.Company || position != current.Position {
			other, err := s.store.FindByCompanyAndPosition(ctx, company, position)
			switch {
			case err == nil && other.ID != id:
				return nil, &models.DuplicateError{Company: company, Position: position}
			case err != nil && !errors.Is(err, models.ErrNotFound):
				return nil, fmt.Errorf("checking for duplicate: %w", err)
			}
		}
	}

	app, err := s.store.Mutate(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.log.Info("application updated", "id", app.ID, "status", app.Status)
	return app, nil
}

// Delete removes the application and returns its last state.
func (s *ApplicationService) Delete(ctx context.Context, id int64) (*models.Application, error) {
	app, err := s.store.Remove(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("application deleted", "id", app.ID)
	return app, nil
}

func (s *ApplicationService) validateNew(in models.NewApplication) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, models.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: messageFor(fe.Tag()),
		})
	}
	return models.NewValidationError(fields...)
}

func (s *ApplicationService) validatePatch(p models.ApplicationPatch) error {
	var fields []models.FieldError

	check := func(name string, field models.Optional[string], tag string) {
		if !field.Set {
			return
		}
		if field.Value == nil {
			fields = append(fields, models.FieldError{Field: name, Message: "may not be null"})
			return
		}
		var verrs validator.ValidationErrors
		if err := s.validate.Var(*field.Value, tag); errors.As(err, &verrs) {
			fields = append(fields, models.FieldError{Field: name, Message: messageFor(verrs[0].Tag())})
		}
	}
	check("company", p.Company, "required,notblank")
	check("position", p.Position, "required,notblank")

	if p.Status.Set {
		var raw models.Optional[string]
		raw.Set = true
		if p.Status.Value != nil {
			v := string(*p.Status.Value)
			raw.Value = &v
		}
		check("status", raw, "required,status")
	}

	if len(fields) > 0 {
		return models.NewValidationError(fields...)
	}
	return nil
}

func messageFor(tag string) string {
	switch tag {
	case "required", "notblank":
		return "is required"
	case "status":
		return "must be one of applied, interview, offer, rejected"
	default:
		return "is invalid"
	}
}
