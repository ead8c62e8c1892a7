package repository

import (
	"context"

	"github.com/microgram17/jobtracker/internal/models"
)

// Store is the data-access contract for job applications.
// It enforces (company, position) uniqueness at write time but applies no other business rules.
// All implementations must be safe for concurrent use.
type Store interface {
	// ListAll returns every application, ordered by id.
	ListAll(ctx context.Context) ([]models.Application, error)

	// FindByID returns models.ErrNotFound if no application has the id.
	FindByID(ctx context.Context, id int64) (*models.Application, error)

	// FindByCompanyAndPosition matches both fields exactly.
	// Returns models.ErrNotFound if there is no such application.
	FindByCompanyAndPosition(ctx context.Context, company, position string) (*models.Application, error)

	// Insert stores a new application and returns it with its assigned id.
	// Returns *models.DuplicateError if the pair is taken.
	Insert(ctx context.Context, app models.NewApplication) (*models.Application, error)

	// Mutate applies only the supplied fields of patch.
	// Returns models.ErrNotFound or *models.DuplicateError.
	Mutate(ctx context.Context, id int64, patch models.ApplicationPatch) (*models.Application, error)

	// Remove deletes the application and returns its last state.
	// Returns models.ErrNotFound if no application has the id.
	Remove(ctx context.Context, id int64) (*models.Application, error)
}
