package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/microgram17/jobtracker/internal/models"
	"gorm.io/gorm"
)

// pgUniqueViolation is the SQLSTATE postgres reports for a unique index conflict.
const pgUniqueViolation = "23505"

// GormStore persists applications through gorm. The unique index on
// (company, position) is what ultimately rejects duplicates.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) ListAll(ctx context.Context) ([]models.Application, error) {
	var apps []models.Application
	if err := s.DB.WithContext(ctx).Order("id").Find(&apps).Error; err != nil {
		return nil, &models.StoreError{Op: "list", Err: err}
	}
	return apps, nil
}

func (s *GormStore) FindByID(ctx context.Context, id int64) (*models.Application, error) {
	return findByID(s.DB.WithContext(ctx), id)
}

func (s *GormStore) FindByCompanyAndPosition(ctx context.Context, company, position string) (*models.Application, error) {
	var app models.Application
	err := s.DB.WithContext(ctx).
		Where("company = ? AND position = ?", company, position).
		Take(&app).Error
	if err != nil {
		return nil, translate("find", err)
	}
	return &app, nil
}

func (s *GormStore) Insert(ctx context.Context, app models.NewApplication) (*models.Application, error) {
	rec := app.Record()
	if err := s.DB.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, &models.DuplicateError{Company: app.Company, Position: app.Position}
		}
		return nil, &models.StoreError{Op: "insert", Err: err}
	}
	return rec, nil
}

func (s *GormStore) Mutate(ctx context.Context, id int64, patch models.ApplicationPatch) (*models.Application, error) {
	var updated *models.Application
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findByID(tx, id)
		if err != nil {
			return err
		}
		if patch.Empty() {
			updated = current
			return nil
		}

		if err := tx.Model(&models.Application{ID: id}).Updates(patch.Columns()).Error; err != nil {
			if isUniqueViolation(err) {
				company, position := patch.Effective(current)
				return &models.DuplicateError{Company: company, Position: position}
			}
			return &models.StoreError{Op: "update", Err: err}
		}

		updated, err = findByID(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *GormStore) Remove(ctx context.Context, id int64) (*models.Application, error) {
	var removed *models.Application
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		app, err := findByID(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.Application{}, id).Error; err != nil {
			return &models.StoreError{Op: "delete", Err: err}
		}
		removed = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func findByID(db *gorm.DB, id int64) (*models.Application, error) {
	var app models.Application
	if err := db.Take(&app, id).Error; err != nil {
		return nil, translate("find", err)
	}
	return &app, nil
}

func translate(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return &models.StoreError{Op: op, Err: err}
}

// isUniqueViolation recognises a unique index conflict from either dialect,
// with or without gorm's error translation.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
