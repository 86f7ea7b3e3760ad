package gorm

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

// PostgreSQL error codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// translateError maps gorm and PostgreSQL errors onto the store sentinels.
func translateError(entity string, id interface{}, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.NewNotFound(entity, id)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &store.DuplicateError{Entity: entity, Constraint: pgErr.ConstraintName}
		case pgForeignKeyViolation:
			return &store.ReferencedError{Entity: entity, Constraint: pgErr.ConstraintName, Detail: pgErr.Detail}
		case pgCheckViolation:
			return fmt.Errorf("%s violates %s: %w", entity, pgErr.ConstraintName, err)
		}
	}
	return fmt.Errorf("%s: %w", entity, err)
}

func findOne(db *gorm.DB, dest interface{}, entity string, id interface{}, query interface{}, args ...interface{}) error {
	return translateError(entity, id, db.Where(query, args...).First(dest).Error)
}

func updateRow(db *gorm.DB, value interface{}, entity, pk string, id uint) error {
	res := db.Model(value).Select("*").Omit(pk).Updates(value)
	if res.Error != nil {
		return translateError(entity, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return store.NewNotFound(entity, id)
	}
	return nil
}

func deleteRow(db *gorm.DB, value interface{}, entity string, id uint) error {
	res := db.Delete(value, id)
	if res.Error != nil {
		return translateError(entity, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return store.NewNotFound(entity, id)
	}
	return nil
}
