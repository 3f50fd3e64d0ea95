// Package userrepo resolves contact addresses from the users table.
package userrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserDTO is the subset of the users table needed for email escalation.
type UserDTO struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email string    `gorm:"type:varchar(255);not null"`
}

func (UserDTO) TableName() string {
	return "users"
}

// GormDirectory implements ports.UserDirectory.
type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) EmailOf(ctx context.Context, userID kernel.UUID) (string, error) {
	var dto UserDTO
	err := d.db.WithContext(ctx).Select("id", "email").First(&dto, "id = ?", userID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.NewObjectNotFoundError("user email", userID.String())
		}
		return "", err
	}
	if dto.Email == "" {
		return "", errs.NewObjectNotFoundError("user email", userID.String())
	}
	return dto.Email, nil
}
