package pgerr_test

import (
	"errors"
	"fmt"
	"testing"

	"marketplace/internal/adapters/out/postgres/pgerr"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: pgerr.UniqueViolation, ConstraintName: "idx_logistics_transaction"}
	foreignKey := &pgconn.PgError{Code: "23503", ConstraintName: "fk_logistics_transaction"}

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"matching constraint", unique, "idx_logistics_transaction", true},
		{"wrapped", fmt.Errorf("insert: %w", unique), "idx_logistics_transaction", true},
		{"any constraint", unique, "", true},
		{"other constraint", unique, "idx_logistics_tracking_number", false},
		{"other code", foreignKey, "", false},
		{"plain error", errors.New("boom"), "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pgerr.IsUniqueViolation(tt.err, tt.constraint))
		})
	}
}
