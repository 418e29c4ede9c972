package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"optistore/internal/apperr"
)

func TestTranslate(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"not found", gorm.ErrRecordNotFound, apperr.ErrNotFound},
		{"duplicate", gorm.ErrDuplicatedKey, apperr.ErrConflict},
		{"foreign key", gorm.ErrForeignKeyViolated, apperr.ErrConflict},
		{"pg unique", &pgconn.PgError{Code: "23505"}, apperr.ErrConflict},
		{"pg foreign key", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), apperr.ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := translate(tc.in, "thing"); !errors.Is(got, tc.want) {
				t.Fatalf("translate(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}

	if translate(nil, "thing") != nil {
		t.Fatalf("nil must stay nil")
	}
	other := errors.New("boom")
	if translate(other, "thing") != other {
		t.Fatalf("unknown errors must pass through")
	}
}
