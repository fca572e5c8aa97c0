//go:build !integration

package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgconn"

	"activation-service/internal/domain"
	"activation-service/internal/domain/ports/repository"
)

func TestGetExecutor(t *testing.T) {
	t.Run("should reject NoTX without a pool", func(t *testing.T) {
		if _, err := getExecutor(nil, repository.NoTX); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("should reject unknown handles", func(t *testing.T) {
		if _, err := getExecutor(nil, "not-a-tx"); !errors.Is(err, domain.ErrInvalidExecContext) {
			t.Errorf("expected ErrInvalidExecContext, got %v", err)
		}
	})
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	if !isUniqueViolation(dup) {
		t.Error("23505 must be a unique violation")
	}
	if !isUniqueViolation(fmt.Errorf("wrapped: %w", dup)) {
		t.Error("wrapped 23505 must be a unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "40001"}) {
		t.Error("serialization failure is not a unique violation")
	}
	if isUniqueViolation(errors.New("boom")) {
		t.Error("plain errors are not unique violations")
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected up and down migrations, got %d files", len(entries))
	}
}
