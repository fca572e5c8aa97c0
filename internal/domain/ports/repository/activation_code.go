package repository

import (
	"context"

	"activation-service/internal/domain/model"
)

// UsedCodeRepository is the port for the single-use guard.
type UsedCodeRepository interface {
	// Exists reports whether the hash was already redeemed.
	Exists(ctx context.Context, tx Tx, codeHash string) (bool, error)
	// Insert records the hash. It returns domain.ErrCodeAlreadyUsed when the
	// hash is already present, including when a concurrent insert won.
	Insert(ctx context.Context, tx Tx, rec *model.UsedCodeRecord) error
}
