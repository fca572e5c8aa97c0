package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"activation-service/internal/domain"
	"activation-service/internal/domain/model"
	"activation-service/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.UsedCodeRepository = (*usedCodeRepo)(nil)

type usedCodeRepo struct {
	pool *pgxpool.Pool
}

func NewUsedCodeRepo(pool *pgxpool.Pool) *usedCodeRepo {
	return &usedCodeRepo{pool: pool}
}

func (r *usedCodeRepo) Exists(ctx context.Context, tx repository.Tx, codeHash string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM used_codes WHERE code_hash = $1);`

	row, err := pickRow(ctx, r.pool, tx, q, codeHash)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
	}
	return exists, nil
}

// Insert relies on the primary key on code_hash: the first writer wins and
// every later insert affects zero rows.
func (r *usedCodeRepo) Insert(ctx context.Context, tx repository.Tx, rec *model.UsedCodeRecord) error {
	const q = `
INSERT INTO used_codes (code_hash, subject_id, used_at)
VALUES ($1, $2, $3)
ON CONFLICT (code_hash) DO NOTHING;`

	tag, err := execSQL(ctx, r.pool, tx, q, rec.CodeHash, rec.SubjectID, rec.UsedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCodeAlreadyUsed
		}
		return fmt.Errorf("%w: insert used code: %v", domain.ErrOperationFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCodeAlreadyUsed
	}
	return nil
}
