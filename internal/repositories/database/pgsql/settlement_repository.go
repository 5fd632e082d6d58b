package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/splitmate-app/splitmate_backend/internal/apperrors"
	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
	portsrepo "github.com/splitmate-app/splitmate_backend/internal/core/ports/repositories"
	"github.com/splitmate-app/splitmate_backend/internal/models"
	"github.com/splitmate-app/splitmate_backend/internal/utils/mapping"
)

type PgxSettlementRepository struct {
	BaseRepository
}

func newPgxSettlementRepository(pool *pgxpool.Pool) portsrepo.SettlementRepositoryWithTx {
	return &PgxSettlementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxSettlementRepository implements portsrepo.SettlementRepositoryWithTx
var _ portsrepo.SettlementRepositoryWithTx = (*PgxSettlementRepository)(nil)

const settlementColumns = `settlement_id, group_id, from_user_id, to_user_id, amount, status, note, recorded_by, confirmed_at, created_at, created_by, last_updated_at, last_updated_by`

const insertSettlementQuery = `
	INSERT INTO settlements (settlement_id, group_id, from_user_id, to_user_id, amount, status, note, recorded_by, confirmed_at, created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
`

func scanSettlement(row pgx.Row) (*models.Settlement, error) {
	var m models.Settlement
	err := row.Scan(
		&m.SettlementID,
		&m.GroupID,
		&m.FromUserID,
		&m.ToUserID,
		&m.Amount,
		&m.Status,
		&m.Note,
		&m.RecordedBy,
		&m.ConfirmedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func settlementInsertArgs(m models.Settlement) []any {
	return []any{
		m.SettlementID,
		m.GroupID,
		m.FromUserID,
		m.ToUserID,
		m.Amount,
		m.Status,
		m.Note,
		m.RecordedBy,
		m.ConfirmedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

func (r *PgxSettlementRepository) SaveSettlement(ctx context.Context, settlement domain.Settlement) error {
	m := mapping.ToModelSettlement(settlement)
	_, err := r.Pool.Exec(ctx, insertSettlementQuery, settlementInsertArgs(m)...)
	if err != nil {
		// The partial unique index allows only one pending settlement per
		// member pair per group.
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: a pending settlement already exists between these users in this group", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save settlement %s: %w", m.SettlementID, err)
	}
	return nil
}

// SaveSettlementsAtomic writes every settlement in one transaction; a failure
// on any record rolls back all of them.
func (r *PgxSettlementRepository) SaveSettlementsAtomic(ctx context.Context, settlements []domain.Settlement) error {
	if len(settlements) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	for _, s := range settlements {
		m := mapping.ToModelSettlement(s)
		batch.Queue(insertSettlementQuery, settlementInsertArgs(m)...)
	}

	br := tx.SendBatch(ctx, batch)
	for range settlements {
		if _, err := br.Exec(); err != nil {
			br.Close()
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: a pending settlement already exists between these users", apperrors.ErrDuplicate)
			}
			return fmt.Errorf("failed to insert settlement batch: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close settlement batch: %w", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxSettlementRepository) FindSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE settlement_id = $1;`
	m, err := scanSettlement(r.Pool.QueryRow(ctx, query, settlementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find settlement by ID %s: %w", settlementID, err)
	}

	settlement := mapping.ToDomainSettlement(*m)
	return &settlement, nil
}

func (r *PgxSettlementRepository) ListSettlementsByGroup(ctx context.Context, groupID string) ([]domain.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE group_id = $1 ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlements for group %s: %w", groupID, err)
	}
	defer rows.Close()

	var modelSettlements []models.Settlement
	for rows.Next() {
		m, scanErr := scanSettlement(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan settlement row: %w", scanErr)
		}
		modelSettlements = append(modelSettlements, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settlement rows: %w", err)
	}

	return mapping.ToDomainSettlementSlice(modelSettlements), nil
}

func (r *PgxSettlementRepository) FindPendingSettlementBetween(ctx context.Context, groupID, userAID, userBID string) (*domain.Settlement, error) {
	query := `
		SELECT ` + settlementColumns + `
		FROM settlements
		WHERE group_id = $1 AND status = 'pending'
		  AND ((from_user_id = $2 AND to_user_id = $3) OR (from_user_id = $3 AND to_user_id = $2))
		LIMIT 1;
	`
	m, err := scanSettlement(r.Pool.QueryRow(ctx, query, groupID, userAID, userBID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pending settlement in group %s: %w", groupID, err)
	}

	settlement := mapping.ToDomainSettlement(*m)
	return &settlement, nil
}

// ConfirmSettlement flips a pending settlement to confirmed. The row is
// locked first so concurrent confirmations of the same record serialize, and
// a record that is no longer pending yields ErrConflict.
func (r *PgxSettlementRepository) ConfirmSettlement(ctx context.Context, settlementID string, confirmedAt time.Time, updatedBy string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var status models.SettlementStatus
	lockQuery := `SELECT status FROM settlements WHERE settlement_id = $1 FOR UPDATE;`
	if err := tx.QueryRow(ctx, lockQuery, settlementID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock settlement %s: %w", settlementID, err)
	}

	if status != models.SettlementPending {
		return fmt.Errorf("%w: settlement %s is already %s", apperrors.ErrConflict, settlementID, status)
	}

	updateQuery := `
		UPDATE settlements
		SET status = $1, confirmed_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE settlement_id = $4;
	`
	if _, err := tx.Exec(ctx, updateQuery, models.SettlementConfirmed, confirmedAt, updatedBy, settlementID); err != nil {
		return fmt.Errorf("failed to confirm settlement %s: %w", settlementID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxSettlementRepository) DeleteSettlement(ctx context.Context, settlementID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM settlements WHERE settlement_id = $1;`, settlementID)
	if err != nil {
		return fmt.Errorf("failed to delete settlement %s: %w", settlementID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
