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
	"github.com/splitmate-app/splitmate_backend/internal/core/ledger"
	portsrepo "github.com/splitmate-app/splitmate_backend/internal/core/ports/repositories"
	"github.com/splitmate-app/splitmate_backend/internal/models"
	"github.com/splitmate-app/splitmate_backend/internal/utils/mapping"
	"github.com/splitmate-app/splitmate_backend/internal/utils/pagination"
)

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepository {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxExpenseRepository implements portsrepo.ExpenseRepository
var _ portsrepo.ExpenseRepository = (*PgxExpenseRepository)(nil)

const expenseColumns = `expense_id, group_id, title, amount, paid_by, split_method, category, note, date, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.GroupID,
		&m.Title,
		&m.Amount,
		&m.PaidBy,
		&m.SplitMethod,
		&m.Category,
		&m.Note,
		&m.Date,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveExpense inserts an expense and batch-inserts its splits in one transaction.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertExpenseInTx(ctx, tx, expense); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func insertExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	expenseQuery := `
		INSERT INTO expenses (expense_id, group_id, title, amount, paid_by, split_method, category, note, date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, expenseQuery,
		m.ExpenseID,
		m.GroupID,
		m.Title,
		m.Amount,
		m.PaidBy,
		m.SplitMethod,
		m.Category,
		m.Note,
		m.Date,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense %s: %w", m.ExpenseID, err)
	}

	return insertSplitsInTx(ctx, tx, expense.Splits)
}

func insertSplitsInTx(ctx context.Context, tx pgx.Tx, splits []domain.Split) error {
	batch := &pgx.Batch{}
	splitQuery := `
		INSERT INTO expense_splits (split_id, expense_id, user_id, amount, percentage)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, s := range splits {
		ms := mapping.ToModelSplit(s)
		batch.Queue(splitQuery, ms.SplitID, ms.ExpenseID, ms.UserID, ms.Amount, ms.Percentage)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range splits {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}
	return nil
}

// UpdateExpense rewrites the expense row and replaces its splits in one transaction.
func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelExpense(expense)
	updateQuery := `
		UPDATE expenses
		SET title = $1, amount = $2, paid_by = $3, split_method = $4, category = $5, note = $6, date = $7, last_updated_at = $8, last_updated_by = $9
		WHERE expense_id = $10 AND deleted_at IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, updateQuery,
		m.Title,
		m.Amount,
		m.PaidBy,
		m.SplitMethod,
		m.Category,
		m.Note,
		m.Date,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.ExpenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense %s: %w", m.ExpenseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM expense_splits WHERE expense_id = $1;`, m.ExpenseID); err != nil {
		return fmt.Errorf("failed to delete old splits for expense %s: %w", m.ExpenseID, err)
	}

	if err := insertSplitsInTx(ctx, tx, expense.Splits); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1 AND deleted_at IS NULL;`
	m, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense by ID %s: %w", expenseID, err)
	}

	expense := mapping.ToDomainExpense(*m)
	splits, err := r.findSplitsByExpenseIDs(ctx, r.Pool, []string{expenseID})
	if err != nil {
		return nil, err
	}
	expense.Splits = splits[expenseID]
	return &expense, nil
}

type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PgxExpenseRepository) findSplitsByExpenseIDs(ctx context.Context, q pgxQuerier, expenseIDs []string) (map[string][]domain.Split, error) {
	if len(expenseIDs) == 0 {
		return map[string][]domain.Split{}, nil
	}

	query := `
		SELECT split_id, expense_id, user_id, amount, percentage
		FROM expense_splits
		WHERE expense_id = ANY($1)
		ORDER BY split_id ASC;
	`
	rows, err := q.Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense splits: %w", err)
	}
	defer rows.Close()

	splits := make(map[string][]domain.Split)
	for rows.Next() {
		var m models.Split
		if err := rows.Scan(&m.SplitID, &m.ExpenseID, &m.UserID, &m.Amount, &m.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan split row: %w", err)
		}
		splits[m.ExpenseID] = append(splits[m.ExpenseID], mapping.ToDomainSplit(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating split rows: %w", err)
	}

	return splits, nil
}

// ListExpensesByGroup pages through a group's expenses, newest first. The
// cursor encodes the date and creation time of the last expense on the page.
func (r *PgxExpenseRepository) ListExpensesByGroup(ctx context.Context, groupID string, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		rows pgx.Rows
		err  error
	)
	baseQuery := `SELECT ` + expenseColumns + ` FROM expenses WHERE group_id = $1 AND deleted_at IS NULL`
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, tokenErr := pagination.DecodeToken(*nextToken)
		if tokenErr != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, tokenErr.Error())
		}
		query := baseQuery + `
			AND (date, created_at) < ($2, $3)
			ORDER BY date DESC, created_at DESC
			LIMIT $4;
		`
		rows, err = r.Pool.Query(ctx, query, groupID, lastDate, lastCreatedAt, limit+1)
	} else {
		query := baseQuery + `
			ORDER BY date DESC, created_at DESC
			LIMIT $2;
		`
		rows, err = r.Pool.Query(ctx, query, groupID, limit+1)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query expenses for group %s: %w", groupID, err)
	}
	defer rows.Close()

	var modelExpenses []models.Expense
	for rows.Next() {
		m, scanErr := scanExpense(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan expense row: %w", scanErr)
		}
		modelExpenses = append(modelExpenses, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating expense rows: %w", err)
	}

	// Fetch one extra row to know whether another page exists.
	var newNextToken *string
	if len(modelExpenses) > limit {
		modelExpenses = modelExpenses[:limit]
		last := modelExpenses[limit-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		newNextToken = &token
	}

	expenseIDs := make([]string, len(modelExpenses))
	expenses := make([]domain.Expense, len(modelExpenses))
	for i, m := range modelExpenses {
		expenseIDs[i] = m.ExpenseID
		expenses[i] = mapping.ToDomainExpense(m)
	}

	splits, err := r.findSplitsByExpenseIDs(ctx, r.Pool, expenseIDs)
	if err != nil {
		return nil, nil, err
	}
	for i := range expenses {
		expenses[i].Splits = splits[expenses[i].ExpenseID]
	}

	return expenses, newNextToken, nil
}

func (r *PgxExpenseRepository) MarkExpenseDeleted(ctx context.Context, expenseID string, deletedBy string, deletedAt time.Time) error {
	query := `
		UPDATE expenses
		SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2
		WHERE expense_id = $3 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, deletedAt, deletedBy, expenseID)
	if err != nil {
		return fmt.Errorf("failed to mark expense %s deleted: %w", expenseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// GetGroupSnapshot reads the group, its members, non-deleted expenses and
// confirmed settlements in one repeatable-read transaction so balances are
// computed from a single consistent view.
func (r *PgxExpenseRepository) GetGroupSnapshot(ctx context.Context, groupID string) (*ledger.GroupSnapshot, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin snapshot transaction", err)
	}
	defer r.Rollback(ctx, tx)

	snap, err := readGroupSnapshotInTx(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return snap, nil
}

// GetSharedGroupSnapshots reads consistent snapshots of every non-deleted
// group both users belong to, all within one repeatable-read transaction.
func (r *PgxExpenseRepository) GetSharedGroupSnapshots(ctx context.Context, userAID, userBID string) ([]ledger.GroupSnapshot, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin snapshot transaction", err)
	}
	defer r.Rollback(ctx, tx)

	idQuery := `
		SELECT a.group_id
		FROM group_members a
		JOIN group_members b ON b.group_id = a.group_id AND b.user_id = $2
		JOIN groups g ON g.group_id = a.group_id AND g.deleted_at IS NULL
		WHERE a.user_id = $1
		ORDER BY g.created_at ASC;
	`
	rows, err := tx.Query(ctx, idQuery, userAID, userBID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shared groups: %w", err)
	}
	var groupIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan shared group ID: %w", err)
		}
		groupIDs = append(groupIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shared group rows: %w", err)
	}

	snapshots := make([]ledger.GroupSnapshot, 0, len(groupIDs))
	for _, id := range groupIDs {
		snap, err := readGroupSnapshotInTx(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *snap)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return snapshots, nil
}

func readGroupSnapshotInTx(ctx context.Context, tx pgx.Tx, groupID string) (*ledger.GroupSnapshot, error) {
	groupQuery := `
		SELECT group_id, name, currency_code, created_at, created_by, last_updated_at, last_updated_by, deleted_at
		FROM groups
		WHERE group_id = $1 AND deleted_at IS NULL;
	`
	var mg models.Group
	err := tx.QueryRow(ctx, groupQuery, groupID).Scan(
		&mg.GroupID,
		&mg.Name,
		&mg.CurrencyCode,
		&mg.CreatedAt,
		&mg.CreatedBy,
		&mg.LastUpdatedAt,
		&mg.LastUpdatedBy,
		&mg.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read group %s for snapshot: %w", groupID, err)
	}

	memberQuery := `
		SELECT group_id, user_id, role, is_guest, guest_email, joined_at
		FROM group_members
		WHERE group_id = $1
		ORDER BY joined_at ASC;
	`
	rows, err := tx.Query(ctx, memberQuery, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to read members for snapshot of group %s: %w", groupID, err)
	}
	var modelMembers []models.GroupMember
	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.Role, &m.IsGuest, &m.GuestEmail, &m.JoinedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		modelMembers = append(modelMembers, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	expenseQuery := `SELECT ` + expenseColumns + ` FROM expenses WHERE group_id = $1 AND deleted_at IS NULL ORDER BY date ASC, created_at ASC;`
	rows, err = tx.Query(ctx, expenseQuery, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to read expenses for snapshot of group %s: %w", groupID, err)
	}
	var modelExpenses []models.Expense
	for rows.Next() {
		m, scanErr := scanExpense(rows)
		if scanErr != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense row: %w", scanErr)
		}
		modelExpenses = append(modelExpenses, *m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", err)
	}

	splitQuery := `
		SELECT s.split_id, s.expense_id, s.user_id, s.amount, s.percentage
		FROM expense_splits s
		JOIN expenses e ON e.expense_id = s.expense_id
		WHERE e.group_id = $1 AND e.deleted_at IS NULL
		ORDER BY s.split_id ASC;
	`
	rows, err = tx.Query(ctx, splitQuery, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to read splits for snapshot of group %s: %w", groupID, err)
	}
	splitsByExpense := make(map[string][]domain.Split)
	for rows.Next() {
		var m models.Split
		if err := rows.Scan(&m.SplitID, &m.ExpenseID, &m.UserID, &m.Amount, &m.Percentage); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan split row: %w", err)
		}
		splitsByExpense[m.ExpenseID] = append(splitsByExpense[m.ExpenseID], mapping.ToDomainSplit(m))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating split rows: %w", err)
	}

	settlementQuery := `
		SELECT settlement_id, group_id, from_user_id, to_user_id, amount, status, note, recorded_by, confirmed_at, created_at, created_by, last_updated_at, last_updated_by
		FROM settlements
		WHERE group_id = $1 AND status = 'confirmed'
		ORDER BY created_at ASC;
	`
	rows, err = tx.Query(ctx, settlementQuery, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to read settlements for snapshot of group %s: %w", groupID, err)
	}
	var modelSettlements []models.Settlement
	for rows.Next() {
		var m models.Settlement
		if err := rows.Scan(
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
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan settlement row: %w", err)
		}
		modelSettlements = append(modelSettlements, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settlement rows: %w", err)
	}

	expenses := make([]domain.Expense, len(modelExpenses))
	for i, m := range modelExpenses {
		expenses[i] = mapping.ToDomainExpense(m)
		expenses[i].Splits = splitsByExpense[m.ExpenseID]
	}

	return &ledger.GroupSnapshot{
		Group:       mapping.ToDomainGroup(mg),
		Members:     mapping.ToDomainGroupMemberSlice(modelMembers),
		Expenses:    expenses,
		Settlements: mapping.ToDomainSettlementSlice(modelSettlements),
	}, nil
}
