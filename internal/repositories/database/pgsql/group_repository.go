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

type PgxGroupRepository struct {
	BaseRepository
}

func newPgxGroupRepository(pool *pgxpool.Pool) portsrepo.GroupRepository {
	return &PgxGroupRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxGroupRepository implements portsrepo.GroupRepository
var _ portsrepo.GroupRepository = (*PgxGroupRepository)(nil)

// SaveGroup inserts the group and its initial admin membership in one transaction.
func (r *PgxGroupRepository) SaveGroup(ctx context.Context, group domain.Group, creatorMembership domain.GroupMember) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelGroup := mapping.ToModelGroup(group)
	groupQuery := `
		INSERT INTO groups (group_id, name, currency_code, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, groupQuery,
		modelGroup.GroupID,
		modelGroup.Name,
		modelGroup.CurrencyCode,
		modelGroup.CreatedAt,
		modelGroup.CreatedBy,
		modelGroup.LastUpdatedAt,
		modelGroup.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group %s: %w", modelGroup.GroupID, err)
	}

	modelMember := mapping.ToModelGroupMember(creatorMembership)
	memberQuery := `
		INSERT INTO group_members (group_id, user_id, role, is_guest, guest_email, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, memberQuery,
		modelMember.GroupID,
		modelMember.UserID,
		modelMember.Role,
		modelMember.IsGuest,
		modelMember.GuestEmail,
		modelMember.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert creator membership for group %s: %w", modelGroup.GroupID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxGroupRepository) FindGroupByID(ctx context.Context, groupID string) (*domain.Group, error) {
	query := `
		SELECT group_id, name, currency_code, created_at, created_by, last_updated_at, last_updated_by, deleted_at
		FROM groups
		WHERE group_id = $1 AND deleted_at IS NULL;
	`
	var modelGroup models.Group
	err := r.Pool.QueryRow(ctx, query, groupID).Scan(
		&modelGroup.GroupID,
		&modelGroup.Name,
		&modelGroup.CurrencyCode,
		&modelGroup.CreatedAt,
		&modelGroup.CreatedBy,
		&modelGroup.LastUpdatedAt,
		&modelGroup.LastUpdatedBy,
		&modelGroup.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find group by ID %s: %w", groupID, err)
	}

	domainGroup := mapping.ToDomainGroup(modelGroup)
	return &domainGroup, nil
}

func (r *PgxGroupRepository) ListGroupsByUserID(ctx context.Context, userID string) ([]domain.Group, error) {
	query := `
		SELECT g.group_id, g.name, g.currency_code, g.created_at, g.created_by, g.last_updated_at, g.last_updated_by, g.deleted_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.group_id
		WHERE gm.user_id = $1 AND g.deleted_at IS NULL
		ORDER BY g.created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups for user %s: %w", userID, err)
	}
	defer rows.Close()

	var modelGroups []models.Group
	for rows.Next() {
		var m models.Group
		if err := rows.Scan(
			&m.GroupID,
			&m.Name,
			&m.CurrencyCode,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&m.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		modelGroups = append(modelGroups, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}

	return mapping.ToDomainGroupSlice(modelGroups), nil
}

func (r *PgxGroupRepository) FindGroupMember(ctx context.Context, groupID, userID string) (*domain.GroupMember, error) {
	query := `
		SELECT group_id, user_id, role, is_guest, guest_email, joined_at
		FROM group_members
		WHERE group_id = $1 AND user_id = $2;
	`
	var m models.GroupMember
	err := r.Pool.QueryRow(ctx, query, groupID, userID).Scan(
		&m.GroupID,
		&m.UserID,
		&m.Role,
		&m.IsGuest,
		&m.GuestEmail,
		&m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member %s in group %s: %w", userID, groupID, err)
	}

	member := mapping.ToDomainGroupMember(m)
	return &member, nil
}

func (r *PgxGroupRepository) ListGroupMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	query := `
		SELECT group_id, user_id, role, is_guest, guest_email, joined_at
		FROM group_members
		WHERE group_id = $1
		ORDER BY joined_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members of group %s: %w", groupID, err)
	}
	defer rows.Close()

	var modelMembers []models.GroupMember
	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(
			&m.GroupID,
			&m.UserID,
			&m.Role,
			&m.IsGuest,
			&m.GuestEmail,
			&m.JoinedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group member row: %w", err)
		}
		modelMembers = append(modelMembers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group member rows: %w", err)
	}

	return mapping.ToDomainGroupMemberSlice(modelMembers), nil
}

func (r *PgxGroupRepository) ListSharedGroupIDs(ctx context.Context, userAID, userBID string) ([]string, error) {
	query := `
		SELECT a.group_id
		FROM group_members a
		JOIN group_members b ON b.group_id = a.group_id AND b.user_id = $2
		JOIN groups g ON g.group_id = a.group_id AND g.deleted_at IS NULL
		WHERE a.user_id = $1
		ORDER BY g.created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, userAID, userBID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shared groups: %w", err)
	}
	defer rows.Close()

	var groupIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan shared group ID: %w", err)
		}
		groupIDs = append(groupIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shared group rows: %w", err)
	}

	return groupIDs, nil
}

func (r *PgxGroupRepository) UpdateGroup(ctx context.Context, group domain.Group) error {
	modelGroup := mapping.ToModelGroup(group)
	query := `
		UPDATE groups
		SET name = $1, currency_code = $2, last_updated_at = $3, last_updated_by = $4
		WHERE group_id = $5 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelGroup.Name,
		modelGroup.CurrencyCode,
		modelGroup.LastUpdatedAt,
		modelGroup.LastUpdatedBy,
		modelGroup.GroupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group %s: %w", modelGroup.GroupID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxGroupRepository) AddGroupMember(ctx context.Context, member domain.GroupMember) error {
	m := mapping.ToModelGroupMember(member)
	query := `
		INSERT INTO group_members (group_id, user_id, role, is_guest, guest_email, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.GroupID,
		m.UserID,
		m.Role,
		m.IsGuest,
		m.GuestEmail,
		m.JoinedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user %s is already a member of group %s", apperrors.ErrDuplicate, member.UserID, member.GroupID)
		}
		return fmt.Errorf("failed to add member %s to group %s: %w", member.UserID, member.GroupID, err)
	}
	return nil
}

func (r *PgxGroupRepository) RemoveGroupMember(ctx context.Context, groupID, userID string) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2;`
	cmdTag, err := r.Pool.Exec(ctx, query, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member %s from group %s: %w", userID, groupID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxGroupRepository) MarkGroupDeleted(ctx context.Context, groupID string, deletedBy string) error {
	query := `
		UPDATE groups
		SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2
		WHERE group_id = $3 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, time.Now(), deletedBy, groupID)
	if err != nil {
		return fmt.Errorf("failed to mark group %s deleted: %w", groupID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
