package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
	portsrepo "github.com/splitmate-app/splitmate_backend/internal/core/ports/repositories"
	"github.com/splitmate-app/splitmate_backend/internal/models"
	"github.com/splitmate-app/splitmate_backend/internal/utils/mapping"
)

type PgxFriendshipRepository struct {
	db *pgxpool.Pool
}

func newPgxFriendshipRepository(db *pgxpool.Pool) portsrepo.FriendshipRepository {
	return &PgxFriendshipRepository{db: db}
}

// Ensure PgxFriendshipRepository implements portsrepo.FriendshipRepository
var _ portsrepo.FriendshipRepository = (*PgxFriendshipRepository)(nil)

// UpsertFriendship records a friendship pair, idempotently. The pair is
// expected in canonical order (UserAID < UserBID).
func (r *PgxFriendshipRepository) UpsertFriendship(ctx context.Context, friendship domain.Friendship) error {
	m := mapping.ToModelFriendship(friendship)
	query := `
		INSERT INTO friendships (friendship_id, user_a_id, user_b_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_a_id, user_b_id) DO NOTHING;
	`
	_, err := r.db.Exec(ctx, query, m.FriendshipID, m.UserAID, m.UserBID, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert friendship between %s and %s: %w", m.UserAID, m.UserBID, err)
	}
	return nil
}

func (r *PgxFriendshipRepository) ListFriendships(ctx context.Context, userID string) ([]domain.Friendship, error) {
	query := `
		SELECT friendship_id, user_a_id, user_b_id, created_at
		FROM friendships
		WHERE user_a_id = $1 OR user_b_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query friendships for user %s: %w", userID, err)
	}
	defer rows.Close()

	var friendships []domain.Friendship
	for rows.Next() {
		var m models.Friendship
		if err := rows.Scan(&m.FriendshipID, &m.UserAID, &m.UserBID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friendship row: %w", err)
		}
		friendships = append(friendships, mapping.ToDomainFriendship(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating friendship rows: %w", err)
	}

	return friendships, nil
}
