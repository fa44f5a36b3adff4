// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kukusha-yon/carecorner-sub000/internal/core"
)

// Repository is the refresh session store. One row is one issued
// refresh token; a family is the rotation chain of a single sign-in,
// so revoking the family logs that device out everywhere in the chain.
type Repository interface {
	Create(ctx context.Context, token *RefreshToken) error
	GetByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	GetByID(ctx context.Context, id string) (*RefreshToken, error)
	MarkRotated(ctx context.Context, id, successorID string) error
	Revoke(ctx context.Context, id string) error
	RevokeFamily(ctx context.Context, familyID string) error
	RevokeUserSessions(ctx context.Context, userID string) error
	ListActiveSessions(
		ctx context.Context,
		userID string,
	) ([]RefreshToken, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

const sessionColumns = `
	id, user_id, token_hash, family_id, expires_at, created_at,
	is_used, used_at, revoked_at, replaced_by_id, user_agent, ip_address`

// purgeGrace keeps expired rows queryable for a day so a rotation that
// races the expiry still resolves against the old row.
const purgeGrace = 24 * time.Hour

type sessionRepository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(
	ctx context.Context,
	token *RefreshToken,
) error {
	query := `
		INSERT INTO refresh_tokens (
			id, user_id, token_hash, family_id, expires_at,
			user_agent, ip_address
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &token.CreatedAt, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.FamilyID,
		token.ExpiresAt,
		token.UserAgent,
		token.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("create refresh session: %w", err)
	}

	return nil
}

func (r *sessionRepository) GetByHash(
	ctx context.Context,
	tokenHash string,
) (*RefreshToken, error) {
	return r.getOne(ctx, "token_hash", tokenHash)
}

func (r *sessionRepository) GetByID(
	ctx context.Context,
	id string,
) (*RefreshToken, error) {
	return r.getOne(ctx, "id", id)
}

func (r *sessionRepository) getOne(
	ctx context.Context,
	column, value string,
) (*RefreshToken, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM refresh_tokens WHERE %s = $1`,
		sessionColumns, column,
	)

	var token RefreshToken
	err := r.db.GetContext(ctx, &token, query, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf(
			"refresh session by %s: %w", column, core.ErrNotFound,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("refresh session by %s: %w", column, err)
	}

	return &token, nil
}

// MarkRotated retires a spent token and records which token replaced
// it. The is_used guard makes rotation single-shot: a second spend of
// the same token finds zero rows and reads as replay.
func (r *sessionRepository) MarkRotated(
	ctx context.Context,
	id, successorID string,
) error {
	query := `
		UPDATE refresh_tokens
		SET is_used = true, used_at = NOW(), replaced_by_id = $2
		WHERE id = $1 AND is_used = false`

	return r.updateOne(ctx, "mark session rotated", query, id, successorID)
}

func (r *sessionRepository) Revoke(ctx context.Context, id string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE id = $1 AND revoked_at IS NULL`

	return r.updateOne(ctx, "revoke session", query, id)
}

func (r *sessionRepository) updateOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func (r *sessionRepository) RevokeFamily(
	ctx context.Context,
	familyID string,
) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE family_id = $1 AND revoked_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, familyID); err != nil {
		return fmt.Errorf("revoke session family: %w", err)
	}

	return nil
}

func (r *sessionRepository) RevokeUserSessions(
	ctx context.Context,
	userID string,
) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("revoke user sessions: %w", err)
	}

	return nil
}

func (r *sessionRepository) ListActiveSessions(
	ctx context.Context,
	userID string,
) ([]RefreshToken, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM refresh_tokens
		WHERE user_id = $1
			AND revoked_at IS NULL
			AND is_used = false
			AND expires_at > NOW()
		ORDER BY created_at DESC`, sessionColumns)

	var tokens []RefreshToken
	if err := r.db.SelectContext(ctx, &tokens, query, userID); err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}

	return tokens, nil
}

func (r *sessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM refresh_tokens
		WHERE expires_at < $1`

	result, err := r.db.ExecContext(ctx, query, time.Now().Add(-purgeGrace))
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}

	return rows, nil
}
