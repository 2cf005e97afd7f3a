package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	authdomain "github.com/brand-registry/backend/internal/auth/domain"
	"github.com/brand-registry/backend/internal/common/db"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, token authdomain.RefreshToken) (authdomain.RefreshToken, error)
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
}

type PgRefreshTokenRepository struct {
	pool *pgxpool.Pool
}

func NewPgRefreshTokenRepository(pool *pgxpool.Pool) *PgRefreshTokenRepository {
	return &PgRefreshTokenRepository{pool: pool}
}

func (r *PgRefreshTokenRepository) Create(ctx context.Context, token authdomain.RefreshToken) (authdomain.RefreshToken, error) {
	start := time.Now()
	row := db.Conn(ctx, r.pool).QueryRow(
		ctx,
		`INSERT INTO refresh_tokens (user_id, access_token, refresh_token)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		token.UserID,
		token.AccessToken,
		token.RefreshToken,
	)

	err := row.Scan(&token.ID, &token.CreatedAt)
	if err := db.HandleQueryError(err, nil, "create refresh token", start); err != nil {
		return authdomain.RefreshToken{}, err
	}
	return token, nil
}

func (r *PgRefreshTokenRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	start := time.Now()
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err := db.HandleExecError(err, "delete refresh tokens by user", start); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgRefreshTokenRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	start := time.Now()
	row := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM refresh_tokens WHERE user_id = $1`, userID)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, db.HandleQueryError(err, nil, "count refresh tokens", start)
	}
	db.MeasureQueryDuration("count refresh tokens", start)
	return count, nil
}
