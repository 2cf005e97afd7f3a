package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/brand-registry/backend/internal/common/db"
	"github.com/brand-registry/backend/internal/user/domain"
)

type RoleRepository interface {
	FindByID(ctx context.Context, id int64) (domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
}

type PgRoleRepository struct {
	pool *pgxpool.Pool
}

func NewPgRoleRepository(pool *pgxpool.Pool) *PgRoleRepository {
	return &PgRoleRepository{pool: pool}
}

func (r *PgRoleRepository) FindByID(ctx context.Context, id int64) (domain.Role, error) {
	start := time.Now()
	row := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT id, code, name FROM role_type WHERE id = $1`, id)

	var role domain.Role
	err := row.Scan(&role.ID, &role.Code, &role.Name)
	if err := db.HandleQueryError(err, ErrRoleNotFound, "find role type", start); err != nil {
		return domain.Role{}, err
	}
	return role, nil
}

func (r *PgRoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	start := time.Now()
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT id, code, name FROM role_type ORDER BY id`)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "list role types", start)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Code, &role.Name); err != nil {
			return nil, db.HandleQueryError(err, nil, "scan role types", start)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, nil, "list role types", start)
	}

	db.MeasureQueryDuration("list role types", start)
	return roles, nil
}
