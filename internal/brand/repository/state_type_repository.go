package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/brand-registry/backend/internal/brand/domain"
	"github.com/brand-registry/backend/internal/common/db"
)

type StateTypeRepository interface {
	List(ctx context.Context) ([]domain.StateType, error)
}

type PgStateTypeRepository struct {
	pool *pgxpool.Pool
}

func NewPgStateTypeRepository(pool *pgxpool.Pool) *PgStateTypeRepository {
	return &PgStateTypeRepository{pool: pool}
}

func (r *PgStateTypeRepository) List(ctx context.Context) ([]domain.StateType, error) {
	start := time.Now()
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT id, code, name FROM state_type ORDER BY id`)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "list state types", start)
	}
	defer rows.Close()

	var states []domain.StateType
	for rows.Next() {
		var st domain.StateType
		if err := rows.Scan(&st.ID, &st.Code, &st.Name); err != nil {
			return nil, db.HandleQueryError(err, nil, "scan state types", start)
		}
		states = append(states, st)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, nil, "list state types", start)
	}

	db.MeasureQueryDuration("list state types", start)
	return states, nil
}
