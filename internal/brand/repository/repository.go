package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/brand-registry/backend/internal/brand/domain"
	"github.com/brand-registry/backend/internal/common/db"
)

var (
	ErrBrandNotFound    = errors.New("brand not found")
	ErrInvalidReference = errors.New("referenced user or state type does not exist")
)

type Repository interface {
	Create(ctx context.Context, brand domain.Brand) (domain.Brand, error)
	FindByID(ctx context.Context, id int64) (domain.Brand, error)
	List(ctx context.Context, skip, limit int) (domain.Page, error)
	Update(ctx context.Context, brand domain.Brand) (domain.Brand, error)
	Delete(ctx context.Context, id int64) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const brandColumns = `id, brand_title, user_id, state_type_id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBrand(row rowScanner) (domain.Brand, error) {
	var b domain.Brand
	err := row.Scan(&b.ID, &b.Title, &b.UserID, &b.StateTypeID)
	return b, err
}

func (r *PgRepository) Create(ctx context.Context, brand domain.Brand) (domain.Brand, error) {
	start := time.Now()
	row := db.Conn(ctx, r.pool).QueryRow(
		ctx,
		`INSERT INTO register_brand (brand_title, user_id, state_type_id)
		 VALUES ($1, $2, $3)
		 RETURNING `+brandColumns,
		brand.Title,
		brand.UserID,
		brand.StateTypeID,
	)

	created, err := scanBrand(row)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			db.MeasureQueryDuration("create brand", start)
			return domain.Brand{}, ErrInvalidReference
		}
		return domain.Brand{}, db.HandleQueryError(err, nil, "create brand", start)
	}
	db.MeasureQueryDuration("create brand", start)
	return created, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id int64) (domain.Brand, error) {
	start := time.Now()
	row := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+brandColumns+` FROM register_brand WHERE id = $1`, id)

	brand, err := scanBrand(row)
	if err := db.HandleQueryError(err, ErrBrandNotFound, "find brand by id", start); err != nil {
		return domain.Brand{}, err
	}
	return brand, nil
}

func (r *PgRepository) List(ctx context.Context, skip, limit int) (domain.Page, error) {
	start := time.Now()
	conn := db.Conn(ctx, r.pool)

	var total int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM register_brand`).Scan(&total); err != nil {
		return domain.Page{}, db.HandleQueryError(err, nil, "count brands", start)
	}

	rows, err := conn.Query(
		ctx,
		`SELECT `+brandColumns+` FROM register_brand ORDER BY id OFFSET $1 LIMIT $2`,
		skip,
		limit,
	)
	if err != nil {
		return domain.Page{}, db.HandleQueryError(err, nil, "list brands", start)
	}
	defer rows.Close()

	brands := make([]domain.Brand, 0)
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return domain.Page{}, db.HandleQueryError(err, nil, "scan brands", start)
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return domain.Page{}, db.HandleQueryError(err, nil, "list brands", start)
	}

	db.MeasureQueryDuration("list brands", start)
	return domain.Page{Brands: brands, Total: total}, nil
}

func (r *PgRepository) Update(ctx context.Context, brand domain.Brand) (domain.Brand, error) {
	start := time.Now()
	row := db.Conn(ctx, r.pool).QueryRow(
		ctx,
		`UPDATE register_brand
		 SET brand_title = $2, state_type_id = $3
		 WHERE id = $1
		 RETURNING `+brandColumns,
		brand.ID,
		brand.Title,
		brand.StateTypeID,
	)

	updated, err := scanBrand(row)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			db.MeasureQueryDuration("update brand", start)
			return domain.Brand{}, ErrInvalidReference
		}
		return domain.Brand{}, db.HandleQueryError(err, ErrBrandNotFound, "update brand", start)
	}
	db.MeasureQueryDuration("update brand", start)
	return updated, nil
}

func (r *PgRepository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM register_brand WHERE id = $1`, id)
	if err := db.HandleExecError(err, "delete brand", start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBrandNotFound
	}
	return nil
}
