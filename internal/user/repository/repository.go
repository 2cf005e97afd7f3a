package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/brand-registry/backend/internal/common/db"
	"github.com/brand-registry/backend/internal/user/domain"
)

const (
	constraintEmail    = "users_email_key"
	constraintUsername = "users_username_key"
)

type Repository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id int64) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	List(ctx context.Context, skip, limit int) (domain.Page, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const userColumns = `id, email, username, full_name, password, role_type_id, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FullName, &u.PasswordHash, &u.RoleTypeID, &u.CreatedAt)
	return u, err
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	start := time.Now()
	row := db.Conn(ctx, r.pool).QueryRow(
		ctx,
		`INSERT INTO users (email, username, full_name, password, role_type_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		user.Email,
		user.Username,
		user.FullName,
		user.PasswordHash,
		user.RoleTypeID,
	)

	created, err := scanUser(row)
	if err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			db.MeasureQueryDuration("create user", start)
			return domain.User{}, mapped
		}
		return domain.User{}, db.HandleQueryError(err, nil, "create user", start)
	}
	db.MeasureQueryDuration("create user", start)
	return created, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	start := time.Now()
	row := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user by id", start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	start := time.Now()
	row := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	user, err := scanUser(row)
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user by email", start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	start := time.Now()
	row := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)

	user, err := scanUser(row)
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user by username", start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) List(ctx context.Context, skip, limit int) (domain.Page, error) {
	start := time.Now()
	conn := db.Conn(ctx, r.pool)

	var total int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return domain.Page{}, db.HandleQueryError(err, nil, "count users", start)
	}

	rows, err := conn.Query(
		ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id OFFSET $1 LIMIT $2`,
		skip,
		limit,
	)
	if err != nil {
		return domain.Page{}, db.HandleQueryError(err, nil, "list users", start)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return domain.Page{}, db.HandleQueryError(err, nil, "scan users", start)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return domain.Page{}, db.HandleQueryError(err, nil, "list users", start)
	}

	db.MeasureQueryDuration("list users", start)
	return domain.Page{Users: users, Total: total}, nil
}

func (r *PgRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	start := time.Now()
	row := db.Conn(ctx, r.pool).QueryRow(
		ctx,
		`UPDATE users
		 SET email = $2, username = $3, full_name = $4, password = $5, role_type_id = $6
		 WHERE id = $1
		 RETURNING `+userColumns,
		user.ID,
		user.Email,
		user.Username,
		user.FullName,
		user.PasswordHash,
		user.RoleTypeID,
	)

	updated, err := scanUser(row)
	if err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			db.MeasureQueryDuration("update user", start)
			return domain.User{}, mapped
		}
		return domain.User{}, db.HandleQueryError(err, ErrUserNotFound, "update user", start)
	}
	db.MeasureQueryDuration("update user", start)
	return updated, nil
}

func (r *PgRepository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err := db.HandleExecError(err, "delete user", start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func mapWriteError(err error) error {
	if constraint, ok := db.UniqueViolation(err); ok {
		switch constraint {
		case constraintUsername:
			return ErrUsernameExists
		default:
			return ErrEmailExists
		}
	}
	if db.IsForeignKeyViolation(err) {
		return ErrInvalidRoleReference
	}
	return nil
}
