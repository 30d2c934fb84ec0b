package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the server error number for a unique key
// violation (ER_DUP_ENTRY).
const mysqlDuplicateEntry = 1062

// User mirrors the 'users' table.
type User struct {
	ID       int64
	Username string
	Points   int64
}

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user and returns its id. The points column takes
// its schema default of 100. A duplicate username surfaces as
// ErrUsernameTaken via the unique constraint.
func (r *UserRepo) Create(ctx context.Context, username, password string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, password) VALUES (?, ?)",
		username, password)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return 0, ErrUsernameTaken
		}
		return 0, err
	}
	return res.LastInsertId()
}

// Authenticate looks a user up by exact username and password match in a
// single query. The comparison happens inside the store; the handler never
// sees a candidate row that did not match.
func (r *UserRepo) Authenticate(ctx context.Context, username, password string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, points FROM users WHERE username = ? AND password = ? LIMIT 1",
		username, password).Scan(&u.ID, &u.Username, &u.Points)
	if err == sql.ErrNoRows {
		return User{}, ErrInvalidCredentials
	}
	return u, err
}

// Points returns the current balance for the given user.
func (r *UserRepo) Points(ctx context.Context, userID int64) (int64, error) {
	var points int64
	err := r.db.QueryRowContext(ctx,
		"SELECT points FROM users WHERE id = ?", userID).Scan(&points)
	if err == sql.ErrNoRows {
		return 0, ErrUserNotFound
	}
	return points, err
}

// AddPoints credits the balance by amount. The caller validates the
// amount; this is a single-statement mutation relying on the store's own
// atomicity.
func (r *UserRepo) AddPoints(ctx context.Context, userID, amount int64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET points = points + ? WHERE id = ?", amount, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// PointsForUpdateTx reads the balance under a row lock inside the given
// transaction. The lock is held until commit or rollback, serializing
// concurrent purchases by the same user.
func (r *UserRepo) PointsForUpdateTx(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	var points int64
	err := tx.QueryRowContext(ctx,
		"SELECT points FROM users WHERE id = ? FOR UPDATE", userID).Scan(&points)
	if err == sql.ErrNoRows {
		return 0, ErrUserNotFound
	}
	return points, err
}

// DebitTx subtracts cost from the balance inside the given transaction.
// The guard keeps the balance non-negative even if the caller's check was
// wrong; an unexpected zero row count is reported as ErrInsufficientPoints.
func (r *UserRepo) DebitTx(ctx context.Context, tx *sql.Tx, userID, cost int64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE users SET points = points - ? WHERE id = ? AND points >= ?",
		cost, userID, cost)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientPoints
	}
	return nil
}
