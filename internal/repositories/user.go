package repositories

import (
	"context"
	"database/sql"
	"encoding/hex"
	"github.com/myrjola/cluequest/internal/errors"
	"github.com/myrjola/cluequest/internal/models"
	"github.com/myrjola/cluequest/internal/sqlite"
	"log/slog"
)

// ErrNoRecord is returned when a lookup matches nothing.
var ErrNoRecord = errors.NewSentinel("no matching record found")

type UserRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewUserRepository(dbs *sqlite.Database, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		dbs:    dbs,
		logger: logger.With("source", "UserRepository"),
	}
}

func (r *UserRepository) Get(ctx context.Context, id []byte) (*models.User, error) {
	var user models.User
	stmt := `SELECT id, display_name, progress FROM users WHERE id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &user, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNoRecord, "get user", slog.String("user_id", hex.EncodeToString(id)))
		}
		return nil, errors.Wrap(err, "get user")
	}
	return &user, nil
}

func (r *UserRepository) Exists(ctx context.Context, id []byte) (bool, error) {
	stmt := `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`
	var exists bool
	if err := r.dbs.ReadOnly.GetContext(ctx, &exists, stmt, id); err != nil {
		return false, errors.Wrap(err, "query user exists")
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	stmt := `INSERT INTO users (id, display_name, progress) VALUES (?, ?, ?)`
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, user.ID, user.DisplayName, user.Progress); err != nil {
		return errors.Wrap(err, "insert user", slog.String("user_id", hex.EncodeToString(user.ID)))
	}
	return nil
}

// IncrementProgress adds one to the user's progress counter and returns the new value.
//
// The increment happens in a single UPDATE so concurrent solves cannot lose updates.
func (r *UserRepository) IncrementProgress(ctx context.Context, id []byte) (int64, error) {
	var progress int64
	stmt := `UPDATE users SET progress = progress + 1 WHERE id = ? RETURNING progress`
	if err := r.dbs.ReadWrite.GetContext(ctx, &progress, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errors.Wrap(ErrNoRecord, "increment progress",
				slog.String("user_id", hex.EncodeToString(id)))
		}
		return 0, errors.Wrap(err, "increment progress")
	}
	return progress, nil
}
