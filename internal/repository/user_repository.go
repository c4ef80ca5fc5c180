package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/Hasib2202/event-buddy/internal/model"
    "github.com/Hasib2202/event-buddy/internal/utils"
)

// ErrEmailExists is returned when registering an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// UserRepo persists application users.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password and inserts the user, returning its ID.
// Emails are normalized to lower case before storage.  Duplicate
// emails surface as ErrEmailExists (MySQL error 1062).
func (r *UserRepo) Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
        name, email, hash, role)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    var u model.User
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,name,email,password_hash,role,created_at,updated_at FROM users WHERE email=? LIMIT 1",
        email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
    return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
    var u model.User
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,name,email,password_hash,role,created_at,updated_at FROM users WHERE id=? LIMIT 1",
        id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
    return u, err
}
