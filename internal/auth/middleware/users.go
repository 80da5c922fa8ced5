package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleLearner = "learner"
	RoleAdmin   = "admin"
)

var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrBadPassword     = errors.New("incorrect password")
	ErrWeakCredentials = errors.New("username and a password of at least 8 characters are required")
)

type User struct {
	ID       string
	Username string
	Role     string
}

type UserRepo struct {
	db   *sql.DB
	cost int
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db, cost: 12} }

// WithCost lowers the bcrypt cost; tests use bcrypt.MinCost.
func (u *UserRepo) WithCost(cost int) *UserRepo { u.cost = cost; return u }

func (u *UserRepo) Create(ctx context.Context, username, password, role string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 8 {
		return User{}, ErrWeakCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return User{}, err
	}
	return u.insert(ctx, username, string(hash), role)
}

// EnsureAdmin creates the bootstrap admin from a precomputed bcrypt hash
// unless the username already exists.
func (u *UserRepo) EnsureAdmin(ctx context.Context, username, passHash string) error {
	_, err := u.insert(ctx, username, passHash, RoleAdmin)
	if errors.Is(err, ErrUserExists) {
		return nil
	}
	return err
}

func (u *UserRepo) insert(ctx context.Context, username, hash, role string) (User, error) {
	var exists int
	err := u.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username=$1`, username).Scan(&exists)
	if err == nil {
		return User{}, ErrUserExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, err
	}
	usr := User{ID: uuid.NewString(), Username: username, Role: role}
	_, err = u.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1,$2,$3,$4,$5)`,
		usr.ID, usr.Username, hash, usr.Role, time.Now().Unix())
	if err != nil {
		return User{}, err
	}
	return usr, nil
}

func (u *UserRepo) Authenticate(ctx context.Context, username, password string) (User, error) {
	var usr User
	var hash string
	err := u.db.QueryRowContext(ctx,
		`SELECT id, username, role, password_hash FROM users WHERE username=$1`,
		strings.TrimSpace(username)).Scan(&usr.ID, &usr.Username, &usr.Role, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, ErrBadPassword
	}
	return usr, nil
}

// Role returns the stored role of a user id.
func (u *UserRepo) Role(ctx context.Context, id string) (string, error) {
	var role string
	err := u.db.QueryRowContext(ctx, `SELECT role FROM users WHERE id=$1`, id).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	return role, err
}

// ChangePassword checks the old password before storing the new one.
func (u *UserRepo) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakCredentials
	}
	var stored string
	err := u.db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE id=$1`, id).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(oldPassword)) != nil {
		return ErrBadPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), u.cost)
	if err != nil {
		return err
	}
	_, err = u.db.ExecContext(ctx, `UPDATE users SET password_hash=$1 WHERE id=$2`, string(hash), id)
	return err
}
