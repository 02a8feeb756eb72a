package serverdb

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smhrd/smartsearch/internal/crypto"
	"github.com/smhrd/smartsearch/internal/models"
)

var (
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidUser is returned when required registration fields are blank.
	ErrInvalidUser = errors.New("name, email and password are required")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// NewUser is the registration payload.
type NewUser struct {
	Name     string
	Email    string
	Password string
	Depart   string
	Phone    string
	Level    string
}

const userColumns = `id, name, email, oauth, depart, phone, level, joined_at`

// CreateUser registers a user. Email is trimmed and compared case-insensitively.
func (db *ServerDB) CreateUser(nu NewUser) (*models.User, error) {
	name := strings.TrimSpace(nu.Name)
	email := strings.TrimSpace(nu.Email)
	if name == "" || email == "" || nu.Password == "" {
		return nil, ErrInvalidUser
	}

	exists, err := db.EmailExists(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := crypto.HashPassword(nu.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Depart:   nu.Depart,
		Phone:    nu.Phone,
		Level:    nu.Level,
		JoinedAt: time.Now().UTC().Truncate(time.Second),
	}
	_, err = db.conn.Exec(
		`INSERT INTO users (id, name, email, password_hash, oauth, depart, phone, level, joined_at)
		 VALUES (?, ?, ?, ?, 0, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, hash, u.Depart, u.Phone, u.Level, u.JoinedAt.Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// EmailExists reports whether an account uses email.
func (db *ServerDB) EmailExists(email string) (bool, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, strings.TrimSpace(email)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return n > 0, nil
}

// Authenticate returns the user whose email and password match.
func (db *ServerDB) Authenticate(email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var hash string
	err := db.conn.QueryRow(`SELECT password_hash FROM users WHERE email = ?`, email).Scan(&hash)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := crypto.VerifyPassword(password, hash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return db.GetUserByEmail(email)
}

// GetUserByID returns the user with the given ID, or nil if not found.
func (db *ServerDB) GetUserByID(id string) (*models.User, error) {
	u, err := scanUser(db.conn.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetUserByEmail returns the user with the given email (case-insensitive), or nil if not found.
func (db *ServerDB) GetUserByEmail(email string) (*models.User, error) {
	u, err := scanUser(db.conn.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// ListUsers returns all users ordered by join time.
func (db *ServerDB) ListUsers() ([]*models.User, error) {
	rows, err := db.conn.Query(`SELECT ` + userColumns + ` FROM users ORDER BY joined_at, email`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: iterate: %w", err)
	}
	return users, nil
}

// CountUsers returns the number of registered accounts.
func (db *ServerDB) CountUsers() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser returns (nil, nil) when the row does not exist.
func scanUser(r rowScanner) (*models.User, error) {
	var u models.User
	var joined string
	err := r.Scan(&u.ID, &u.Name, &u.Email, &u.OAuth, &u.Depart, &u.Phone, &u.Level, &joined)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if t, perr := time.Parse(time.RFC3339, joined); perr == nil {
		u.JoinedAt = t
	}
	return &u, nil
}
