package database

import (
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents an admin panel account.
type User struct {
	ID        int        `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Password  string     `json:"-"` // Never expose in JSON
	Role      string     `json:"role"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// UserStore handles admin account database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a user store and its tables.
func NewUserStore(db *sql.DB) (*UserStore, error) {
	store := &UserStore{db: db}
	if err := store.initTables(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *UserStore) initTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username VARCHAR(255) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(50) DEFAULT 'admin',
			active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			last_login TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Create inserts a new account with a hashed password.
func (s *UserStore) Create(username, email, password, role string) (int, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	var userID int
	err = s.db.QueryRow(`
		INSERT INTO users (username, email, password, role, active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id
	`, username, email, string(hashedPassword), role).Scan(&userID)

	return userID, err
}

// GetByLogin retrieves an account by username or email.
func (s *UserStore) GetByLogin(login string) (*User, error) {
	var user User
	err := s.db.QueryRow(`
		SELECT id, username, email, password, role, active, created_at, last_login
		FROM users WHERE username = $1 OR email = $1
	`, login).Scan(&user.ID, &user.Username, &user.Email, &user.Password,
		&user.Role, &user.Active, &user.CreatedAt, &user.LastLogin)

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves all accounts, most recently active first.
func (s *UserStore) List() ([]User, error) {
	rows, err := s.db.Query(`
		SELECT id, username, email, role, active, created_at, last_login
		FROM users
		ORDER BY last_login DESC NULLS LAST, created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.Role,
			&user.Active, &user.CreatedAt, &user.LastLogin); err != nil {
			continue
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// StampLastLogin records a successful login.
func (s *UserStore) StampLastLogin(userID int) error {
	_, err := s.db.Exec("UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = $1", userID)
	return err
}

// SetActive toggles an account's active flag.
func (s *UserStore) SetActive(userID int, active bool) error {
	_, err := s.db.Exec("UPDATE users SET active = $1 WHERE id = $2", active, userID)
	return err
}
