// Package store persists users, designs, memberships and design snapshots
// in Postgres.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens a pool against databaseURL and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   time.Time
}

type Design struct {
	ID        string
	Name      string
	OwnerID   string
	Width     int32
	Height    int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Member struct {
	DesignID    string
	UserID      string
	Role        Role
	DisplayName string
	Email       string
}

type Snapshot struct {
	ID        string
	DesignID  string
	Version   int32
	Document  json.RawMessage
	CreatedAt time.Time
}

func (s *Store) CreateUser(ctx context.Context, u User) (User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password, display_name, created_at`,
		u.ID, u.Email, u.Password, u.DisplayName,
	)
	var out User
	err := row.Scan(&out.ID, &out.Email, &out.Password, &out.DisplayName, &out.CreatedAt)
	return out, err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, password, display_name, created_at
		FROM users WHERE email = $1`,
		email,
	)
	var out User
	err := row.Scan(&out.ID, &out.Email, &out.Password, &out.DisplayName, &out.CreatedAt)
	return out, err
}

func (s *Store) GetUserByID(ctx context.Context, id string) (User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, password, display_name, created_at
		FROM users WHERE id = $1`,
		id,
	)
	var out User
	err := row.Scan(&out.ID, &out.Email, &out.Password, &out.DisplayName, &out.CreatedAt)
	return out, err
}

func (s *Store) CreateDesign(ctx context.Context, d Design) (Design, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO designs (id, name, owner_id, width, height)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, owner_id, width, height, created_at, updated_at`,
		d.ID, d.Name, d.OwnerID, d.Width, d.Height,
	)
	var out Design
	err := row.Scan(&out.ID, &out.Name, &out.OwnerID, &out.Width, &out.Height, &out.CreatedAt, &out.UpdatedAt)
	return out, err
}

func (s *Store) GetDesign(ctx context.Context, id string) (Design, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, owner_id, width, height, created_at, updated_at
		FROM designs WHERE id = $1`,
		id,
	)
	var out Design
	err := row.Scan(&out.ID, &out.Name, &out.OwnerID, &out.Width, &out.Height, &out.CreatedAt, &out.UpdatedAt)
	return out, err
}

func (s *Store) ListDesignsForUser(ctx context.Context, userID string) ([]Design, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT d.id, d.name, d.owner_id, d.width, d.height, d.created_at, d.updated_at
		FROM designs d
		JOIN design_members m ON m.design_id = d.id
		WHERE m.user_id = $1
		ORDER BY d.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Design
	for rows.Next() {
		var d Design
		if err := rows.Scan(&d.ID, &d.Name, &d.OwnerID, &d.Width, &d.Height, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) DeleteDesign(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM designs WHERE id = $1`, id)
	return err
}

func (s *Store) AddMember(ctx context.Context, designID, userID string, role Role) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO design_members (design_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (design_id, user_id) DO NOTHING`,
		designID, userID, role,
	)
	return err
}

func (s *Store) GetMember(ctx context.Context, designID, userID string) (Member, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT m.design_id, m.user_id, m.role, u.display_name, u.email
		FROM design_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.design_id = $1 AND m.user_id = $2`,
		designID, userID,
	)
	var out Member
	err := row.Scan(&out.DesignID, &out.UserID, &out.Role, &out.DisplayName, &out.Email)
	return out, err
}

func (s *Store) ListMembers(ctx context.Context, designID string) ([]Member, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.design_id, m.user_id, m.role, u.display_name, u.email
		FROM design_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.design_id = $1
		ORDER BY u.display_name`,
		designID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.DesignID, &m.UserID, &m.Role, &m.DisplayName, &m.Email); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) RemoveMember(ctx context.Context, designID, userID string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM design_members WHERE design_id = $1 AND user_id = $2`,
		designID, userID,
	)
	return err
}

// CreateSnapshot stores a versioned design document. The version is assigned
// in SQL so concurrent writers cannot race on it.
func (s *Store) CreateSnapshot(ctx context.Context, id, designID string, document json.RawMessage) (Snapshot, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO design_snapshots (id, design_id, version, document)
		VALUES (
			$1, $2,
			COALESCE((SELECT MAX(version) FROM design_snapshots WHERE design_id = $2), 0) + 1,
			$3
		)
		RETURNING id, design_id, version, document, created_at`,
		id, designID, document,
	)
	var out Snapshot
	err := row.Scan(&out.ID, &out.DesignID, &out.Version, &out.Document, &out.CreatedAt)
	return out, err
}

func (s *Store) GetLatestSnapshot(ctx context.Context, designID string) (Snapshot, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, design_id, version, document, created_at
		FROM design_snapshots
		WHERE design_id = $1
		ORDER BY version DESC
		LIMIT 1`,
		designID,
	)
	var out Snapshot
	err := row.Scan(&out.ID, &out.DesignID, &out.Version, &out.Document, &out.CreatedAt)
	return out, err
}
