package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/filecove/backend/internal/db"
	"github.com/filecove/backend/internal/models"
)

// PostgresUserRepository provides PostgreSQL-backed persistence for users.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO users (id, email, password_hash, created_at)
        VALUES ($1, $2, $3, $4)
    `, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// FindByEmail fetches a user by their email address.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, email, password_hash, created_at
        FROM users
        WHERE email = $1
    `, email)

	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user by email: %w", err)
	}

	return user, nil
}

// FindByID fetches a user by their identifier.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, email, password_hash, created_at
        FROM users
        WHERE id = $1
    `, id)

	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user by id: %w", err)
	}

	return user, nil
}

// Count returns the number of registered users.
func (r *PostgresUserRepository) Count(ctx context.Context) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// PostgresFileRepository provides PostgreSQL-backed persistence for file nodes.
type PostgresFileRepository struct {
	pool db.Pool
}

// NewPostgresFileRepository constructs a file repository backed by PostgreSQL.
func NewPostgresFileRepository(pool db.Pool) *PostgresFileRepository {
	return &PostgresFileRepository{pool: pool}
}

// Create stores a new file tree node. The root marker is persisted as NULL so
// it can never collide with a real node id.
func (r *PostgresFileRepository) Create(ctx context.Context, node models.FileNode) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO files (id, owner_id, parent_id, name, kind, is_public, blob_ref, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, node.ID, node.OwnerID, parentColumn(node.ParentID), node.Name, string(node.Kind), node.IsPublic, node.BlobRef, node.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert file node: %w", err)
	}

	return nil
}

// FindOwned fetches a node belonging to the given owner.
func (r *PostgresFileRepository) FindOwned(ctx context.Context, ownerID, id string) (models.FileNode, error) {
	return r.findOne(ctx, `
        SELECT id, owner_id, parent_id, name, kind, is_public, blob_ref, created_at
        FROM files
        WHERE id = $1 AND owner_id = $2
    `, id, ownerID)
}

// FindAny fetches a node regardless of owner.
func (r *PostgresFileRepository) FindAny(ctx context.Context, id string) (models.FileNode, error) {
	return r.findOne(ctx, `
        SELECT id, owner_id, parent_id, name, kind, is_public, blob_ref, created_at
        FROM files
        WHERE id = $1
    `, id)
}

func (r *PostgresFileRepository) findOne(ctx context.Context, query string, args ...any) (models.FileNode, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.FileNode{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	node, err := scanFileNode(conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.FileNode{}, ErrNotFound
		}
		return models.FileNode{}, fmt.Errorf("select file node: %w", err)
	}
	return node, nil
}

// SetVisibility flips the public flag and returns the updated node.
func (r *PostgresFileRepository) SetVisibility(ctx context.Context, ownerID, id string, isPublic bool) (models.FileNode, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.FileNode{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        UPDATE files
        SET is_public = $3
        WHERE id = $1 AND owner_id = $2
        RETURNING id, owner_id, parent_id, name, kind, is_public, blob_ref, created_at
    `, id, ownerID, isPublic)

	node, err := scanFileNode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.FileNode{}, ErrNotFound
		}
		return models.FileNode{}, fmt.Errorf("update file visibility: %w", err)
	}
	return node, nil
}

// ListByParent returns the owner's nodes under a parent in insertion order.
// The same query against an unchanged data set is deterministic: ties on
// created_at break on id.
func (r *PostgresFileRepository) ListByParent(ctx context.Context, ownerID string, parent models.ParentID, limit, offset int) ([]models.FileNode, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	query := `
        SELECT id, owner_id, parent_id, name, kind, is_public, blob_ref, created_at
        FROM files
        WHERE owner_id = $1 AND parent_id IS NULL
        ORDER BY created_at, id
        LIMIT $2 OFFSET $3
    `
	args := []any{ownerID, limit, offset}
	if parentID, ok := parent.Node(); ok {
		query = `
            SELECT id, owner_id, parent_id, name, kind, is_public, blob_ref, created_at
            FROM files
            WHERE owner_id = $1 AND parent_id = $4
            ORDER BY created_at, id
            LIMIT $2 OFFSET $3
        `
		args = append(args, parentID)
	}

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query file nodes: %w", err)
	}
	defer rows.Close()

	var nodes []models.FileNode
	for rows.Next() {
		node, err := scanFileNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file node: %w", err)
		}
		nodes = append(nodes, node)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file nodes: %w", err)
	}

	return nodes, nil
}

// Count returns the number of stored file nodes.
func (r *PostgresFileRepository) Count(ctx context.Context) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM files`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}
	return count, nil
}

func parentColumn(parent models.ParentID) sql.NullString {
	if id, ok := parent.Node(); ok {
		return sql.NullString{String: id, Valid: true}
	}
	return sql.NullString{}
}

func scanFileNode(row pgx.Row) (models.FileNode, error) {
	var (
		node     models.FileNode
		parentID sql.NullString
		kind     string
	)
	if err := row.Scan(&node.ID, &node.OwnerID, &parentID, &node.Name, &kind, &node.IsPublic, &node.BlobRef, &node.CreatedAt); err != nil {
		return models.FileNode{}, err
	}
	node.Kind = models.FileKind(kind)
	if parentID.Valid {
		node.ParentID = models.NodeParent(parentID.String)
	}
	return node, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
var _ FileRepository = (*PostgresFileRepository)(nil)
