package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pcbuilder/storefront/internal/domain/model"
)

type userRepository struct {
	storage *Storage
}

type profileRepository struct {
	storage *Storage
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, email, passwordHash string) (*model.User, error) {
	var u model.User
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const query = `INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id, created_at`
		if err := tx.QueryRow(ctx, query, email, passwordHash).Scan(&u.ID, &u.CreatedAt); err != nil {
			return translateError(err)
		}
		const profile = `INSERT INTO profiles (id, role) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`
		_, err := tx.Exec(ctx, profile, u.ID, model.RoleUser)
		return err
	})
	if err != nil {
		return nil, err
	}
	u.Email = email
	u.PasswordHash = passwordHash
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT id, email, password_hash, created_at FROM users WHERE email=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const query = `SELECT id, email, password_hash, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

// --- ProfileRepository implementation ---

const profileColumns = `p.id, u.email, COALESCE(p.display_name, ''), COALESCE(p.username, ''),
                   COALESCE(p.avatar_url, ''), COALESCE(p.phone, ''), COALESCE(p.address, ''),
                   p.role, p.updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*model.Profile, error) {
	var p model.Profile
	if err := row.Scan(&p.ID, &p.Email, &p.DisplayName, &p.Username, &p.AvatarURL, &p.Phone, &p.Address, &p.Role, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles p JOIN users u ON u.id = p.id WHERE p.id=$1`
	p, err := scanProfile(r.storage.pool.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, translateError(err)
	}
	return p, nil
}

func (r *profileRepository) Upsert(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (*model.Profile, error) {
	const upsert = `INSERT INTO profiles (id, display_name, username, avatar_url, phone, address, updated_at)
                    VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NOW())
                    ON CONFLICT (id) DO UPDATE SET
                        display_name = EXCLUDED.display_name,
                        username = EXCLUDED.username,
                        avatar_url = EXCLUDED.avatar_url,
                        phone = EXCLUDED.phone,
                        address = EXCLUDED.address,
                        updated_at = NOW()`
	_, err := r.storage.pool.Exec(ctx, upsert, userID, update.DisplayName, update.Username, update.AvatarURL, update.Phone, update.Address)
	if err != nil {
		return nil, translateError(err)
	}
	return r.Get(ctx, userID)
}

func (r *profileRepository) List(ctx context.Context) ([]model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles p JOIN users u ON u.id = p.id ORDER BY u.created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
