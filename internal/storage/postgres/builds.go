package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/pcbuilder/storefront/internal/domain/errors"
	"github.com/pcbuilder/storefront/internal/domain/model"
)

type buildRepository struct {
	storage *Storage
}

func (r *buildRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Build, error) {
	const insert = `INSERT INTO builder (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.storage.pool.Exec(ctx, insert, userID); err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrBuilderNotFound, err)
	}

	const selectBuild = `SELECT id, user_id, created_at FROM builder WHERE user_id=$1`
	build := model.Build{Parts: map[model.PartCategory]uuid.UUID{}}
	err := r.storage.pool.QueryRow(ctx, selectBuild, userID).Scan(&build.ID, &build.UserID, &build.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrBuilderNotFound
		}
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrBuilderNotFound, err)
	}

	const selectParts = `SELECT part_type, part_id FROM builder_parts WHERE builder_id=$1`
	rows, err := r.storage.pool.Query(ctx, selectParts, build.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			partType string
			partID   uuid.UUID
		)
		if err := rows.Scan(&partType, &partID); err != nil {
			return nil, err
		}
		category, err := model.ParseCategory(partType)
		if err != nil {
			r.storage.logger.Warn("skip build part with unknown type", "build_id", build.ID.String(), "part_type", partType)
			continue
		}
		build.Parts[category] = partID
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &build, nil
}

func (r *buildRepository) UpsertPart(ctx context.Context, buildID uuid.UUID, category model.PartCategory, partID uuid.UUID) error {
	const query = `INSERT INTO builder_parts (builder_id, part_type, part_id, updated_at)
                   VALUES ($1, $2, $3, NOW())
                   ON CONFLICT (builder_id, part_type) DO UPDATE
                   SET part_id = EXCLUDED.part_id, updated_at = NOW()`
	_, err := r.storage.pool.Exec(ctx, query, buildID, string(category), partID)
	return err
}

func (r *buildRepository) RemovePart(ctx context.Context, buildID uuid.UUID, category model.PartCategory) error {
	const query = `DELETE FROM builder_parts WHERE builder_id=$1 AND part_type=$2`
	_, err := r.storage.pool.Exec(ctx, query, buildID, string(category))
	return err
}
