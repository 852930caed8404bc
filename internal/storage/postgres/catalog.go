package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pcbuilder/storefront/internal/domain/model"
)

type catalogRepository struct {
	storage *Storage
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereClause renders filter conditions starting at placeholder $1.
func whereClause(filter model.PartFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if name := strings.TrimSpace(filter.NameContains); name != "" {
		conds = append(conds, "name ILIKE "+next("%"+likeEscaper.Replace(name)+"%"))
	}
	if m := strings.TrimSpace(filter.Manufacturer); m != "" {
		conds = append(conds, "manufacturer = "+next(m))
	}
	if len(filter.PriceRanges) > 0 {
		bands := make([]string, 0, len(filter.PriceRanges))
		for _, r := range filter.PriceRanges {
			op := ">"
			if r.MinInclusive {
				op = ">="
			}
			band := fmt.Sprintf("price %s %s::numeric", op, next(r.Min.String()))
			if !r.Unbounded {
				band = fmt.Sprintf("(%s AND price <= %s::numeric)", band, next(r.Max.String()))
			}
			bands = append(bands, band)
		}
		conds = append(conds, "("+strings.Join(bands, " OR ")+")")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *catalogRepository) Count(ctx context.Context, category model.PartCategory, filter model.PartFilter) (int64, error) {
	if _, err := category.Info(); err != nil {
		return 0, err
	}
	where, args := whereClause(filter)
	query := `SELECT COUNT(*) FROM ` + category.Table() + where

	var total int64
	if err := r.storage.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", category, err)
	}
	return total, nil
}

func (r *catalogRepository) List(ctx context.Context, category model.PartCategory, filter model.PartFilter, limit, offset int) ([]model.PartSummary, error) {
	if _, err := category.Info(); err != nil {
		return nil, err
	}
	where, args := whereClause(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT id, name, COALESCE(image_url, ''), COALESCE(price::text, ''), COALESCE(manufacturer, '')
                   FROM %s%s ORDER BY name, id LIMIT $%d OFFSET $%d`, category.Table(), where, len(args)-1, len(args))

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", category, err)
	}
	defer rows.Close()

	var result []model.PartSummary
	for rows.Next() {
		var (
			p     = model.PartSummary{Category: category}
			price string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.ImageURL, &price, &p.Manufacturer); err != nil {
			return nil, err
		}
		if p.Price, err = model.ParsePrice(price); err != nil {
			return nil, fmt.Errorf("parse price of %s: %w", p.ID, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *catalogRepository) Get(ctx context.Context, category model.PartCategory, id uuid.UUID) (*model.Part, error) {
	info, err := category.Info()
	if err != nil {
		return nil, err
	}

	specCols := make([]string, len(info.SpecColumns))
	for i, col := range info.SpecColumns {
		specCols[i] = fmt.Sprintf("COALESCE(%s::text, '')", col)
	}
	query := `SELECT id, name, COALESCE(image_url, ''), COALESCE(price::text, ''), COALESCE(manufacturer, ''),
                   COALESCE(product_url, ''), COALESCE(part, ''), ` + strings.Join(specCols, ", ") +
		` FROM ` + category.Table() + ` WHERE id=$1`

	var (
		part  = model.Part{PartSummary: model.PartSummary{Category: category}}
		price string
		specs = make([]string, len(info.SpecColumns))
	)
	dest := []any{&part.ID, &part.Name, &part.ImageURL, &price, &part.Manufacturer, &part.ProductURL, &part.PartNumber}
	for i := range specs {
		dest = append(dest, &specs[i])
	}
	if err := r.storage.pool.QueryRow(ctx, query, id).Scan(dest...); err != nil {
		return nil, translateError(err)
	}
	if part.Price, err = model.ParsePrice(price); err != nil {
		return nil, fmt.Errorf("parse price of %s: %w", id, err)
	}
	if part.Specs, err = model.DecodeSpecs(category, specs); err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *catalogRepository) Price(ctx context.Context, category model.PartCategory, id uuid.UUID) (decimal.Decimal, error) {
	if _, err := category.Info(); err != nil {
		return decimal.Zero, err
	}
	query := `SELECT COALESCE(price::text, '') FROM ` + category.Table() + ` WHERE id=$1`

	var price string
	if err := r.storage.pool.QueryRow(ctx, query, id).Scan(&price); err != nil {
		return decimal.Zero, translateError(err)
	}
	return model.ParsePrice(price)
}

func (r *catalogRepository) Manufacturers(ctx context.Context, category model.PartCategory) ([]string, error) {
	if _, err := category.Info(); err != nil {
		return nil, err
	}
	query := `SELECT DISTINCT manufacturer FROM ` + category.Table() + ` WHERE manufacturer IS NOT NULL ORDER BY manufacturer`

	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
