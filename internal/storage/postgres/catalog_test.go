package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/pcbuilder/storefront/internal/domain/errors"
	"github.com/pcbuilder/storefront/internal/domain/model"
)

func mustRange(t *testing.T, raw string) model.PriceRange {
	t.Helper()
	r, err := model.ParsePriceRange(raw)
	require.NoError(t, err)
	return r
}

func TestWhereClause(t *testing.T) {
	where, args := whereClause(model.PartFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = whereClause(model.PartFilter{
		NameContains: "50%_off",
		Manufacturer: "AMD",
		PriceRanges:  []model.PriceRange{mustRange(t, "0-100"), mustRange(t, "100-200"), mustRange(t, "300+")},
	})
	assert.Equal(t,
		" WHERE name ILIKE $1 AND manufacturer = $2 AND ((price >= $3::numeric AND price <= $4::numeric) OR (price > $5::numeric AND price <= $6::numeric) OR price > $7::numeric)",
		where)
	assert.Equal(t, []any{`%50\%\_off%`, "AMD", "0", "100", "100", "200", "300"}, args)
}

func TestCatalogRepositoryCount(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &catalogRepository{storage: storage}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM cpus_detailed WHERE manufacturer = $1")).WithArgs("AMD").
		WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(int64(45)))
	total, err := repo.Count(context.Background(), model.CategoryCPU, model.PartFilter{Manufacturer: "AMD"})
	if err != nil || total != 45 {
		t.Fatalf("unexpected result: %d err=%v", total, err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM gpus_detailed")).WillReturnError(errors.New("down"))
	if _, err := repo.Count(context.Background(), model.CategoryGPU, model.PartFilter{}); err == nil {
		t.Fatal("expected error")
	}

	if _, err := repo.Count(context.Background(), model.PartCategory("keyboards"), model.PartFilter{}); !errors.Is(err, domainErrors.ErrUnknownCategory) {
		t.Fatalf("expected unknown category, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func summaryRows() *pgxmockv3.Rows {
	return pgxmockv3.NewRows([]string{"id", "name", "image_url", "price", "manufacturer"})
}

func TestCatalogRepositoryList(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &catalogRepository{storage: storage}

	a, b := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("FROM cpus_detailed WHERE name ILIKE $1 ORDER BY name, id LIMIT $2 OFFSET $3")).
		WithArgs("%ryzen%", 20, 20).
		WillReturnRows(summaryRows().
			AddRow(a, "Ryzen 5", "img", "100.00", "AMD").
			AddRow(b, "Ryzen 7", "", "", "AMD"))
	items, err := repo.List(context.Background(), model.CategoryCPU, model.PartFilter{NameContains: "ryzen"}, 20, 20)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, a, items[0].ID)
	assert.Equal(t, model.CategoryCPU, items[0].Category)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, items[1].Price.IsZero())

	mock.ExpectQuery(regexp.QuoteMeta("FROM cases_detailed ORDER BY name, id LIMIT $1 OFFSET $2")).WithArgs(20, 0).
		WillReturnRows(summaryRows().AddRow(a, "Case", "", "not-a-price", ""))
	_, err = repo.List(context.Background(), model.CategoryCase, model.PartFilter{}, 20, 0)
	assert.Error(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM cases_detailed ORDER BY name, id LIMIT $1 OFFSET $2")).WithArgs(20, 0).
		WillReturnRows(summaryRows().AddRow("bad", "Case", "", "", ""))
	_, err = repo.List(context.Background(), model.CategoryCase, model.PartFilter{}, 20, 0)
	assert.Error(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM cases_detailed ORDER BY name, id LIMIT $1 OFFSET $2")).WithArgs(20, 0).
		WillReturnError(errors.New("down"))
	_, err = repo.List(context.Background(), model.CategoryCase, model.PartFilter{}, 20, 0)
	assert.Error(t, err)

	_, err = repo.List(context.Background(), model.PartCategory("nope"), model.PartFilter{}, 20, 0)
	assert.ErrorIs(t, err, domainErrors.ErrUnknownCategory)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryListRowsError(t *testing.T) {
	storage := &Storage{pool: &rowsErrorPool{rows: &errorRows{err: errors.New("rows err")}}}
	repo := &catalogRepository{storage: storage}

	if _, err := repo.List(context.Background(), model.CategoryGPU, model.PartFilter{}, 20, 0); err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
}

func TestCatalogRepositoryGet(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &catalogRepository{storage: storage}

	id := uuid.New()
	cols := []string{"id", "name", "image_url", "price", "manufacturer", "product_url", "part",
		"type", "efficiency_rating", "wattage", "modular"}
	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(wattage::text, '')")).WithArgs(id).WillReturnRows(
		pgxmockv3.NewRows(cols).AddRow(id, "RM850x", "img", "129.99", "Corsair", "https://example.com", "CP-9020200", "ATX", "80+ Gold", "850 W", "Full"))
	part, err := repo.Get(context.Background(), model.CategoryPowerSupply, id)
	require.NoError(t, err)
	assert.Equal(t, "RM850x", part.Name)
	assert.Equal(t, "CP-9020200", part.PartNumber)
	assert.True(t, part.Price.Equal(decimal.RequireFromString("129.99")))
	specs, ok := part.Specs.(model.PowerSupplySpecs)
	require.True(t, ok)
	assert.Equal(t, "850 W", specs.Wattage)

	mock.ExpectQuery("FROM power_supplies_detailed WHERE id=").WithArgs(id).WillReturnError(pgx.ErrNoRows)
	_, err = repo.Get(context.Background(), model.CategoryPowerSupply, id)
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)

	mock.ExpectQuery("FROM power_supplies_detailed WHERE id=").WithArgs(id).WillReturnRows(
		pgxmockv3.NewRows(cols).AddRow(id, "RM850x", "", "abc", "", "", "", "", "", "", ""))
	_, err = repo.Get(context.Background(), model.CategoryPowerSupply, id)
	assert.Error(t, err)

	_, err = repo.Get(context.Background(), model.PartCategory("nope"), id)
	assert.ErrorIs(t, err, domainErrors.ErrUnknownCategory)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryPrice(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &catalogRepository{storage: storage}

	id := uuid.New()
	mock.ExpectQuery("FROM gpus_detailed WHERE id=").WithArgs(id).WillReturnRows(
		pgxmockv3.NewRows([]string{"price"}).AddRow("250.50"))
	price, err := repo.Price(context.Background(), model.CategoryGPU, id)
	require.NoError(t, err)
	assert.Equal(t, "250.5", price.String())

	mock.ExpectQuery("FROM gpus_detailed WHERE id=").WithArgs(id).WillReturnError(pgx.ErrNoRows)
	_, err = repo.Price(context.Background(), model.CategoryGPU, id)
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)

	_, err = repo.Price(context.Background(), model.PartCategory("nope"), id)
	assert.ErrorIs(t, err, domainErrors.ErrUnknownCategory)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryManufacturers(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &catalogRepository{storage: storage}

	mock.ExpectQuery("SELECT DISTINCT manufacturer FROM memory_detailed").WillReturnRows(
		pgxmockv3.NewRows([]string{"manufacturer"}).AddRow("Corsair").AddRow("G.Skill"))
	list, err := repo.Manufacturers(context.Background(), model.CategoryMemory)
	require.NoError(t, err)
	assert.Equal(t, []string{"Corsair", "G.Skill"}, list)

	mock.ExpectQuery("SELECT DISTINCT manufacturer FROM memory_detailed").WillReturnError(errors.New("down"))
	_, err = repo.Manufacturers(context.Background(), model.CategoryMemory)
	assert.Error(t, err)

	mock.ExpectQuery("SELECT DISTINCT manufacturer FROM memory_detailed").WillReturnRows(
		pgxmockv3.NewRows([]string{"manufacturer"}).AddRow(42))
	_, err = repo.Manufacturers(context.Background(), model.CategoryMemory)
	assert.Error(t, err)

	_, err = repo.Manufacturers(context.Background(), model.PartCategory("nope"))
	assert.ErrorIs(t, err, domainErrors.ErrUnknownCategory)

	require.NoError(t, mock.ExpectationsWereMet())
}
