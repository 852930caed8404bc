package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/pcbuilder/storefront/internal/domain/errors"
	"github.com/pcbuilder/storefront/internal/domain/model"
)

func orderRows() *pgxmockv3.Rows {
	return pgxmockv3.NewRows([]string{"id", "user_id", "status", "created_at", "updated_at"})
}

func TestOrderRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	userID, orderID := uuid.New(), uuid.New()
	now := time.Now()
	items := []domainErrors.PendingItem{{PartType: "cpus_detailed", PartID: uuid.New(), Quantity: 1}}
	snapshot, _ := json.Marshal(items)

	mock.ExpectQuery("INSERT INTO orders").WithArgs(userID, model.OrderStatusPending, snapshot).WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(orderID, now, now))
	order, err := repo.Create(context.Background(), userID, items)
	if err != nil || order.ID != orderID || order.Status != model.OrderStatusPending || order.UserID != userID {
		t.Fatalf("unexpected result: %+v err=%v", order, err)
	}

	mock.ExpectQuery("INSERT INTO orders").WithArgs(userID, model.OrderStatusPending, snapshot).WillReturnError(errors.New("insert"))
	if _, err := repo.Create(context.Background(), userID, items); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositorySnapshot(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	orderID, cpu := uuid.New(), uuid.New()
	raw := []byte(`[{"partType":"cpus_detailed","partId":"` + cpu.String() + `","quantity":1}]`)

	mock.ExpectQuery("SELECT items FROM orders WHERE id=").WithArgs(orderID).WillReturnRows(
		pgxmockv3.NewRows([]string{"items"}).AddRow(raw))
	items, err := repo.Snapshot(context.Background(), orderID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].PartType != "cpus_detailed" || items[0].PartID != cpu || items[0].Quantity != 1 {
		t.Fatalf("unexpected snapshot: %+v", items)
	}

	mock.ExpectQuery("SELECT items FROM orders WHERE id=").WithArgs(orderID).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.Snapshot(context.Background(), orderID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("SELECT items FROM orders WHERE id=").WithArgs(orderID).WillReturnRows(
		pgxmockv3.NewRows([]string{"items"}).AddRow([]byte("{broken")))
	if _, err := repo.Snapshot(context.Background(), orderID); err == nil {
		t.Fatal("expected decode error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryAddItems(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	orderID, cpu, gpu := uuid.New(), uuid.New(), uuid.New()
	items := []domainErrors.PendingItem{
		{PartType: "cpus_detailed", PartID: cpu, Quantity: 1},
		{PartType: "gpus_detailed", PartID: gpu},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO order_items").WithArgs(orderID, "cpus_detailed", cpu, 1).WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").WithArgs(orderID, "gpus_detailed", gpu, 1).WillReturnResult(pgxmockv3.NewResult("INSERT", 0))
	mock.ExpectCommit()
	if err := repo.AddItems(context.Background(), orderID, items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO order_items").WithArgs(orderID, "cpus_detailed", cpu, 1).WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").WithArgs(orderID, "gpus_detailed", gpu, 1).WillReturnError(errors.New("insert"))
	mock.ExpectRollback()
	if err := repo.AddItems(context.Background(), orderID, items); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryGet(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	orderID, userID, cpu := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()
	itemCols := []string{"id", "order_id", "part_type", "part_id", "quantity"}

	mock.ExpectQuery("SELECT id, user_id, status, created_at, updated_at FROM orders WHERE id=").WithArgs(orderID).WillReturnRows(
		orderRows().AddRow(orderID, userID, model.OrderStatusConfirmed, now, now))
	mock.ExpectQuery("FROM order_items WHERE order_id=").WithArgs(orderID).WillReturnRows(
		pgxmockv3.NewRows(itemCols).
			AddRow(int64(1), orderID, "cpus_detailed", cpu, 1).
			AddRow(int64(2), orderID, "Gpu", uuid.New(), 1).
			AddRow(int64(3), orderID, "legacy", uuid.New(), 1))
	order, err := repo.Get(context.Background(), orderID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order.Items) != 3 || order.Items[0].Category != model.CategoryCPU || order.Items[1].Category != model.CategoryGPU {
		t.Fatalf("unexpected items: %+v", order.Items)
	}
	if order.Items[2].Category != model.PartCategory("legacy") {
		t.Fatalf("expected unknown part type to be kept, got %q", order.Items[2].Category)
	}

	mock.ExpectQuery("SELECT id, user_id, status, created_at, updated_at FROM orders WHERE id=").WithArgs(orderID).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.Get(context.Background(), orderID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("SELECT id, user_id, status, created_at, updated_at FROM orders WHERE id=").WithArgs(orderID).WillReturnRows(
		orderRows().AddRow(orderID, userID, model.OrderStatusPending, now, now))
	mock.ExpectQuery("FROM order_items WHERE order_id=").WithArgs(orderID).WillReturnError(errors.New("items"))
	if _, err := repo.Get(context.Background(), orderID); err == nil {
		t.Fatal("expected items error")
	}

	mock.ExpectQuery("SELECT id, user_id, status, created_at, updated_at FROM orders WHERE id=").WithArgs(orderID).WillReturnRows(
		orderRows().AddRow(orderID, userID, model.OrderStatusPending, now, now))
	mock.ExpectQuery("FROM order_items WHERE order_id=").WithArgs(orderID).WillReturnRows(
		pgxmockv3.NewRows(itemCols).AddRow("bad", orderID, "cpus_detailed", cpu, 1))
	if _, err := repo.Get(context.Background(), orderID); err == nil {
		t.Fatal("expected scan error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryLists(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("FROM orders WHERE user_id=").WithArgs(userID).WillReturnRows(
		orderRows().
			AddRow(uuid.New(), userID, model.OrderStatusPending, now, now).
			AddRow(uuid.New(), userID, model.OrderStatusDelivered, now, now))
	orders, err := repo.ListByUser(context.Background(), userID)
	if err != nil || len(orders) != 2 {
		t.Fatalf("unexpected result: %v err=%v", orders, err)
	}

	mock.ExpectQuery("FROM orders WHERE user_id=").WithArgs(userID).WillReturnError(errors.New("query"))
	if _, err := repo.ListByUser(context.Background(), userID); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("FROM orders WHERE user_id=").WithArgs(userID).WillReturnRows(
		orderRows().AddRow("bad", userID, model.OrderStatusPending, now, now))
	if _, err := repo.ListByUser(context.Background(), userID); err == nil {
		t.Fatal("expected scan error")
	}

	summaryCols := []string{"id", "user_id", "status", "created_at", "updated_at", "email", "amount", "payment_status"}
	mock.ExpectQuery("FROM order_with_payment").WithArgs(50, 0).WillReturnRows(
		pgxmockv3.NewRows(summaryCols).
			AddRow(uuid.New(), userID, model.OrderStatusConfirmed, now, now, "a@b.c", int64(35050), model.PaymentStatusCompleted).
			AddRow(uuid.New(), userID, model.OrderStatusPending, now, now, "a@b.c", int64(0), model.PaymentStatus("")))
	summaries, err := repo.ListAll(context.Background(), 50, 0)
	if err != nil || len(summaries) != 2 || summaries[0].Amount != 35050 || summaries[0].PaymentStatus != model.PaymentStatusCompleted {
		t.Fatalf("unexpected summaries: %+v err=%v", summaries, err)
	}

	mock.ExpectQuery("FROM order_with_payment").WithArgs(50, 0).WillReturnError(errors.New("view"))
	if _, err := repo.ListAll(context.Background(), 50, 0); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryListsRowsError(t *testing.T) {
	storage := &Storage{pool: &rowsErrorPool{rows: &errorRows{err: errors.New("rows err")}}}
	repo := &orderRepository{storage: storage}

	if _, err := repo.ListByUser(context.Background(), uuid.New()); err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
	if _, err := repo.ListAll(context.Background(), 1, 0); err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
}

func TestOrderRepositoryUpdateStatus(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	orderID := uuid.New()

	mock.ExpectExec("UPDATE orders SET status=").WithArgs(model.OrderStatusShipped, orderID, model.OrderStatusProcessing).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.UpdateStatus(context.Background(), orderID, model.OrderStatusProcessing, model.OrderStatusShipped); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE orders SET status=").WithArgs(model.OrderStatusShipped, orderID, model.OrderStatusProcessing).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	if err := repo.UpdateStatus(context.Background(), orderID, model.OrderStatusProcessing, model.OrderStatusShipped); !errors.Is(err, domainErrors.ErrInvalidStatusTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	mock.ExpectExec("UPDATE orders SET status=").WithArgs(model.OrderStatusShipped, orderID, model.OrderStatusProcessing).
		WillReturnError(errors.New("update"))
	if err := repo.UpdateStatus(context.Background(), orderID, model.OrderStatusProcessing, model.OrderStatusShipped); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
