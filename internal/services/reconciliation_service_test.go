package services

import (
	"context"
	"testing"
	"time"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grant(t *testing.T, store *memory.Store, id string, points int) {
	t.Helper()
	_, err := newUserService(store).GrantPoints(context.Background(), id, points, "staff")
	require.NoError(t, err)
}

func TestReconcile_CleanHistory(t *testing.T) {
	store := memory.NewStore()
	seedAccount(t, store, "acc-1", 0)
	grant(t, store, "acc-1", 40)
	spins := newSpinService(t, store, store.Spins(), 0.5)
	_, err := spins.Spin(context.Background(), "acc-1", 20)
	require.NoError(t, err)

	svc := NewReconciliationService(store.Users(), store.Spins(), store.PointTransactions(), 0)
	report, err := svc.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Empty(t, report.Discrepancies)
}

func TestReconcile_LostSpinRecord(t *testing.T) {
	store := memory.NewStore()
	seedAccount(t, store, "acc-1", 0)
	grant(t, store, "acc-1", 25)

	lossy := newSpinService(t, store, failingSpinRepository{store.Spins()}, 0.5)
	_, err := lossy.Spin(context.Background(), "acc-1", 20)
	require.ErrorIs(t, err, ErrPersistence)

	svc := NewReconciliationService(store.Users(), store.Spins(), store.PointTransactions(), 0)

	report, err := svc.Run(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, models.Discrepancy{AccountID: "acc-1", Expected: 25, Actual: 5}, report.Discrepancies[0])
	assert.Equal(t, 5, balance(t, store, "acc-1"))

	report, err = svc.Run(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, report.Discrepancies, 1)
	assert.True(t, report.Discrepancies[0].Fixed)
	assert.Equal(t, 25, balance(t, store, "acc-1"))

	report, err = svc.Run(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, report.Discrepancies)
	assert.Equal(t, 25, balance(t, store, "acc-1"))
}

func TestReconcile_RepeatedIncidentsAreEachCredited(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedAccount(t, store, "acc-1", 0)
	svc := NewReconciliationService(store.Users(), store.Spins(), store.PointTransactions(), 0)
	lossy := newSpinService(t, store, failingSpinRepository{store.Spins()}, 0.5)
	healthy := newSpinService(t, store, store.Spins(), 0.5)

	grant(t, store, "acc-1", 25)
	_, err := lossy.Spin(ctx, "acc-1", 20)
	require.ErrorIs(t, err, ErrPersistence)
	report, err := svc.Run(ctx, true)
	require.NoError(t, err)
	require.Len(t, report.Discrepancies, 1)
	require.True(t, report.Discrepancies[0].Fixed)
	require.Equal(t, 25, balance(t, store, "acc-1"))

	// Same balances as the first incident: 25 expected, 5 actual
	_, err = healthy.Spin(ctx, "acc-1", 20)
	require.NoError(t, err)
	grant(t, store, "acc-1", 20)
	_, err = lossy.Spin(ctx, "acc-1", 20)
	require.ErrorIs(t, err, ErrPersistence)

	report, err = svc.Run(ctx, true)
	require.NoError(t, err)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, models.Discrepancy{AccountID: "acc-1", Expected: 25, Actual: 5, Fixed: true}, report.Discrepancies[0])
	assert.Equal(t, 25, balance(t, store, "acc-1"))

	report, err = svc.Run(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, report.Discrepancies)
}

func TestReconcile_ConcurrentFixCreditsOnce(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedAccount(t, store, "acc-1", 0)
	grant(t, store, "acc-1", 25)
	lossy := newSpinService(t, store, failingSpinRepository{store.Spins()}, 0.5)
	_, err := lossy.Spin(ctx, "acc-1", 20)
	require.ErrorIs(t, err, ErrPersistence)

	svc := NewReconciliationService(store.Users(), store.Spins(), store.PointTransactions(), 0)
	user, err := store.Users().FindByID(ctx, "acc-1")
	require.NoError(t, err)
	observed := *user

	// Two fixers acting on the same snapshot of the mismatch
	first, err := svc.credit(ctx, &observed, 25, 0)
	require.NoError(t, err)
	second, err := svc.credit(ctx, &observed, 25, 0)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, 25, balance(t, store, "acc-1"))
}

func TestReconcile_ExcessIsReportOnly(t *testing.T) {
	store := memory.NewStore()
	// Points with no ledger entry behind them
	seedAccount(t, store, "acc-1", 30)

	svc := NewReconciliationService(store.Users(), store.Spins(), store.PointTransactions(), 0)
	report, err := svc.Run(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, report.Discrepancies, 1)
	assert.False(t, report.Discrepancies[0].Fixed)
	assert.Equal(t, 30, balance(t, store, "acc-1"))
}

func TestReconcile_SkipsRecentlyActive(t *testing.T) {
	store := memory.NewStore()
	seedAccount(t, store, "acc-1", 30)

	svc := NewReconciliationService(store.Users(), store.Spins(), store.PointTransactions(), time.Hour)
	report, err := svc.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Scanned)
	assert.Empty(t, report.Discrepancies)
}
