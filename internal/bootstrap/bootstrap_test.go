package bootstrap

import (
	"context"
	"testing"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/config"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		JWT:     config.JWTConfig{Secret: "secret", Issuer: "wheel", ExpiresIn: 3600},
		Wheel:   config.WheelConfig{SpinCost: 20, VotePoints: 10},
		Storage: config.StorageConfig{Driver: config.StorageMemory},
	}
}

func TestPrizeTable_DefaultsWhenUnset(t *testing.T) {
	table, err := PrizeTable(memoryConfig())
	require.NoError(t, err)
	assert.Equal(t, services.DefaultPrizes(), table.Prizes())
}

func TestPrizeTable_RejectsInvalid(t *testing.T) {
	cfg := memoryConfig()
	cfg.Wheel.Prizes = []models.PrizeDefinition{{Label: "Broken", Weight: 0}}

	_, err := PrizeTable(cfg)
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestOpenRepositories_UnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Driver = "sqlite"

	_, err := OpenRepositories(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewServices_Memory(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()

	repos, err := OpenRepositories(ctx, cfg)
	require.NoError(t, err)
	defer repos.Close(ctx)
	assert.Nil(t, repos.DB)

	svc, err := NewServices(cfg, repos)
	require.NoError(t, err)

	_, err = svc.User.EnsureAccount(ctx, models.Identity{AccountID: "acc-1", DisplayName: "Ada"})
	require.NoError(t, err)
	_, err = svc.User.GrantPoints(ctx, "acc-1", 25, "staff@example.com")
	require.NoError(t, err)

	record, err := svc.Spin.Spin(ctx, "acc-1", svc.Spin.Cost())
	require.NoError(t, err)
	assert.NotEmpty(t, record.ClaimTicketID)

	account, err := svc.User.GetAccount(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, 5, account.Points)
}
