// Package bootstrap wires configuration into repositories and services for
// the binaries under cmd/.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/config"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/repositories"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/bridgetunes-event-wheel/internal/repositories/mongodb"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/services"
	"github.com/ArowuTest/bridgetunes-event-wheel/pkg/jwt"
	"github.com/ArowuTest/bridgetunes-event-wheel/pkg/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Repositories is the full set of stores for one storage driver
type Repositories struct {
	Users             repositories.UserRepository
	Spins             repositories.SpinRepository
	PointTransactions repositories.PointTransactionRepository
	Events            repositories.EventRepository
	Votes             repositories.VoteRepository
	AdminUsers        repositories.AdminUserRepository

	// DB is nil for the memory driver
	DB *mongo.Database

	client *mongodb.Client
}

// Close releases the database connection, if any
func (r *Repositories) Close(ctx context.Context) {
	if r.client == nil {
		return
	}
	if err := r.client.Disconnect(ctx); err != nil {
		slog.Error("Error disconnecting from MongoDB", "error", err)
	}
}

// OpenRepositories builds the repositories for cfg.Storage.Driver. The Mongo
// driver connects, pings and ensures indexes before returning.
func OpenRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		return &Repositories{
			Users:             store.Users(),
			Spins:             store.Spins(),
			PointTransactions: store.PointTransactions(),
			Events:            store.Events(),
			Votes:             store.Votes(),
			AdminUsers:        store.AdminUsers(),
		}, nil
	case config.StorageMongoDB:
		timeout := time.Duration(cfg.MongoDB.TimeoutSeconds) * time.Second
		client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		db := client.Database(cfg.MongoDB.Database)
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("failed to ensure indexes: %w", err)
		}
		return &Repositories{
			Users:             mongorepo.NewUserRepository(db),
			Spins:             mongorepo.NewSpinRepository(db),
			PointTransactions: mongorepo.NewPointTransactionRepository(db),
			Events:            mongorepo.NewEventRepository(db),
			Votes:             mongorepo.NewVoteRepository(db),
			AdminUsers:        mongorepo.NewAdminUserRepository(db),
			DB:                db,
			client:            client,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// PrizeTable builds the configured prize table, falling back to the default
// wheel when none is configured
func PrizeTable(cfg *config.Config) (*services.PrizeTable, error) {
	prizes := cfg.Wheel.Prizes
	if len(prizes) == 0 {
		prizes = services.DefaultPrizes()
	}
	table, err := services.NewPrizeTable(prizes)
	if err != nil {
		return nil, fmt.Errorf("invalid prize table: %w", err)
	}
	return table, nil
}

// Services holds every service the binaries use
type Services struct {
	Spin           *services.SpinServiceImpl
	User           *services.UserServiceImpl
	Event          *services.EventServiceImpl
	Auth           services.AuthService
	Reconciliation *services.ReconciliationServiceImpl
	Tokens         *jwt.TokenService
	Prizes         *services.PrizeTable
}

// NewServices builds the services over repos
func NewServices(cfg *config.Config, repos *Repositories) (*Services, error) {
	prizes, err := PrizeTable(cfg)
	if err != nil {
		return nil, err
	}
	tokens := jwt.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.ExpiresIn)*time.Second)

	return &Services{
		Spin:           services.NewSpinService(repos.Users, repos.Spins, prizes, nil, cfg.Wheel.SpinCost, cfg.Wheel.PresentationDelay()),
		User:           services.NewUserService(repos.Users, repos.Spins, repos.PointTransactions),
		Event:          services.NewEventService(repos.Events, repos.Votes, repos.Users, repos.PointTransactions, cfg.Wheel.VotePoints),
		Auth:           services.NewAuthService(repos.AdminUsers, tokens),
		Reconciliation: services.NewReconciliationService(repos.Users, repos.Spins, repos.PointTransactions, cfg.Reconciliation.Grace()),
		Tokens:         tokens,
		Prizes:         prizes,
	}, nil
}

// SetupLogger installs the default slog logger at the configured level
func SetupLogger(cfg *config.Config) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.ParseLogLevel(cfg.LogLevel)})
	slog.SetDefault(slog.New(handler))
}
