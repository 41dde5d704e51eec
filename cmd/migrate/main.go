package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/bootstrap"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/config"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/migrations"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/services"
	"github.com/spf13/pflag"
	"golang.org/x/exp/slog"
)

type options struct {
	job        string
	dryRun     bool
	reconcile  bool
	fix        bool
	seedAdmin  string
	adminName  string
	configPath string
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	fs.StringVar(&opts.job, "job", "", `migration job to run, or "all"`)
	fs.BoolVar(&opts.dryRun, "dry-run", false, "report what would change without writing")
	fs.BoolVar(&opts.reconcile, "reconcile", false, "compare balances with their history")
	fs.BoolVar(&opts.fix, "fix", false, "with --reconcile, credit back shortfalls")
	fs.StringVar(&opts.seedAdmin, "seed-admin", "", "create a staff account, email:password")
	fs.StringVar(&opts.adminName, "admin-name", "Event Staff", "display name for --seed-admin")
	fs.StringVar(&opts.configPath, "config", config.ConfigPath(), "directory holding config.yaml")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.job == "" && !opts.reconcile && opts.seedAdmin == "" {
		return nil, errors.New("nothing to do: pass --job, --reconcile or --seed-admin")
	}
	if opts.fix && !opts.reconcile {
		return nil, errors.New("--fix requires --reconcile")
	}
	return opts, nil
}

// parseSeedAdmin splits email:password. The password may itself contain colons.
func parseSeedAdmin(value string) (string, string, error) {
	email, password, ok := strings.Cut(value, ":")
	if !ok || email == "" || password == "" {
		return "", "", fmt.Errorf("--seed-admin must be email:password, got %q", value)
	}
	return email, password, nil
}

// selectJobs resolves the --job flag
func selectJobs(name string, prizes migrations.PrizeLookup) ([]migrations.Job, error) {
	all := migrations.All(prizes)
	if name == "all" {
		return all, nil
	}
	job, err := migrations.Find(all, name)
	if err != nil {
		return nil, err
	}
	return []migrations.Job{job}, nil
}

func main() {
	config.LoadDotEnv()
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		slog.Error("Migrate failed", "error", err)
		os.Exit(1)
	}
}

func run(opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	bootstrap.SetupLogger(cfg)

	ctx := context.Background()
	repos, err := bootstrap.OpenRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close(ctx)

	svc, err := bootstrap.NewServices(cfg, repos)
	if err != nil {
		return err
	}

	if opts.seedAdmin != "" {
		if err := seedAdmin(ctx, svc.Auth, opts.seedAdmin, opts.adminName); err != nil {
			return err
		}
	}

	if opts.job != "" {
		if repos.DB == nil {
			return errors.New("migrations need the mongodb storage driver")
		}
		jobs, err := selectJobs(opts.job, svc.Prizes)
		if err != nil {
			return err
		}
		runner := migrations.NewRunner(repos.DB)
		for _, job := range jobs {
			result, err := runner.Run(ctx, job, opts.dryRun)
			if err != nil {
				return err
			}
			printJSON(result)
		}
	}

	if opts.reconcile {
		report, err := svc.Reconciliation.Run(ctx, opts.fix)
		if err != nil {
			return err
		}
		printJSON(report)
	}
	return nil
}

func seedAdmin(ctx context.Context, auth services.AuthService, value, displayName string) error {
	email, password, err := parseSeedAdmin(value)
	if err != nil {
		return err
	}
	admin, err := auth.CreateAdmin(ctx, email, password, displayName)
	if errors.Is(err, services.ErrAdminExists) {
		slog.Info("Staff account already exists", "email", email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to seed staff account: %w", err)
	}
	slog.Info("Staff account created", "email", admin.Email)
	return nil
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		slog.Error("Failed to print result", "error", err)
	}
}
