package main

import (
	"beat-planning-service/internal/adapters/repositories"
	"beat-planning-service/internal/config"
	"beat-planning-service/internal/platform/db"
	"beat-planning-service/internal/platform/obs"
	"beat-planning-service/internal/state"
	"context"
	"database/sql"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootCmd is the state maintenance tool
var rootCmd = &cobra.Command{
	Use:   "dbtool",
	Short: "Maintain the beat-planning state store",
	Long: `Maintain the persisted beat-planning state.

The database is chosen like the server does: DATABASE_URL when set,
otherwise the SQLite file at DB_PATH. The state lives under STATE_KEY.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		l, err := obs.NewLogger(level, true)
		if err != nil {
			return err
		}
		obs.SetLogger(l)
		return nil
	},
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log database operations")

	rootCmd.AddCommand(initCmd, importCmd, exportCmd, dumpCmd, restoreCmd, resetCmd, tokenCmd)
}

// env is what most commands need: the config, an open database and the
// state loaded from it.
type env struct {
	cfg   *config.Config
	conn  *sql.DB
	store *state.Store
}

func (e *env) Close() error { return e.conn.Close() }

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, err
	}

	conn, dialect, err := db.Open(ctx, cfg.DatabaseURL, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		conn.Close()
		return nil, err
	}

	repo, err := repositories.NewStateRepository(conn, dialect, cfg.StateKey)
	if err != nil {
		conn.Close()
		return nil, err
	}

	store := state.New(state.WithRepository(repo), state.WithLogger(obs.L().Named("state")))
	if err := store.Load(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	obs.L().Debug("database ready", zap.String("dialect", string(dialect)), zap.String("key", cfg.StateKey))
	return &env{cfg: cfg, conn: conn, store: store}, nil
}
