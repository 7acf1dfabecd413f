package main

import (
	"beat-planning-service/internal/adapters/csvrows"
	"beat-planning-service/internal/adapters/repositories"
	"beat-planning-service/internal/auth"
	"beat-planning-service/internal/config"
	"beat-planning-service/internal/platform/db"
	"beat-planning-service/internal/services"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the state table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Read()
		if err != nil {
			return err
		}

		conn, dialect, err := db.Open(cmd.Context(), cfg.DatabaseURL, cfg.DBPath)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := repositories.InitSchema(cmd.Context(), conn, dialect); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Schema ready (%s).\n", dialect)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <plan.csv|plan.xlsx>",
	Short: "Group a beat-plan sheet into routes and store them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		defer f.Close()

		rows, err := csvrows.Read(args[0], f)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}

		estimator, err := services.NewEstimator(e.cfg.Estimator)
		if err != nil {
			return err
		}

		res, err := services.ImportBeatPlan(cmd.Context(), rows, estimator, e.store)
		if err != nil {
			return err
		}

		stops := 0
		for _, r := range res.Routes {
			stops += len(r.Stops)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d routes, %d stops (%d rows dropped).\n",
			len(res.Routes), stops, res.DroppedRows)
		return nil
	},
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:       "export <enrolled|assignments>",
	Short:     "Write enrolled.csv or assignments.csv",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"enrolled", "assignments"},
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		var b []byte
		switch args[0] {
		case "enrolled":
			b, err = services.EnrolledCSV(e.store.Salespeople())
		case "assignments":
			b, err = services.AssignmentsCSV(e.store.Salespeople())
		}
		if err != nil {
			return err
		}

		return writeOut(cmd.OutOrStdout(), exportOut, b)
	},
}

var dumpOut string

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the persisted state blob",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		b, err := e.store.Export()
		if err != nil {
			return err
		}
		return writeOut(cmd.OutOrStdout(), dumpOut, append(b, '\n'))
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <state.json>",
	Short: "Replace the state with a dumped blob",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		b, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		if err := e.store.Restore(cmd.Context(), b); err != nil {
			return err
		}

		snap := e.store.Snapshot()
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %d salespeople, %d routes, %d assignments.\n",
			len(snap.Salespeople), len(snap.Routes), len(snap.Assignments))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear salespeople, routes, assignments and the last solution",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.store.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "State cleared.")
		return nil
	},
}

var (
	tokenUser string
	tokenRole string
	tokenUID  int
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a development bearer token with JWT_SECRET",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Read()
		if err != nil {
			return err
		}

		v, err := auth.NewVerifier(cfg.JWTSecret)
		if err != nil {
			return fmt.Errorf("token: JWT_SECRET: %w", err)
		}

		role := auth.Role(tokenRole)
		if !auth.Allowed(role) {
			return fmt.Errorf("token: unknown role %q", tokenRole)
		}

		tok, err := v.Issue(tokenUser, role, tokenUID, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write to file instead of stdout")
	dumpCmd.Flags().StringVarP(&dumpOut, "out", "o", "", "write to file instead of stdout")

	tokenCmd.Flags().StringVar(&tokenUser, "user", "dev", "username (sub claim)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(auth.RoleManager), "sales, manager or admin")
	tokenCmd.Flags().IntVar(&tokenUID, "uid", 1, "user id (uid claim)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}

func writeOut(stdout io.Writer, path string, b []byte) error {
	if path == "" {
		_, err := stdout.Write(b)
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}
