package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestImportDumpRestoreReset(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_PATH", filepath.Join(dir, "state.db"))
	t.Setenv("STATE_KEY", "cli-test")
	t.Setenv("ESTIMATOR_SEED", "7")

	plan := filepath.Join(dir, "plan.csv")
	require.NoError(t, os.WriteFile(plan, []byte("salespersonId,lat,lng\nsp_1,1,2\nsp_1,x,2\nsp_2,3,4\n"), 0o644))

	assert.Contains(t, runCLI(t, "init"), "Schema ready (sqlite)")
	assert.Equal(t, "Imported 2 routes, 2 stops (1 rows dropped).\n", runCLI(t, "import", plan))

	dumpPath := filepath.Join(dir, "dump.json")
	runCLI(t, "dump", "--out", dumpPath)
	dumped, err := os.ReadFile(dumpPath)
	require.NoError(t, err)
	assert.Equal(t, int64(2), gjson.GetBytes(dumped, "state.routes.#").Int())
	assert.Equal(t, int64(0), gjson.GetBytes(dumped, "version").Int())

	assert.Equal(t, "State cleared.\n", runCLI(t, "reset"))
	assert.Equal(t, "Restored 0 salespeople, 2 routes, 0 assignments.\n", runCLI(t, "restore", dumpPath))

	csv := runCLI(t, "export", "enrolled", "--out", "")
	assert.Equal(t, "id,name,contact,start_lat,start_lng,starting_point\n", csv)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	out := strings.TrimSpace(runCLI(t, "token", "--role", "sales", "--user", "asha"))
	assert.Equal(t, 2, strings.Count(out, "."))
}
