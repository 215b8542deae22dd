package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivanoskov/warehouse/internal/charts"
	"github.com/ivanoskov/warehouse/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "warehouse.yaml")
	content := "store: memory\ncache_ttl: 0s\nseed_categories:\n  - Hardware\n  - Tools\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("WAREHOUSE_STORE", "")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", writeConfig(t)}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestProductsEmpty(t *testing.T) {
	out, err := run(t, "products")
	require.NoError(t, err)
	assert.Contains(t, out, "store is empty")
}

func TestCategories(t *testing.T) {
	out, err := run(t, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Hardware")
	assert.Contains(t, out, "Tools")
}

func TestAdd(t *testing.T) {
	out, err := run(t, "add", "Bolt", "100", "0.5", "Hardware")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Bolt")
	assert.Contains(t, lines[1], "Hardware")
	assert.Contains(t, lines[2], "TOTAL")
	assert.Contains(t, lines[2], "50")
}

func TestAddErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "bad quantity", args: []string{"add", "Bolt", "x", "0.5", "Hardware"}},
		{name: "bad price", args: []string{"add", "Bolt", "1", "y", "Hardware"}},
		{name: "unknown category", args: []string{"add", "Bolt", "1", "1", "Garden"}},
		{name: "empty name", args: []string{"add", " ", "1", "1", "Hardware"}},
		{name: "bad id", args: []string{"delete", "abc"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, tc.args...)
			assert.Error(t, err)
		})
	}
}

func TestExportToStdout(t *testing.T) {
	out, err := run(t, "export", "--output", "-")
	require.NoError(t, err)
	assert.Equal(t, strings.Join(export.Columns, ",")+"\n", out)
}

func TestExportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	out, err := run(t, "export", "--format", "xlsx", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "written "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestChartNoData(t *testing.T) {
	_, err := run(t, "chart", "--output", "-")
	assert.ErrorIs(t, err, charts.ErrNoData)
}

func TestMissingSecretsFail(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_KEY", "")
	t.Setenv("WAREHOUSE_STORE", "")
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", "", "products"})

	assert.Error(t, cmd.Execute())
}
