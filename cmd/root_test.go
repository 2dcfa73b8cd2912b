package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"wizard", "estimate", "catalog", "impact"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "kitchen-estimator", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestEstimateCommand_Flags(t *testing.T) {
	flag := estimateCmd.Flags().Lookup("answers")
	require.NotNil(t, flag, "estimate command should have --answers flag")

	format := estimateCmd.Flags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "table", format.DefValue)
}

func TestImpactCommand_Flags(t *testing.T) {
	require.NotNil(t, impactCmd.Flags().Lookup("question"))
	require.NotNil(t, impactCmd.Flags().Lookup("answers"))
}

// inTempDir runs the test from an empty directory so no config.yaml or
// .env is picked up.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestRootCmd_PersistentPreRunE_NoConfigFile(t *testing.T) {
	inTempDir(t)

	oldCfg, oldCat := cfg, cat
	cfg, cat = nil, nil
	defer func() { cfg, cat = oldCfg, oldCat }()

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.NotNil(t, cat)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Len(t, cat.Questions, 11)
}

func TestRootCmd_PersistentPreRunE_BadLogLevel(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: loud\n"), 0o644))

	oldCfg, oldCat := cfg, cat
	defer func() { cfg, cat = oldCfg, oldCat }()

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init logger")
}

func TestRootCmd_PersistentPreRunE_InvalidConfig(t *testing.T) {
	inTempDir(t)
	t.Setenv("KITCHEN_DISPLAY_COLOR", "rainbow")

	oldCfg, oldCat := cfg, cat
	defer func() { cfg, cat = oldCfg, oldCat }()

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "display.color")
}

func TestRootCmd_PersistentPreRunE_MissingCatalog(t *testing.T) {
	inTempDir(t)
	t.Setenv("KITCHEN_CATALOG_PATH", "missing.yaml")

	oldCfg, oldCat := cfg, cat
	defer func() { cfg, cat = oldCfg, oldCat }()

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load catalog")
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}
