package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"migrate", "createsuperuser"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestCreateSuperuserRequiresFlags(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"createsuperuser", "--username", "root"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"email" not set`)
}

func TestLoadConfigFlagOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/yamdb")
	dbURL = "postgres://flag/yamdb"
	t.Cleanup(func() { dbURL = "" })

	cfg := loadConfig()
	assert.Equal(t, "postgres://flag/yamdb", cfg.DatabaseURL)
	assert.Equal(t, "postgres", cfg.Storage)
}
