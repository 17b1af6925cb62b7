package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pandenic/media-review-board/internal/config"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestOpenMemory(t *testing.T) {
	cfg := config.Config{Storage: StorageMemory, JWTSecret: "s", Workers: 1, MinScore: 1, MaxScore: 10}
	a, err := Open(context.Background(), cfg, discard())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Pool)
	assert.NotNil(t, a.Repos.Users)
	assert.NotNil(t, a.Reviews)
}

func TestOpenRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"unknown storage", config.Config{Storage: "sqlite", MinScore: 1, MaxScore: 10}},
		{"inverted bounds", config.Config{Storage: StorageMemory, MinScore: 10, MaxScore: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Open(context.Background(), tc.cfg, discard())
			assert.Error(t, err)
		})
	}
}
