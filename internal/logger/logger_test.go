package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProdIsJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewTo(&buf, "prod")
	log.Debug("hidden")
	log.Info("shown", "k", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "prod", rec["env"])
	assert.Equal(t, service, rec["service"])
}

func TestDevIsTextAtDebug(t *testing.T) {
	var buf bytes.Buffer
	NewTo(&buf, "dev").Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}
