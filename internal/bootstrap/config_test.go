package bootstrap

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/target/finance-auth-client/config"
)

func TestInitLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(&buf, config.LoggingConfig{Level: "warn", Format: "json"})

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}
