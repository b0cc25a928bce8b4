package reditio_test

import (
	"bytes"
	"log/slog"
	"testing"

	reditio "github.com/MatthewScholefield/Reditio"
	"github.com/stretchr/testify/assert"
)

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	l := reditio.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	l.Info("opened", "codec", "json")
	l.Warn("slow")
	l.Error("failed", "op", "get")
	l.Debug("command failed", "key", "k")

	out := buf.String()
	assert.Contains(t, out, "level=INFO msg=opened component=reditio codec=json")
	assert.Contains(t, out, "level=WARN msg=slow")
	assert.Contains(t, out, "level=ERROR msg=failed component=reditio op=get")
	assert.Contains(t, out, "level=DEBUG")

	var _ reditio.Logger = reditio.NewSlogLogger(nil)
}
