package logging_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"ssi/internal/logging"
)

func TestCreateLogger(t *testing.T) {
	tests := []struct {
		name           string
		level          logging.LogLevel
		format         logging.LogFormat
		wantErr        bool
		wantStructured bool
	}{
		{name: "debug structured", level: logging.LogLevelDebug, format: logging.LogFormatStructured, wantStructured: true},
		{name: "warn structured", level: logging.LogLevelWarn, format: logging.LogFormatStructured, wantStructured: true},
		{name: "info console", level: logging.LogLevelInfo, format: logging.LogFormatConsole},
		{name: "unsupported level", level: logging.LogLevel("loud"), format: logging.LogFormatConsole, wantErr: true},
		{name: "unsupported format", level: logging.LogLevelInfo, format: logging.LogFormat("xml"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, w, err := os.Pipe()
			require.NoError(t, err)
			stderr := os.Stderr
			os.Stderr = w

			logger, err := logging.NewLoggerFactory().CreateLogger(tt.level, tt.format)

			os.Stderr = stderr

			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, logger)
				require.NoError(t, w.Close())
				require.NoError(t, r.Close())
				return
			}
			require.NoError(t, err)

			logger.Warn("logger factory test message")
			_ = logger.Sync()
			require.NoError(t, w.Close())

			captured, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())

			line := bytes.TrimSpace(captured)
			require.Contains(t, string(line), "logger factory test message")
			require.Equal(t, tt.wantStructured, json.Valid(line))
		})
	}
}
