package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		conf  Config
		check func(l *logrus.Logger, out *bytes.Buffer)
	}{
		{
			name: "json",
			conf: Config{Level: "debug", Format: "json"},
			check: func(l *logrus.Logger, out *bytes.Buffer) {
				assert.Equal(t, logrus.DebugLevel, l.GetLevel())
				l.WithField("stage", "scale").Debug("could not compute fare")

				var entry map[string]interface{}
				require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
				assert.Equal(t, "could not compute fare", entry["message"])
				assert.Equal(t, "debug", entry["level"])
				assert.Equal(t, "scale", entry["stage"])
				assert.Contains(t, entry, "timestamp")
			},
		},
		{
			name: "text",
			conf: Config{Level: "warn", Format: "text"},
			check: func(l *logrus.Logger, out *bytes.Buffer) {
				assert.Equal(t, logrus.WarnLevel, l.GetLevel())
				l.Info("dropped")
				assert.Empty(t, out.String())
				l.Warn("kept")
				assert.Contains(t, out.String(), "msg=kept")
			},
		},
		{
			name: "unknown level falls back to info",
			conf: Config{Level: "chatty"},
			check: func(l *logrus.Logger, out *bytes.Buffer) {
				assert.Equal(t, logrus.InfoLevel, l.GetLevel())
				assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			test.conf.Output = out
			test.check(New(test.conf), out)
		})
	}
}
