package logging_test

import (
	"testing"

	"burger-storefront/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantLevel logrus.Level
		wantJSON  bool
	}{
		{name: "debug json", level: "debug", format: "json", wantLevel: logrus.DebugLevel, wantJSON: true},
		{name: "warn text", level: "warn", format: "text", wantLevel: logrus.WarnLevel},
		{name: "unknown level", level: "loud", format: "", wantLevel: logrus.InfoLevel},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			logger := logging.New(testCase.level, testCase.format)
			assert.Equal(t, testCase.wantLevel, logger.GetLevel())
			_, isJSON := logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, testCase.wantJSON, isJSON)
		})
	}
}

func TestComponent_NilLogger(t *testing.T) {
	entry := logging.Component(nil, "catalog")
	assert.NotNil(t, entry)
	entry.Info("discarded")
}
