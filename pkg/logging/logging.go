package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds the logger shared by the command layer and the dispatcher.
// Level accepts the usual logrus names; anything unparseable falls back to
// info rather than failing startup over a cosmetic setting.
func New(out io.Writer, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}
