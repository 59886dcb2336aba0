package utils

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger at the named level
func NewLogger(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l, nil
}

// ParticipantLog tags every entry with the participant and the workload
func ParticipantLog(l *logrus.Logger, rank, size int, workload string) *logrus.Entry {
	return l.WithFields(logrus.Fields{
		"participant": fmt.Sprintf("%d/%d", rank, size),
		"workload":    workload,
	})
}
