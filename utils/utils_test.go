package utils

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger("debug", &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	ParticipantLog(l, 2, 4, "stencil").Debug("hello")
	assert.Contains(t, buf.String(), "participant=2/4")
	assert.Contains(t, buf.String(), "workload=stencil")

	_, err = NewLogger("loud", &buf)
	assert.Error(t, err)
}

func TestCreateDeviceNotWanted(t *testing.T) {
	l, err := NewLogger("error", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Nil(t, CreateDevice(false, logrus.NewEntry(l)))
}
