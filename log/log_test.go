package log

import (
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestSetLevel(t *testing.T) {
	prev := logrus.GetLevel()
	defer logrus.SetLevel(prev)

	require.NoError(t, SetLevel("debug"))
	require.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	require.Error(t, SetLevel("loud"))
	require.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestModuleLogger_MismatchedPairs(t *testing.T) {
	require.Panics(t, func() {
		ModuleLogger("test").Info("message", "dangling")
	})
}
