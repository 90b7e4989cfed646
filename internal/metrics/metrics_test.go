package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAndTextfile(t *testing.T) {
	t.Parallel()
	m := New()
	m.Attempts.WithLabelValues("success").Inc()
	m.Attempts.WithLabelValues("failure").Add(2)
	m.Active.Set(1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Attempts.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Attempts.WithLabelValues("failure")))

	path := filepath.Join(t.TempDir(), "remindbot.prom")
	require.NoError(t, m.WriteTextfile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `remindbot_attempts_total{result="failure"} 2`)
	assert.Contains(t, string(b), "remindbot_active 1")
}
