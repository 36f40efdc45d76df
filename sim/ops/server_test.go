package ops

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalsim/vitalsim/sim"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.ErrorLevel)
	}
	os.Exit(m.Run())
}

func startTestServer(t *testing.T) *Server {
	t.Helper()

	srv, err := NewServer("127.0.0.1:0", func() sim.Status {
		return sim.Status{Patients: 12, Sink: "console", UptimeSeconds: 3.5, ReadingsDelivered: 99}
	})
	require.NoError(t, err)
	srv.Start()
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func TestServer_Healthz(t *testing.T) {
	srv := startTestServer(t)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", srv.Addr()))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestServer_StatusReportsSnapshot(t *testing.T) {
	srv := startTestServer(t)

	resp, err := http.Get(fmt.Sprintf("http://%s/status", srv.Addr()))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var st sim.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, 12, st.Patients)
	assert.Equal(t, "console", st.Sink)
	assert.Equal(t, int64(99), st.ReadingsDelivered)
}

func TestServer_MetricsExposition(t *testing.T) {
	srv := startTestServer(t)

	resp, err := http.Get(fmt.Sprintf("http://%s/metrics", srv.Addr()))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	// The default registry always carries the Go runtime collectors.
	assert.Contains(t, string(body), "go_goroutines")
}

func TestServer_UnknownMethodRejected(t *testing.T) {
	srv := startTestServer(t)

	resp, err := http.Post(fmt.Sprintf("http://%s/healthz", srv.Addr()), "text/plain", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestNewServer_BadAddressFails(t *testing.T) {
	_, err := NewServer("not-an-address", func() sim.Status { return sim.Status{} })
	assert.Error(t, err)
}
