package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRecorder(t *testing.T) {
	m := New()
	m.WindowOpened("Notepad")
	m.WindowOpened("Photos")
	m.WindowClosed("Photos")
	m.CloseVetoed()
	m.WindowSnapped("left")
	m.ObserveIPC("FOCUS", "OK", 0.001)

	out := scrape(t, m)
	assert.Contains(t, out, "deskshell_windows_open 1")
	assert.Contains(t, out, `deskshell_windows_opened_total{component="Notepad"} 1`)
	assert.Contains(t, out, "deskshell_close_vetoes_total 1")
	assert.Contains(t, out, `deskshell_snaps_total{zone="left"} 1`)
	assert.Contains(t, out, `deskshell_ipc_requests_total{command="FOCUS",status="OK"} 1`)
	assert.Contains(t, out, "go_goroutines")
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.CloseVetoed()
	assert.Contains(t, scrape(t, b), "deskshell_close_vetoes_total 0")
}
