package display

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/labaccess/internal/client/metrics"
	"github.com/dmitrijs2005/labaccess/internal/clockx"
	"github.com/dmitrijs2005/labaccess/internal/logging"
	"github.com/dmitrijs2005/labaccess/internal/qr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ana = qr.Identity{Name: "Ana", Surname: "Lee", Email: "ana@x.com", UserType: qr.UserTypeStudent}

type errSource struct{}

func (errSource) Payload() (string, error) { return "", errors.New("boom") }

func setup(t *testing.T) (*httptest.Server, *qr.Manager, *clockx.Fake) {
	t.Helper()
	m := metrics.New()
	clock := clockx.NewFake(time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC))
	mgr, err := qr.NewManager(qr.WithClock(clock), qr.WithObserver(m))
	require.NoError(t, err)
	t.Cleanup(mgr.Close)

	app := httptest.NewServer(NewServer(mgr, m.Handler(), logging.Discard()).Router())
	t.Cleanup(app.Close)
	return app, mgr, clock
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealth(t *testing.T) {
	app, _, _ := setup(t)
	resp, body := get(t, app.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestPayload_NothingIssued(t *testing.T) {
	app, _, _ := setup(t)

	resp, body := get(t, app.URL+"/payload")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"no_qr"}`, string(body))

	resp, _ = get(t, app.URL+"/qr.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPayload_FollowsLifecycle(t *testing.T) {
	app, mgr, clock := setup(t)
	mgr.Issue(ana, false)

	resp, body := get(t, app.URL+"/payload")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	p, err := qr.ParsePayload(string(body))
	require.NoError(t, err)
	assert.Equal(t, qr.StatusValid, p.Status)

	clock.Advance(16 * time.Second)

	_, body = get(t, app.URL+"/payload")
	p, err = qr.ParsePayload(string(body))
	require.NoError(t, err)
	assert.Equal(t, qr.StatusExpired, p.Status)
	assert.True(t, p.Expired)
}

func TestQRPNG(t *testing.T) {
	app, mgr, clock := setup(t)
	mgr.Issue(ana, false)

	resp, valid := get(t, app.URL+"/qr.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	_, err := png.Decode(bytes.NewReader(valid))
	require.NoError(t, err)

	clock.Advance(16 * time.Second)
	_, expired := get(t, app.URL+"/qr.png")
	assert.NotEqual(t, valid, expired, "expired codes use the dimmed palette")
}

func TestMetricsMounted(t *testing.T) {
	app, mgr, _ := setup(t)
	mgr.Issue(ana, true)

	resp, body := get(t, app.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "labaccess_qr_valid 1")
}

func TestSourceError(t *testing.T) {
	app := httptest.NewServer(NewServer(errSource{}, nil, logging.Discard()).Router())
	defer app.Close()

	resp, _ := get(t, app.URL+"/payload")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, _ = get(t, app.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServer(errSource{}, nil, logging.Discard()).Run(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
