package app_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wirecore/internal/app"
	"wirecore/internal/domain"
	"wirecore/internal/store"
)

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wirecore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend_url: https://backend.example
email: alice@example.com
max_login_retries: 2
request_timeout: 5s
client:
  class: phone
log:
  format: json
`), 0o600))
	t.Setenv("WIRECORE_EMAIL", "bob@example.com")
	t.Setenv("WIRECORE_CLIENT_MODEL", "cli-test")

	cfg, err := app.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://backend.example", cfg.BackendURL)
	assert.Equal(t, "bob@example.com", cfg.Email)
	assert.Equal(t, 2, cfg.MaxLoginRetries)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "phone", cfg.Client.Class)
	assert.Equal(t, "cli-test", cfg.Client.Model)
	assert.Equal(t, "permanent", cfg.Client.Type)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 100, cfg.InitialPreKeys)
}

func TestLoad_EnvOnlyDefaults(t *testing.T) {
	cfg, err := app.Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080", cfg.BackendURL)
	assert.Equal(t, 1, cfg.MaxLoginRetries)
	assert.Equal(t, app.SessionStoreFile, cfg.SessionStore)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestPrepare_PersistsCookieLabel(t *testing.T) {
	home := filepath.Join(t.TempDir(), "wc")
	cfg := app.Config{Home: home, BackendURL: "http://b"}
	require.NoError(t, cfg.Prepare())

	assert.DirExists(t, home)
	assert.NotEmpty(t, cfg.CookieLabel)
	assert.Equal(t, "http://b", cfg.WebsocketURL)

	again := app.Config{Home: home}
	require.NoError(t, again.Prepare())
	assert.Equal(t, cfg.CookieLabel, again.CookieLabel)
}

func TestNewSession_FromConfig(t *testing.T) {
	cfg := app.Config{
		BackendURL:  "http://b",
		Email:       "alice@example.com",
		Password:    "pw",
		CookieLabel: "label",
		Client:      app.ClientConfig{Type: "temporary", Class: "tablet", Model: "m"},
	}
	s := cfg.NewSession()

	assert.Equal(t, "alice@example.com", s.Credentials.Email)
	assert.Equal(t, "label", s.ClientInfo.Cookie)
	assert.Equal(t, "tablet", s.ClientInfo.Class)
	assert.False(t, s.Ready())
}

func newWire(t *testing.T) *app.Wire {
	t.Helper()
	cfg := app.Config{
		Home:         t.TempDir(),
		BackendURL:   "http://127.0.0.1:1",
		Email:        "alice@example.com",
		Password:     "pw",
		Passphrase:   "pp",
		SessionStore: app.SessionStoreFile,
	}
	require.NoError(t, cfg.Prepare())
	w, err := app.NewWire(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestWire_SessionRoundTripKeepsConfigCredentials(t *testing.T) {
	w := newWire(t)

	s, err := w.LoadSession()
	require.NoError(t, err)
	assert.False(t, s.Ready())

	s.AccessToken = "tok"
	s.Client = &domain.ClientRecord{ID: "c1"}
	require.NoError(t, w.SaveSession(s))

	loaded, err := w.LoadSession()
	require.NoError(t, err)
	assert.True(t, loaded.Ready())
	assert.Equal(t, "pw", loaded.Credentials.Password)

	require.NoError(t, w.ForgetSession())
	loaded, err = w.LoadSession()
	require.NoError(t, err)
	assert.False(t, loaded.Ready())
}

func TestNewWire_SessionStoreKinds(t *testing.T) {
	cfg := app.Config{Home: t.TempDir(), SessionStore: app.SessionStoreRedis, Redis: app.RedisConfig{Addr: "127.0.0.1:1"}}
	w, err := app.NewWire(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &store.RedisSessionStore{}, w.Sessions)
	require.NoError(t, w.Close())

	cfg.SessionStore = "etcd"
	_, err = app.NewWire(cfg, nil)
	assert.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() {
		logrus.SetOutput(os.Stderr)
		logrus.SetFormatter(&logrus.TextFormatter{})
		logrus.SetLevel(logrus.InfoLevel)
	})
	var buf bytes.Buffer
	require.NoError(t, app.SetupLogging(app.LogConfig{Level: "debug", Format: "json"}, &buf))
	logrus.WithField("component", "test").Debug("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	assert.Error(t, app.SetupLogging(app.LogConfig{Level: "loud"}, nil))
	assert.Error(t, app.SetupLogging(app.LogConfig{Level: "info", Format: "xml"}, nil))
}
