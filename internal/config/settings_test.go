package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the default config location at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("LOCALAPPDATA", dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	s, err := Load("", nil)
	require.NoError(t, err)

	want := Defaults()
	assert.Equal(t, &want, s)
	assert.Equal(t, "0.0.0.0:8080", s.Addr())
	assert.False(t, s.TLS())
	assert.Equal(t, 3000*time.Millisecond, s.SubmitDelay)
	assert.Equal(t, 3500*time.Millisecond, s.SuccessDelay)
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "site.yaml")
	writeFile(t, path, strings.Join([]string{
		"port: 9000",
		"host: 127.0.0.1",
		"submit-delay: 1s",
		"inquiry-sink: log",
	}, "\n"))

	t.Setenv("COACHSITE_PORT", "9100")
	t.Setenv("COACHSITE_SUCCESS_DELAY", "2s")

	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--port", "9200"}))

	s, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, 9200, s.Port, "flag beats env and file")
	assert.Equal(t, "127.0.0.1", s.Host, "file beats default")
	assert.Equal(t, time.Second, s.SubmitDelay)
	assert.Equal(t, 2*time.Second, s.SuccessDelay, "env beats default")
	assert.Equal(t, "log", s.InquirySink)
	assert.Equal(t, "coachsite", s.InstanceName, "unchanged flag keeps default")
}

func TestLoadDefaultConfigFile(t *testing.T) {
	dir := isolate(t)
	if runtime.GOOS != "linux" {
		t.Skip("default path layout checked on linux only")
	}
	writeFile(t, filepath.Join(dir, "coachsite", "config.yaml"), "announce: true\ninstance-name: studio\n")

	s, err := Load("", nil)
	require.NoError(t, err)
	assert.True(t, s.Announce)
	assert.Equal(t, "studio", s.InstanceName)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"defaults", func(*Settings) {}, ""},
		{"port out of range", func(s *Settings) { s.Port = 70000 }, "port 70000 out of range"},
		{"cert without key", func(s *Settings) { s.CertPath = "server.crt" }, "cert and key must be set together"},
		{"zero submit delay", func(s *Settings) { s.SubmitDelay = 0 }, "submit-delay must be positive"},
		{"negative success delay", func(s *Settings) { s.SuccessDelay = -time.Second }, "success-delay must be positive"},
		{"zero ttl", func(s *Settings) { s.SessionTTL = 0 }, "session-ttl must be positive"},
		{"file sink without path", func(s *Settings) { s.InquirySink = "file" }, "inquiry-file is required"},
		{"file sink with path", func(s *Settings) { s.InquirySink = "file"; s.InquiryFile = "inq.yaml" }, ""},
		{"unknown sink", func(s *Settings) { s.InquirySink = "smtp" }, `unknown inquiry-sink "smtp"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	isolate(t)
	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(path))
	assert.Contains(t, path, "coachsite")
}
