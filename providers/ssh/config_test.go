package ssh

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_WithDefaults(t *testing.T) {
	t.Parallel()

	c := Config{Host: "example.com", User: "root"}.WithDefaults()

	assert.Equal(t, 22, c.Port)
	assert.Equal(t, DefaultTimeout, c.Timeout)
	assert.Equal(t, "xterm", c.Term)
	assert.Equal(t, 80, c.Width)
	assert.Equal(t, 24, c.Height)

	// Explicit values survive.
	c = Config{Host: "example.com", User: "root", Port: 2222, Timeout: time.Second}.WithDefaults()
	assert.Equal(t, 2222, c.Port)
	assert.Equal(t, time.Second, c.Timeout)
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	c := NewConfig("example.com", "root")
	assert.Equal(t, c, c.WithDefaults())
	assert.Equal(t, "example.com:22", c.Address().String())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:   "valid",
			config: NewConfig("example.com", "root"),
		},
		{
			name:    "missing host",
			config:  Config{User: "root"}.WithDefaults(),
			wantErr: "host",
		},
		{
			name:    "missing user",
			config:  Config{Host: "example.com"}.WithDefaults(),
			wantErr: "user",
		},
		{
			name:    "port out of range",
			config:  Config{Host: "example.com", User: "root", Port: 70000}.WithDefaults(),
			wantErr: "port",
		},
		{
			name:    "negative timeout",
			config:  Config{Host: "example.com", User: "root", Timeout: -time.Second}.WithDefaults(),
			wantErr: "timeout",
		},
		{
			name:    "negative terminal size",
			config:  Config{Host: "example.com", User: "root", Width: -1}.WithDefaults(),
			wantErr: "terminal size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ToClientConfig(t *testing.T) {
	t.Parallel()

	c := NewConfig("example.com", "admin")
	c.Password = "secret"

	cc := c.ToClientConfig()
	assert.Equal(t, "admin", cc.User)
	assert.Equal(t, DefaultTimeout, cc.Timeout)
	assert.Len(t, cc.Auth, 2)
	assert.NotNil(t, cc.HostKeyCallback)
	assert.NoError(t, cc.HostKeyCallback("example.com:22", nil, nil))
}

func TestSSH_NewFromSSHConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "ssh_config")

	configContent := `
Host myalias
    HostName 1.2.3.4
    User testuser
    Port 2222
    ConnectTimeout 3
    IdentityFile ~/.ssh/id_ed25519
    StrictHostKeyChecking no
`
	err := os.WriteFile(configPath, []byte(configContent), 0o600)
	require.NoError(t, err)

	t.Run("custom path", func(t *testing.T) {
		t.Parallel()

		cfg, err := NewFromSSHConfig("myalias", configPath)
		require.NoError(t, err)

		assert.Equal(t, "1.2.3.4", cfg.Host)
		assert.Equal(t, "testuser", cfg.User)
		assert.Equal(t, 2222, cfg.Port)
		assert.Equal(t, 3*time.Second, cfg.Timeout)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown alias falls back to alias as host", func(t *testing.T) {
		t.Parallel()

		cfg, err := NewFromSSHConfig("other.example.com", configPath)
		require.NoError(t, err)

		assert.Equal(t, "other.example.com", cfg.Host)
		assert.Equal(t, 22, cfg.Port)
		assert.Equal(t, DefaultTimeout, cfg.Timeout)
	})

	t.Run("non-existent path", func(t *testing.T) {
		t.Parallel()

		_, err := NewFromSSHConfig("myalias", filepath.Join(tmpDir, "non_existent"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open ssh config")
	})
}

func TestSSH_NewFromSSHConfigReader_ParseError(t *testing.T) {
	t.Parallel()

	_, err := NewFromSSHConfigReader("x", strings.NewReader("Match all\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse ssh config")
}

func TestOptions(t *testing.T) {
	t.Parallel()

	c, err := New(
		WithConfig(NewConfig("ignored", "ignored")),
		WithHost("example.com"),
		WithUser("admin"),
		WithPort(2200),
		WithPassword("secret"),
		WithTimeout(2*time.Second),
		WithTerminal("vt100", 132, 50),
	)
	require.NoError(t, err)

	got := c.Config()
	assert.Equal(t, "example.com", got.Host)
	assert.Equal(t, "admin", got.User)
	assert.Equal(t, 2200, got.Port)
	assert.Equal(t, "secret", got.Password)
	assert.Equal(t, 2*time.Second, got.Timeout)
	assert.Equal(t, "vt100", got.Term)
	assert.Equal(t, 132, got.Width)
	assert.Equal(t, 50, got.Height)
}

func TestNew_Invalid(t *testing.T) {
	t.Parallel()

	_, err := New(WithHost("example.com"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user cannot be empty")
}
