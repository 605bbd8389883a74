package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Nil settings.
	require.Error(t, Validate(nil))

	// Missing fallback recipients.
	settings := new(Config)

	err := Validate(settings)
	require.ErrorIs(t, err, errFallbackRecipientsRequired)

	// Bad fallback recipient.
	settings = &Config{
		Fallback: Fallback{Recipients: []string{"not an address"}},
	}

	require.Error(t, Validate(settings))

	// Bad listen address.
	settings = &Config{
		Fallback:      Fallback{Recipients: []string{"ops@example.edu"}},
		StatusAddress: "no-port",
	}

	require.Error(t, Validate(settings))

	// Bad port.
	settings = &Config{
		Fallback: Fallback{Recipients: []string{"ops@example.edu"}},
		SMTPPort: 70000,
	}

	require.ErrorIs(t, Validate(settings), errBadPort)

	// Bad remote directory.
	settings = &Config{
		Fallback:        Fallback{Recipients: []string{"ops@example.edu"}},
		DirectorySource: "https://",
	}

	require.Error(t, Validate(settings))

	// Okay, defaults are filled.
	settings = &Config{
		Fallback:        Fallback{Recipients: []string{"ops@example.edu"}},
		DirectorySource: "https://intranet.example.edu/freezers.csv",
		MetricsAddress:  ":9100",
	}

	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultInterface, settings.Interface)
	require.Equal(t, DefaultSMTPPort, settings.SMTPPort)
	require.Equal(t, DefaultTimeout, settings.Timeout)
	require.Equal(t, "ops@example.edu", settings.Fallback.ReplyTo)
	require.Equal(t, DefaultFallbackSender, settings.Fallback.Sender)
}

// TestLoad_EmptyPathUsesDefaults ensures the monitor starts without a settings file.
func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

// TestLoad_MissingFile ensures an explicitly named but absent file is an error.
func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

// TestLoad_PartialFileKeepsDefaults ensures a file only overrides what it names.
func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	contents := "smtp_host: mailhub.example.edu\ntimeout: 10s\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), DefaultFilePermissions))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "mailhub.example.edu", cfg.SMTPHost)
	require.Equal(t, 10*time.Second, cfg.Timeout)
	require.Equal(t, DefaultDirectorySource, cfg.DirectorySource)
	require.Equal(t, []string{DefaultFallbackRecipient}, cfg.Fallback.Recipients)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	settings := &Config{
		DirectorySource: "https://intranet.example.edu/freezers.csv",
		SMTPHost:        "mailhub.example.edu",
		Fallback: Fallback{
			Recipients: []string{"net-l@example.edu"},
			Sender:     "freezer-monitor@example.edu",
			ReplyTo:    "ithelp@example.edu",
		},
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings.DirectorySource, loaded.DirectorySource)
	require.Equal(t, settings.SMTPHost, loaded.SMTPHost)
	require.Equal(t, settings.Fallback, loaded.Fallback)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestIsRemoteSource covers scheme detection.
func TestIsRemoteSource(t *testing.T) {
	t.Parallel()

	require.True(t, IsRemoteSource("https://example.edu/a.csv"))
	require.True(t, IsRemoteSource("HTTP://example.edu/a.csv"))
	require.False(t, IsRemoteSource("/etc/freezer-monitor/freezer-info.csv"))
}
