package config

import (
	"errors"
	"fmt"
	"net"
	"net/mail"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the deployment settings of the freezer monitor.
// The GPIO pin and retry delays are deliberately absent: they are compiled in.
type Config struct {
	// DirectorySource is the path or http(s) URL of the contact directory CSV.
	DirectorySource string `yaml:"directory_source"`
	// Interface is the network interface whose IPv4 address is the device key.
	Interface string `yaml:"interface"`
	// SMTPHost is the mail relay used for every notification.
	SMTPHost string `yaml:"smtp_host"`
	// SMTPPort is the mail relay port.
	SMTPPort int `yaml:"smtp_port"`
	// Timeout bounds a single mail submission or directory download.
	Timeout time.Duration `yaml:"timeout"`
	// Fallback is the operational contact used when the directory is broken.
	Fallback Fallback `yaml:"fallback"`
	// LogLevel is the minimum level written to the log.
	LogLevel string `yaml:"log_level"`
	// StatusAddress enables the gRPC health endpoint when set.
	StatusAddress string `yaml:"status_addr,omitempty"`
	// MetricsAddress enables the Prometheus endpoint when set.
	MetricsAddress string `yaml:"metrics_addr,omitempty"`
}

// Fallback describes the fixed operational recipient set.
type Fallback struct {
	// Recipients receive directory failure notices.
	Recipients []string `yaml:"recipients"`
	// Sender is the From address of directory failure notices.
	Sender string `yaml:"sender"`
	// ReplyTo is the Reply-To address of directory failure notices.
	ReplyTo string `yaml:"reply_to"`
}

const (
	// DefaultConfigFilename is the default filename for monitor settings.
	DefaultConfigFilename = "freezer-monitor-settings.yaml"

	// SystemConfigDirectory is searched when the working directory has no settings file.
	SystemConfigDirectory = "/etc/freezer-monitor"

	// DefaultDirectorySource is the CSV used when none is configured.
	DefaultDirectorySource = "/etc/freezer-monitor/freezer-info.csv"

	// DefaultInterface is the interface used to derive the device key.
	DefaultInterface = "eth0"

	// DefaultSMTPHost is the mail relay used when none is configured.
	DefaultSMTPHost = "localhost"

	// DefaultSMTPPort is the plain SMTP relay port.
	DefaultSMTPPort = 25

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 30 * time.Second

	// DefaultLogLevel is the level used when none is configured.
	DefaultLogLevel = "info"

	// DefaultFallbackRecipient must be replaced before deploying.
	DefaultFallbackRecipient = "it@example.com"

	// DefaultFallbackSender is the From address of directory failure notices.
	DefaultFallbackSender = "freezer-monitor@example.com"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errFallbackRecipientsRequired is returned when no operational recipient is configured.
	errFallbackRecipientsRequired = errors.New("at least one fallback recipient must be provided")
	// errBadPort is returned for SMTP ports outside the TCP range.
	errBadPort = errors.New("smtp port out of range")
	// errBadDirectoryURL is returned for directory URLs without a host.
	errBadDirectoryURL = errors.New("directory URL must have a host")
)

// Default returns the compiled-in settings.
func Default() *Config {
	return &Config{
		DirectorySource: DefaultDirectorySource,
		Interface:       DefaultInterface,
		SMTPHost:        DefaultSMTPHost,
		SMTPPort:        DefaultSMTPPort,
		Timeout:         DefaultTimeout,
		LogLevel:        DefaultLogLevel,
		Fallback: Fallback{
			Recipients: []string{DefaultFallbackRecipient},
			Sender:     DefaultFallbackSender,
			ReplyTo:    DefaultFallbackRecipient,
		},
	}
}

// Locate returns the first existing settings file among the working directory
// and SystemConfigDirectory, or an empty string when there is none.
func Locate() string {
	candidates := []string{
		DefaultConfigFilename,
		filepath.Join(SystemConfigDirectory, DefaultConfigFilename),
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// Load reads configuration from the provided path on top of Default and
// validates it. An empty path yields the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		contents, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read settings: %w", err)
		}

		if err := yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes Settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting,
// filling defaults for optional ones.
//
//nolint:cyclop // A flat list of checks reads better than helpers here.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.DirectorySource == "" {
		settings.DirectorySource = DefaultDirectorySource
	}

	if IsRemoteSource(settings.DirectorySource) {
		u, err := url.ParseRequestURI(settings.DirectorySource)
		if err != nil {
			return fmt.Errorf("invalid directory URL: %w", err)
		}

		if u.Host == "" {
			return errBadDirectoryURL
		}
	}

	if settings.Interface == "" {
		settings.Interface = DefaultInterface
	}

	if settings.SMTPHost == "" {
		settings.SMTPHost = DefaultSMTPHost
	}

	if settings.SMTPPort == 0 {
		settings.SMTPPort = DefaultSMTPPort
	}

	if settings.SMTPPort < 0 || settings.SMTPPort > 65535 {
		return fmt.Errorf("%w: %d", errBadPort, settings.SMTPPort)
	}

	// Set default timeout if not specified
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if len(settings.Fallback.Recipients) == 0 {
		return errFallbackRecipientsRequired
	}

	for _, recipient := range settings.Fallback.Recipients {
		if _, err := mail.ParseAddress(recipient); err != nil {
			return fmt.Errorf("invalid fallback recipient %q: %w", recipient, err)
		}
	}

	if settings.Fallback.Sender == "" {
		settings.Fallback.Sender = DefaultFallbackSender
	}

	if settings.Fallback.ReplyTo == "" {
		settings.Fallback.ReplyTo = settings.Fallback.Recipients[0]
	}

	for _, address := range []string{settings.StatusAddress, settings.MetricsAddress} {
		if address == "" {
			continue
		}

		if _, _, err := net.SplitHostPort(address); err != nil {
			return fmt.Errorf("invalid listen address %q: %w", address, err)
		}
	}

	return nil
}

// IsRemoteSource reports whether the directory source is an http(s) URL.
func IsRemoteSource(source string) bool {
	lower := strings.ToLower(source)

	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
