package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "COACHSITE"

// Settings keys. Flag names match the keys.
const (
	KeyHost         = "host"
	KeyPort         = "port"
	KeyCert         = "cert"
	KeyKey          = "key"
	KeyLogLevel     = "log-level"
	KeyLogFile      = "log-file"
	KeyContent      = "content"
	KeySubmitDelay  = "submit-delay"
	KeySuccessDelay = "success-delay"
	KeySessionTTL   = "session-ttl"
	KeyAnnounce     = "announce"
	KeyInstanceName = "instance-name"
	KeyInquirySink  = "inquiry-sink"
	KeyInquiryFile  = "inquiry-file"
)

// Settings holds the server configuration.
type Settings struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// CertPath and KeyPath enable HTTPS when both are set.
	CertPath string `mapstructure:"cert"`
	KeyPath  string `mapstructure:"key"`

	LogLevel string `mapstructure:"log-level"`
	LogFile  string `mapstructure:"log-file"`

	// ContentPath overrides the embedded site content.
	ContentPath string `mapstructure:"content"`

	SubmitDelay  time.Duration `mapstructure:"submit-delay"`
	SuccessDelay time.Duration `mapstructure:"success-delay"`
	SessionTTL   time.Duration `mapstructure:"session-ttl"`

	Announce     bool   `mapstructure:"announce"`
	InstanceName string `mapstructure:"instance-name"`

	InquirySink string `mapstructure:"inquiry-sink"`
	InquiryFile string `mapstructure:"inquiry-file"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Settings {
	return Settings{
		Host:         "0.0.0.0",
		Port:         8080,
		SubmitDelay:  3000 * time.Millisecond,
		SuccessDelay: 3500 * time.Millisecond,
		SessionTTL:   30 * time.Minute,
		InstanceName: appName,
		InquirySink:  "none",
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault(KeyHost, d.Host)
	v.SetDefault(KeyPort, d.Port)
	v.SetDefault(KeyCert, "")
	v.SetDefault(KeyKey, "")
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyContent, "")
	v.SetDefault(KeySubmitDelay, d.SubmitDelay)
	v.SetDefault(KeySuccessDelay, d.SuccessDelay)
	v.SetDefault(KeySessionTTL, d.SessionTTL)
	v.SetDefault(KeyAnnounce, d.Announce)
	v.SetDefault(KeyInstanceName, d.InstanceName)
	v.SetDefault(KeyInquirySink, d.InquirySink)
	v.SetDefault(KeyInquiryFile, "")
}

// RegisterFlags adds a flag for every setting to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String(KeyHost, d.Host, "Host address to bind to")
	fs.Int(KeyPort, d.Port, "Port to listen on")
	fs.String(KeyCert, "", "Path to TLS certificate file (enables HTTPS with --key)")
	fs.String(KeyKey, "", "Path to TLS private key file")
	fs.String(KeyLogLevel, "", "Log level (debug, info, warn, error)")
	fs.String(KeyLogFile, "", "Also write JSON logs to this file, rotated by size")
	fs.String(KeyContent, "", "Site content YAML file (defaults to the built-in content)")
	fs.Duration(KeySubmitDelay, d.SubmitDelay, "How long the booking form shows the spinner")
	fs.Duration(KeySuccessDelay, d.SuccessDelay, "How long the booking form shows the checkmark")
	fs.Duration(KeySessionTTL, d.SessionTTL, "Close booking sessions idle for this long")
	fs.Bool(KeyAnnounce, false, "Announce the site over mDNS on the local network")
	fs.String(KeyInstanceName, d.InstanceName, "mDNS instance name")
	fs.String(KeyInquirySink, d.InquirySink, "Where accepted inquiries go (none, log, file)")
	fs.String(KeyInquiryFile, "", "File inquiries are appended to with --inquiry-sink=file")
}

// Load resolves settings from flags, environment, config file and defaults.
// An empty path reads the platform default config file if it exists.
// flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		def, err := GetConfigPath()
		if err != nil {
			return nil
		}
		if _, err := os.Stat(def); err != nil {
			return nil
		}
		path = def
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// Validate checks settings for values the server cannot start with.
func (s *Settings) Validate() error {
	var errs []error

	if s.Port < 0 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", s.Port))
	}
	if (s.CertPath == "") != (s.KeyPath == "") {
		errs = append(errs, errors.New("cert and key must be set together"))
	}
	if s.SubmitDelay <= 0 {
		errs = append(errs, fmt.Errorf("submit-delay must be positive, got %s", s.SubmitDelay))
	}
	if s.SuccessDelay <= 0 {
		errs = append(errs, fmt.Errorf("success-delay must be positive, got %s", s.SuccessDelay))
	}
	if s.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("session-ttl must be positive, got %s", s.SessionTTL))
	}

	switch s.InquirySink {
	case "", "none", "log":
	case "file":
		if s.InquiryFile == "" {
			errs = append(errs, errors.New("inquiry-file is required with inquiry-sink=file"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown inquiry-sink %q (want none, log or file)", s.InquirySink))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid settings: %w", errors.Join(errs...))
	}
	return nil
}

// Addr returns the listen address.
func (s *Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// TLS reports whether HTTPS is configured.
func (s *Settings) TLS() bool {
	return s.CertPath != "" && s.KeyPath != ""
}
