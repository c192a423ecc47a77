package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultAlgorithm      = "hash_map"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
	defaultLogFileEnabled = false
	defaultLogDirectory   = "log"
	defaultLogFilename    = "movingavg.log"
	defaultLogMaxSizeMB   = 100
	defaultLogMaxBackups  = 3
	defaultLogMaxAgeDays  = 7
	defaultLogCompress    = false
	defaultKafkaBatchSize = 100

	// Environment variable prefix
	envPrefix = "MOVINGAVG"
)

type Config struct {
	InputFile  string        `mapstructure:"input_file"`
	WindowSize int           `mapstructure:"window_size"`
	Algorithm  string        `mapstructure:"algorithm"`
	Log        LogConfig     `mapstructure:"log"`
	Metrics    MetricsConfig `mapstructure:"metrics"`
	Kafka      KafkaConfig   `mapstructure:"kafka"`
}

type LogConfig struct {
	Level              string `mapstructure:"level"`
	Format             string `mapstructure:"format"`
	FileLoggingEnabled bool   `mapstructure:"fileLoggingEnabled"`
	Directory          string `mapstructure:"directory"`
	Filename           string `mapstructure:"filename"`
	MaxSize            int    `mapstructure:"maxSize"`    // Max size in MB
	MaxBackups         int    `mapstructure:"maxBackups"` // Max backup files
	MaxAge             int    `mapstructure:"maxAge"`     // Max days to retain
	Compress           bool   `mapstructure:"compress"`   // Compress rotated files?
}

// MetricsConfig controls the Prometheus textfile written after a run.
// An empty Textfile disables it.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// KafkaConfig enables publishing records to Kafka when both Brokers and Topic are set.
type KafkaConfig struct {
	Brokers   []string `mapstructure:"brokers"`
	Topic     string   `mapstructure:"topic"`
	BatchSize int      `mapstructure:"batchSize"`
}

// Enabled reports whether a Kafka sink should be created.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 || k.Topic != ""
}

// Flags registers the command-line surface on flags. Load reads the parsed values back.
func Flags(flags *pflag.FlagSet) {
	flags.String("config", "", "Optional path to a YAML configuration file")
	flags.String("input_file", "", "Input file path (line-delimited JSON events)")
	flags.Int("window_size", 0, "Window size in minutes (required). Must be zero or a positive integer")
	flags.String("algorithm", defaultAlgorithm, `Moving average algorithm. Values: "hash_map" or "queue"`)
	flags.String("log_level", defaultLogLevel, "Log level (debug, info, warn, error)")
	flags.String("metrics_textfile", "", "Write Prometheus metrics to this file after the run")
	flags.StringSlice("kafka_brokers", nil, "Kafka brokers to publish records to")
	flags.String("kafka_topic", "", "Kafka topic to publish records to")
}

// flagKeys maps flag names whose viper key differs from the flag name.
var flagKeys = map[string]string{
	"log_level":        "log.level",
	"metrics_textfile": "metrics.textfile",
	"kafka_brokers":    "kafka.brokers",
	"kafka_topic":      "kafka.topic",
}

// Load layers defaults, the optional config file, environment variables and
// flags (highest precedence), then unmarshals and validates the result.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	configPath, _ := flags.GetString("config")
	configureViper(v, configPath)

	// Set default values before reading config source .yaml
	setDefaults(v)

	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	if configPath != "" {
		if err := readConfigFile(v); err != nil {
			return nil, err
		}
	}

	// Unmarshal the configuration
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshallingConfig, err)
	}

	// window_size has no default; it must come from a flag, env var or file.
	if err := validateConfig(&cfg, v.IsSet("window_size")); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// configureViper sets up viper instance for file and environment variables.
func configureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults applies default configuration values using Viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("algorithm", defaultAlgorithm)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.fileLoggingEnabled", defaultLogFileEnabled)
	v.SetDefault("log.directory", defaultLogDirectory)
	v.SetDefault("log.filename", defaultLogFilename)
	v.SetDefault("log.maxSize", defaultLogMaxSizeMB)
	v.SetDefault("log.maxBackups", defaultLogMaxBackups)
	v.SetDefault("log.maxAge", defaultLogMaxAgeDays)
	v.SetDefault("log.compress", defaultLogCompress)
	v.SetDefault("kafka.batchSize", defaultKafkaBatchSize)
}

// bindFlags binds every registered flag except --config to its viper key.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || bindErr != nil {
			return
		}
		key := f.Name
		if k, ok := flagKeys[f.Name]; ok {
			key = k
		}
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("%w: %s: %w", ErrBindingFlags, f.Name, err)
		}
	})
	return bindErr
}

// readConfigFile attempts to read the configuration file specified in viper.
func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) || errors.Is(err, fs.ErrNotExist) {
			return ErrConfigFileMissing
		}
		return fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
	}
	return nil
}

func validateConfig(cfg *Config, windowSet bool) error {
	info, err := os.Stat(cfg.InputFile)
	if cfg.InputFile == "" || err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %q", ErrInputNotFound, cfg.InputFile)
	}
	if !windowSet {
		return ErrMissingWindow
	}
	if cfg.WindowSize < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidWindow, cfg.WindowSize)
	}
	if cfg.Algorithm == "" {
		return ErrEmptyAlgorithm
	}
	if cfg.Kafka.Enabled() && (len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.Topic == "") {
		return ErrIncompleteKafkaConfig
	}
	return nil
}
