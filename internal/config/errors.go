package config

import "errors"

var (
	ErrReadingConfigFile     = errors.New("failed to read config file")
	ErrUnmarshallingConfig   = errors.New("failed to unmarshal config")
	ErrConfigFileMissing     = errors.New("config file not found")
	ErrBindingFlags          = errors.New("failed to bind command-line flags")
	ErrInputNotFound         = errors.New("input file does not exist")
	ErrMissingWindow         = errors.New("window size is required")
	ErrInvalidWindow         = errors.New("window size must be zero or a positive integer")
	ErrEmptyAlgorithm        = errors.New("algorithm cannot be empty")
	ErrIncompleteKafkaConfig = errors.New("kafka sink needs both brokers and topic")
)
