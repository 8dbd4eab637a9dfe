package config

import "errors"

// Error variables for configuration loading.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrTrackerFileEmpty   = errors.New("tracker-file cannot be empty")
	ErrTrackerFileIsPath  = errors.New("tracker-file must be a plain file name")
	ErrWorkDir            = errors.New("cannot use working directory")
)
