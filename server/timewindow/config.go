package timewindow

import (
	"fmt"
	"time"
)

// Config holds the tunable limits of the engine. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// DedupTolerance is the maximum difference between two windows' bounds
	// for them to count as duplicates of each other.
	DedupTolerance time.Duration `json:"dedupTolerance" yaml:"dedupTolerance"`
	// FuzzyMaxYears bounds how far from now a bare fuzzy-parsed date may
	// fall before it is rejected as a false positive.
	FuzzyMaxYears int `json:"fuzzyMaxYears" yaml:"fuzzyMaxYears"`
	// MaxQuestionLength caps the input length scanned by the pattern
	// library. Longer questions are truncated before matching.
	MaxQuestionLength int `json:"maxQuestionLength" yaml:"maxQuestionLength"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		DedupTolerance:    time.Minute,
		FuzzyMaxYears:     10,
		MaxQuestionLength: 1000,
	}
}

// ValidateConfig checks configuration bounds.
func ValidateConfig(config *Config) error {
	if config == nil {
		return ErrInvalidConfig{Field: "Config", Value: nil}
	}
	if config.DedupTolerance <= 0 || config.DedupTolerance > time.Hour {
		return ErrInvalidConfig{Field: "DedupTolerance", Value: config.DedupTolerance}
	}
	if config.FuzzyMaxYears < 1 || config.FuzzyMaxYears > 100 {
		return ErrInvalidConfig{Field: "FuzzyMaxYears", Value: config.FuzzyMaxYears}
	}
	if config.MaxQuestionLength < 10 || config.MaxQuestionLength > 100000 {
		return ErrInvalidConfig{Field: "MaxQuestionLength", Value: config.MaxQuestionLength}
	}
	return nil
}

// ErrInvalidConfig reports an out-of-range configuration field.
type ErrInvalidConfig struct {
	Field string
	Value interface{}
}

func (e ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config field '%s': %v", e.Field, e.Value)
}
