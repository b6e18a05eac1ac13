package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var ErrInvalidProfile = errors.New("invalid extraction profile")

// Profile tunes extraction. Zero values fall back to the extractor defaults.
type Profile struct {
	Classifier ClassifierProfile        `mapstructure:"classifier"`
	Modules    map[string]ModuleProfile `mapstructure:"modules"`
}

// ClassifierProfile overrides the item classifier parameters.
type ClassifierProfile struct {
	Markers          []string `mapstructure:"markers"`
	QuestionFraction float64  `mapstructure:"question_fraction"`
	MeanLength       float64  `mapstructure:"mean_length"`
}

// IsZero reports whether no parameter is set.
func (c ClassifierProfile) IsZero() bool {
	return len(c.Markers) == 0 && c.QuestionFraction == 0 && c.MeanLength == 0
}

// ModuleProfile holds per-module overrides.
type ModuleProfile struct {
	ExpectedCount int               `mapstructure:"expected_count"`
	Strategy      string            `mapstructure:"strategy"`
	Classifier    ClassifierProfile `mapstructure:"classifier"`
}

// LoadProfile reads an optional YAML profile. An empty path yields a profile
// built from defaults and QUIZBANK_* environment overrides only.
func LoadProfile(path string) (*Profile, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("classifier.markers", []string{})
	v.SetDefault("classifier.question_fraction", 0.0)
	v.SetDefault("classifier.mean_length", 0.0)

	v.SetEnvPrefix("QUIZBANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read profile %s: %w", path, err)
		}
	}

	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	if p.Modules == nil {
		p.Modules = map[string]ModuleProfile{}
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Profile) validate() error {
	if err := p.Classifier.validate("classifier"); err != nil {
		return err
	}
	for module, mp := range p.Modules {
		if mp.ExpectedCount < 0 {
			return fmt.Errorf("%w: modules.%s.expected_count is negative", ErrInvalidProfile, module)
		}
		if err := mp.Classifier.validate("modules." + module + ".classifier"); err != nil {
			return err
		}
	}
	return nil
}

func (c ClassifierProfile) validate(key string) error {
	if c.QuestionFraction < 0 || c.QuestionFraction > 1 {
		return fmt.Errorf("%w: %s.question_fraction must be within [0, 1]", ErrInvalidProfile, key)
	}
	if c.MeanLength < 0 {
		return fmt.Errorf("%w: %s.mean_length is negative", ErrInvalidProfile, key)
	}
	return nil
}
