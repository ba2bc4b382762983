package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/mapstructure"
)

// ServerConfig is one server section decoded into typed settings.
type ServerConfig struct {
	BaseURL           string        `json:"base_url" mapstructure:"base_url"`
	Token             string        `json:"token" mapstructure:"token"`
	Username          string        `json:"username" mapstructure:"username"`
	Cloud             bool          `json:"cloud" mapstructure:"cloud"`
	Timeout           time.Duration `json:"timeout" mapstructure:"timeout"`
	RequestsPerSecond float64       `json:"requests_per_second" mapstructure:"requests_per_second"`
	Debug             bool          `json:"debug" mapstructure:"debug"`
}

// Validate checks that the settings can be used to build a client.
func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&s.Token, validation.When(s.Username != "", validation.Required.Error("is required when username is set"))),
		validation.Field(&s.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&s.RequestsPerSecond, validation.Min(0.0)),
	)
}

func httpURL(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http or https URL")
	}
	return nil
}

// Server decodes and validates a server section.
func (c *Config) Server(section string) (ServerConfig, error) {
	values, err := c.Section(section)
	if err != nil {
		return ServerConfig{}, err
	}

	var sc ServerConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &sc,
	})
	if err != nil {
		return ServerConfig{}, fmt.Errorf("creating decoder: %w", err)
	}
	if err := decoder.Decode(values); err != nil {
		return ServerConfig{}, fmt.Errorf("%w: section %s: %w", ErrInvalidConfig, section, err)
	}
	if err := sc.Validate(); err != nil {
		return ServerConfig{}, fmt.Errorf("%w: section %s: %w", ErrInvalidConfig, section, err)
	}
	return sc, nil
}
