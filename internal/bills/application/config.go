package application

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	bills "billed-app/internal/bills/domain"
	"billed-app/internal/bills/format"
)

// Labels holds fallback display text used when a field cannot be formatted.
type Labels struct {
	UnknownStatus string            `yaml:"unknown_status"`
	Status        map[string]string `yaml:"status"`
}

// ExportConfig defines export document settings.
type ExportConfig struct {
	Title    string `yaml:"title"`
	Currency string `yaml:"currency"`
}

// Config defines bill presentation configuration.
type Config struct {
	Locale string       `yaml:"locale"`
	Labels Labels       `yaml:"labels"`
	Export ExportConfig `yaml:"export"`
}

// LoadConfig loads config from env, then overlays the yaml file named by BILLED_CONFIG.
func LoadConfig() (Config, error) {
	cfg := Config{
		Locale: getenvDefault("BILLED_LOCALE", "fr"),
		Labels: Labels{
			UnknownStatus: getenvDefault("BILLED_UNKNOWN_STATUS_LABEL", "Statut inconnu"),
		},
		Export: ExportConfig{
			Title:    getenvDefault("BILLED_EXPORT_TITLE", "Mes notes de frais"),
			Currency: getenvDefault("BILLED_CURRENCY", "EUR"),
		},
	}

	if path := os.Getenv("BILLED_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.Labels.UnknownStatus == "" {
		cfg.Labels.UnknownStatus = "Statut inconnu"
	}
	if cfg.Export.Currency == "" {
		cfg.Export.Currency = "EUR"
	}
	for key := range cfg.Labels.Status {
		if _, ok := bills.NormalizeStatus(key); !ok {
			return cfg, fmt.Errorf("bills config: unknown status %q in labels", key)
		}
	}
	return cfg, nil
}

// Formatter builds the formatter described by the config.
func (c Config) Formatter() (*format.Formatter, error) {
	var locale format.Locale
	switch strings.ToLower(strings.TrimSpace(c.Locale)) {
	case "", "fr", "fr-fr":
		locale = format.French()
	default:
		return nil, fmt.Errorf("bills config: unsupported locale %q", c.Locale)
	}
	if len(c.Labels.Status) > 0 {
		overrides := make(map[bills.Status]string, len(c.Labels.Status))
		for key, label := range c.Labels.Status {
			overrides[bills.Status(key)] = label
		}
		locale = locale.WithStatusLabels(overrides)
	}
	return format.NewFormatter(locale)
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
