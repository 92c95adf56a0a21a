package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrUnknownPreset is returned for a difficulty name outside the presets.
var ErrUnknownPreset = errors.New("unknown difficulty preset")

// load resolves a game config. Files are applied on top of the embedded
// defaults, so a file only needs the keys it changes.
// Search order: customPath -> ~/.arcade/configs/<name> -> ./configs/<name> -> embedded default -> fallback
func load[T any](customPath, name string, embedded []byte, fallback func() T) (T, error) {
	base := fallback()
	if err := yaml.Unmarshal(embedded, &base); err != nil {
		base = fallback() // Fallback to hardcoded if embed fails
	}

	if customPath != "" {
		cfg := base
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{userConfigPath(name), filepath.Join("configs", name)}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		cfg := base
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	return base, nil
}

// LoadBounce loads Last Ball Standing configuration.
func LoadBounce(customPath string) (BounceConfig, error) {
	return load(customPath, "bounce.yaml", defaultBounceYAML, DefaultBounceConfig)
}

// LoadDodge loads Ball of Duty configuration and applies a difficulty preset.
func LoadDodge(customPath string, preset DifficultyPreset) (DodgeConfig, error) {
	cfg, err := load(customPath, "dodge.yaml", defaultDodgeYAML, DefaultDodgeConfig)
	if err != nil {
		return cfg, err
	}
	ApplyPreset(&cfg.Difficulty, preset)
	return cfg, nil
}

// LoadBasket loads Basket Catch configuration and applies a difficulty preset.
func LoadBasket(customPath string, preset DifficultyPreset) (BasketConfig, error) {
	cfg, err := load(customPath, "basket.yaml", defaultBasketYAML, DefaultBasketConfig)
	if err != nil {
		return cfg, err
	}
	ApplyPreset(&cfg.Difficulty, preset)
	return cfg, nil
}

// LoadRain loads Audio Rain configuration.
func LoadRain(customPath string) (RainConfig, error) {
	return load(customPath, "rain.yaml", defaultRainYAML, DefaultRainConfig)
}

// userConfigPath returns the path to a config file in the user's config directory.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}
