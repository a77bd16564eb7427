package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DefaultProfile string             `toml:"default_profile"`
	Profiles       map[string]Profile `toml:"profiles"`
	Theme          string             `toml:"theme"`
}

type Profile struct {
	Vault        string                 `toml:"vault"`
	RolloverDays int                    `toml:"rollover_days"`
	StaleDays    int                    `toml:"stale_days"`
	TaskSection  string                 `toml:"task_section"`
	Periods      map[string]PeriodTable `toml:"periods"`
	Hooks        map[string]string      `toml:"hooks"`
	Templates    map[string]string      `toml:"templates"`
}

// PeriodTable is the TOML shape of a PeriodConfig
type PeriodTable struct {
	Folder string `toml:"folder"`
	Format string `toml:"format"`
}

const (
	defaultRolloverDays = 7
	defaultStaleDays    = 14
	defaultTaskSection  = "## Tasks"
)

// ResolvedProfile carries a validated profile with defaults applied
type ResolvedProfile struct {
	Name         string
	VaultPath    string
	RolloverDays int
	StaleDays    int
	TaskSection  string
	Periods      map[PeriodType]PeriodConfig
	Hooks        map[string]string
	Templates    map[string]string
}

type ProfileError struct {
	Profile string
	Field   string
	Err     error
}

func (e *ProfileError) Error() string {
	if e.Profile == "" {
		return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
	}

	if e.Field == "" {
		return fmt.Sprintf("profile %q: %v", e.Profile, e.Err)
	}

	return fmt.Sprintf("profile %q: %s: %v", e.Profile, e.Field, e.Err)
}

func (e *ProfileError) Unwrap() error {
	return e.Err
}

var (
	ErrEmptyPath    = errors.New("path is empty")
	ErrPathNotExist = errors.New("path does not exist")
	ErrNotDirectory = errors.New("path is not a directory")
)

func validateProfile(name string, p Profile) error {
	if strings.TrimSpace(p.Vault) == "" {
		return &ProfileError{Profile: name, Field: "vault", Err: ErrEmptyPath}
	}

	if p.RolloverDays < 0 {
		return &ProfileError{Profile: name, Field: "rollover_days", Err: errors.New("must not be negative")}
	}

	if p.StaleDays < 0 {
		return &ProfileError{Profile: name, Field: "stale_days", Err: errors.New("must not be negative")}
	}

	for key := range p.Periods {
		if _, err := parsePeriodType(key); err != nil {
			return &ProfileError{Profile: name, Field: "periods", Err: err}
		}
	}

	return nil
}

func validateVaultExists(name, vaultPath string) error {
	info, err := os.Stat(vaultPath)

	if err != nil {
		if os.IsNotExist(err) {
			return &ProfileError{Profile: name, Field: "vault", Err: fmt.Errorf("%w: %s", ErrPathNotExist, vaultPath)}
		}

		return &ProfileError{Profile: name, Field: "vault", Err: err}
	}

	if !info.IsDir() {
		return &ProfileError{Profile: name, Field: "vault", Err: fmt.Errorf("%w: %s", ErrNotDirectory, vaultPath)}
	}

	return nil
}

func validateConfig(cfg Config) error {
	if cfg.DefaultProfile != "" && cfg.Profiles != nil {
		if _, ok := cfg.Profiles[cfg.DefaultProfile]; !ok {
			return &ProfileError{Field: "default_profile", Err: fmt.Errorf("profile %q not found", cfg.DefaultProfile)}
		}
	}

	return nil
}

func selectProfile(profileFlag string, cfg Config) (string, *Profile, error) {
	if profileFlag != "" {
		if cfg.Profiles == nil {
			return "", nil, &ProfileError{Profile: profileFlag, Err: errors.New("no profiles defined in config")}
		}

		p, ok := cfg.Profiles[profileFlag]

		if !ok {
			return "", nil, &ProfileError{Profile: profileFlag, Err: errors.New("profile not found")}
		}

		return profileFlag, &p, nil
	}

	if cfg.DefaultProfile != "" {
		if cfg.Profiles == nil {
			return "", nil, &ProfileError{Field: "default_profile", Err: fmt.Errorf("profile %q not found", cfg.DefaultProfile)}
		}

		p, ok := cfg.Profiles[cfg.DefaultProfile]

		if !ok {
			return "", nil, &ProfileError{Field: "default_profile", Err: fmt.Errorf("profile %q not found", cfg.DefaultProfile)}
		}

		return cfg.DefaultProfile, &p, nil
	}

	return "", nil, nil
}

// resolveProfile validates a profile and applies defaults for every field
// the config left unset.
func resolveProfile(name string, p Profile) (*ResolvedProfile, error) {
	if err := validateProfile(name, p); err != nil {
		return nil, err
	}

	vaultPath, err := resolveVaultPath(p.Vault)

	if err != nil {
		return nil, &ProfileError{Profile: name, Field: "vault", Err: err}
	}

	vaultPath = filepath.Clean(vaultPath)
	resolved, err := filepath.EvalSymlinks(vaultPath)
	if err == nil {
		vaultPath = resolved
	}

	if err := validateVaultExists(name, vaultPath); err != nil {
		return nil, err
	}

	periods := defaultPeriodConfigs()
	for key, table := range p.Periods {
		pt, _ := parsePeriodType(key)
		cfg := periods[pt]
		if table.Folder != "" {
			cfg.Folder = table.Folder
		}
		if table.Format != "" {
			cfg.Format = table.Format
		}
		periods[pt] = cfg
	}

	rp := &ResolvedProfile{
		Name:         name,
		VaultPath:    vaultPath,
		RolloverDays: p.RolloverDays,
		StaleDays:    p.StaleDays,
		TaskSection:  p.TaskSection,
		Periods:      periods,
		Hooks:        p.Hooks,
		Templates:    p.Templates,
	}

	if rp.RolloverDays == 0 {
		rp.RolloverDays = defaultRolloverDays
	}
	if rp.StaleDays == 0 {
		rp.StaleDays = defaultStaleDays
	}
	if strings.TrimSpace(rp.TaskSection) == "" {
		rp.TaskSection = defaultTaskSection
	}

	return rp, nil
}

func configPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "pn", "config.toml"), nil
}

func loadConfig() (Config, string, error) {
	path, err := configPath()

	if err != nil {
		return Config{}, "", err
	}

	data, err := os.ReadFile(path)

	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, path, nil
		}

		return Config{}, path, err
	}

	var cfg Config

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, path, err
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, path, err
	}

	return cfg, path, nil
}

func expandPath(value string) (string, error) {
	value = strings.TrimSpace(value)

	if value == "" {
		return value, nil
	}

	expanded := os.ExpandEnv(value)

	if !strings.HasPrefix(expanded, "~") {
		return expanded, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if expanded == "~" {
		return homeDir, nil
	}

	if strings.HasPrefix(expanded, "~/") {
		return filepath.Join(homeDir, expanded[2:]), nil
	}

	if strings.HasPrefix(expanded, "~\\") {
		return filepath.Join(homeDir, expanded[2:]), nil
	}

	return expanded, nil
}

func resolveVaultPath(value string) (string, error) {
	expanded, err := expandPath(value)

	if err != nil {
		return "", err
	}

	if expanded == "" || filepath.IsAbs(expanded) {
		return expanded, nil
	}

	homeDir, err := os.UserHomeDir()

	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, expanded), nil
}
