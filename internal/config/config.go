package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/shiftguard/shiftguard/pkg/core/rules"
)

// DemandOverride raises or lowers the required headcount for a shift type
// on every date matched by a recurrence rule (e.g. extra weekend cover).
type DemandOverride struct {
	RRule     string `yaml:"rrule" validate:"required"`
	ShiftType string `yaml:"shiftType" validate:"required"`
	Required  int    `yaml:"required" validate:"min=0"`
}

// Config represents the application configuration. Every field is optional:
// the tool runs on a bare input workbook, and the config only adds recurring
// demand patterns, persistence, and sheet integration.
type Config struct {
	// RulesPath points at the rule definition file used when the --rules
	// flag is absent.
	RulesPath string `yaml:"rulesPath,omitempty"`

	// DatabaseURL enables the run-history store when set.
	DatabaseURL string `yaml:"databaseURL,omitempty"`

	// StaffSheetID and StaffTab locate the roster when reading staff from
	// Google Sheets instead of the workbook.
	StaffSheetID string `yaml:"staffSheetID,omitempty"`
	StaffTab     string `yaml:"staffTab,omitempty"`

	// RotaSheetID is the spreadsheet schedules are published to.
	RotaSheetID string `yaml:"rotaSheetID,omitempty"`

	// SoftCostThreshold enables the advisory warning when the schedule's
	// total soft cost exceeds it. Zero disables the advisory.
	SoftCostThreshold float64 `yaml:"softCostThreshold,omitempty" validate:"min=0"`

	DemandOverrides []DemandOverride `yaml:"demandOverrides,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

const configFileName = "shiftguard.yaml"

// Load loads the configuration from shiftguard.yaml in the current
// directory or the user's home directory. A missing file is not an error;
// it yields the zero configuration.
func Load() (*Config, error) {
	path, err := findConfigFile()
	if err != nil {
		return &Config{}, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads and validates the configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, override := range cfg.DemandOverrides {
		if _, err := rrule.StrToRRule(override.RRule); err != nil {
			return fmt.Errorf("invalid rrule in demandOverrides[%d]: %w", i, err)
		}
	}

	return nil
}

func findConfigFile() (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}

// RulesFile is the on-disk shape of the rule definition file.
type RulesFile struct {
	Rules []rules.Def `yaml:"rules" validate:"required,min=1,dive"`
}

// LoadRules reads raw rule definitions from a YAML file and converts them
// into a validated RuleSet. Any unknown rule type or malformed parameter is
// a load-time error.
func LoadRules(path string) (*rules.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rf RulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}
	if err := validate.Struct(&rf); err != nil {
		return nil, fmt.Errorf("rules file validation failed: %w", err)
	}

	rs, err := rules.Parse(rf.Rules)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return rs, nil
}
