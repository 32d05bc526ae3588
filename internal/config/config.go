package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAccuracy       = 1e-4
	DefaultConstraintTol  = 1e-8
	DefaultMinStep        = 1e-10
	DefaultDuration       = 10.0
	DefaultReportInterval = 0.1
	DefaultTheta          = 0.5
)

type Config struct {
	Model  string `yaml:"model"`
	Method string `yaml:"method"`

	Accuracy      float64 `yaml:"accuracy"`
	ConstraintTol float64 `yaml:"constraint_tolerance"`

	InitialStep float64 `yaml:"initial_step"`
	MinStep     float64 `yaml:"min_step"`
	MaxStep     float64 `yaml:"max_step"`

	Duration       float64 `yaml:"duration"`
	ReportInterval float64 `yaml:"report_interval"`

	ProjectEveryStep bool `yaml:"project_every_step"`

	InitState InitStateConfig `yaml:"init_state"`
}

type InitStateConfig struct {
	Theta float64 `yaml:"theta"`
	Omega float64 `yaml:"omega"`
	Z     float64 `yaml:"z"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:          "pendulum",
		Method:         "merson",
		Accuracy:       DefaultAccuracy,
		ConstraintTol:  DefaultConstraintTol,
		MinStep:        DefaultMinStep,
		Duration:       DefaultDuration,
		ReportInterval: DefaultReportInterval,
		InitState: InitStateConfig{
			Theta: DefaultTheta,
			Z:     1.0,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
