package cmd

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the optional forth65.yaml sitting next to the main source file.
// Command-line flags override it.
type Config struct {
	PStackBottom string   `yaml:"pstack-bottom"`
	PStackSize   int      `yaml:"pstack-size"`
	Sections     []string `yaml:"sections"`
}

func LoadConfig(dir string) (Config, error) {
	var result Config

	configFilename := filepath.Join(dir, "forth65.yaml")
	yamlFile, err := os.ReadFile(configFilename)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(yamlFile, &result); err != nil {
		return Config{}, err
	}
	return result, nil
}
