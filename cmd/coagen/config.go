package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/modfar/go-coa/pkg/coa"
)

// Config holds the coagen configuration file: one template path per
// certificate type, overridable per invocation with --template.
type Config struct {
	Templates map[string]string `yaml:"templates"`
}

// defaultConfig matches the template files shipped alongside the tool.
func defaultConfig() *Config {
	return &Config{
		Templates: map[string]string{
			string(coa.TypeMOD): "PH LIPL MOD COA.docx",
			string(coa.TypeFAR): "PH LIPL FAR COA.docx",
		},
	}
}

// loadConfig reads the config file at path, or at coagen.yaml when path
// is empty. A missing default config file is not an error: the built-in
// template mapping applies.
func loadConfig(path string) (*Config, error) {
	implicit := false
	if path == "" {
		path = "coagen.yaml"
		implicit = true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if implicit && os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// templatePath resolves the template file for a certificate type, with
// the --template flag taking precedence over the config file.
func (c *Config) templatePath(typ coa.COAType, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	path, ok := c.Templates[string(typ)]
	if !ok || path == "" {
		return "", fmt.Errorf("no template configured for type %s", typ)
	}
	return path, nil
}
