package main

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoYAML []byte

// demoSet is a file of demonstration expressions.
type demoSet struct {
	Expressions []string `yaml:"expressions"`
}

// loadDemo reads a demonstration set from a YAML file, or the built-in set if
// path is empty.
func loadDemo(path string) ([]string, error) {
	data := demoYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
	}
	var d demoSet
	if err := yaml.Unmarshal(data, &d); err != nil {
		if path == "" {
			path = "built-in demo set"
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return d.Expressions, nil
}
