// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the options of the resolver tool which can be given in a
// configuration file, rather than on the command line.
type Config struct {
	// Features enabled or disabled, by name (e.g. RefinedSamAdaptersPriority).
	// Features not mentioned keep their default.
	Features map[string]bool `yaml:"features,omitempty"`
	// CollectAll reports every candidate of a call, rather than choosing one.
	CollectAll bool `yaml:"collect_all,omitempty"`
	// Jobs is the number of fixtures resolved concurrently (one per CPU by
	// default), where zero means one per fixture.
	Jobs int `yaml:"jobs"`
	// LogLevel is the logrus level name (e.g. "debug").
	LogLevel string `yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{Features: make(map[string]bool), Jobs: runtime.NumCPU(), LogLevel: "warning"}
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	//
	return Parse(data, path)
}

// Parse configuration from bytes.  The path is used only for error messages.
func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	//
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	} else if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	//
	return cfg, nil
}

// SetFeature enables or disables a feature by name, overriding whatever the
// file said.
func (p *Config) SetFeature(name string, enabled bool) error {
	if _, err := model.ParseLanguageFeature(name); err != nil {
		return err
	}
	//
	if p.Features == nil {
		p.Features = make(map[string]bool)
	}
	//
	p.Features[name] = enabled
	//
	return nil
}

// Settings applies the feature overrides of this configuration to the default
// language settings.
func (p *Config) Settings() (model.Settings, error) {
	settings := model.DefaultSettings()
	//
	for name, enabled := range p.Features {
		feature, err := model.ParseLanguageFeature(name)
		if err != nil {
			return settings, err
		}
		//
		settings = settings.With(feature, enabled)
	}
	//
	return settings, nil
}

// Level returns the logging level of this configuration.
func (p *Config) Level() (log.Level, error) {
	if p.LogLevel == "" {
		return log.WarnLevel, nil
	}
	//
	return log.ParseLevel(p.LogLevel)
}

// Marshal this configuration back into YAML.
func (p *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

func (p *Config) validate() error {
	if p.Jobs < 0 {
		return fmt.Errorf("jobs must be non-negative (was %d)", p.Jobs)
	} else if _, err := p.Settings(); err != nil {
		return err
	} else if _, err := p.Level(); err != nil {
		return err
	}
	//
	return nil
}
