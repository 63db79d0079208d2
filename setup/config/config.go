// Copyright 2024 The Orbit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Orbit is the root configuration for all components of the server.
type Orbit struct {
	// The version of this file format, to detect incompatible older files.
	Version int `yaml:"version"`

	Global       Global       `yaml:"global"`
	StreamServer StreamServer `yaml:"stream_server"`
	NotifServer  NotifServer  `yaml:"notification_server"`
}

const Version = 1

// Load parses the given file and verifies the result. All components
// get their Defaults applied before the file contents override them.
func Load(configPath string) (*Orbit, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	return loadConfig(configData)
}

func loadConfig(configData []byte) (*Orbit, error) {
	var c Orbit
	c.Defaults()
	if err := yaml.Unmarshal(configData, &c); err != nil {
		return nil, err
	}
	if c.Version != Version {
		return nil, fmt.Errorf(
			"config version %d is not supported, expected %d",
			c.Version, Version,
		)
	}
	c.Wire()

	configErrs := &ConfigErrors{}
	c.Verify(configErrs)
	if len(*configErrs) > 0 {
		return nil, configErrs
	}
	return &c, nil
}

func (c *Orbit) Defaults() {
	c.Version = Version
	c.Global.Defaults()
	c.StreamServer.Defaults()
	c.NotifServer.Defaults()
	c.Wire()
}

// Wire gives each component a pointer back at the global section. The
// yaml decoder can't do this for us, so it is re-run after unmarshal.
func (c *Orbit) Wire() {
	c.StreamServer.Global = &c.Global
	c.NotifServer.Global = &c.Global
}

func (c *Orbit) Verify(configErrs *ConfigErrors) {
	c.Global.Verify(configErrs)
	c.StreamServer.Verify(configErrs)
	c.NotifServer.Verify(configErrs)
}

// ConfigErrors stores problems encountered when parsing a config file.
// It implements the error interface.
type ConfigErrors []string

func (errs *ConfigErrors) Add(str string) {
	*errs = append(*errs, str)
}

func (errs *ConfigErrors) Error() string {
	if len(*errs) == 1 {
		return (*errs)[0]
	}
	return fmt.Sprintf(
		"%s (and %d other problems)", (*errs)[0], len(*errs)-1,
	)
}

// checkNotEmpty verifies the given value is not empty in the configuration.
// If it is, adds an error to the list.
func checkNotEmpty(configErrs *ConfigErrors, key, value string) {
	if value == "" {
		configErrs.Add(fmt.Sprintf("missing config key %q", key))
	}
}

// checkPositive verifies the given value is positive (zero included)
// in the configuration. If it is not, adds an error to the list.
func checkPositive(configErrs *ConfigErrors, key string, value int64) {
	if value < 0 {
		configErrs.Add(fmt.Sprintf("invalid value for config key %q: %d", key, value))
	}
}

// checkURL verifies that the parameter appears to be a valid URL.
func checkURL(configErrs *ConfigErrors, key, value string) {
	if value == "" {
		return
	}
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		configErrs.Add(fmt.Sprintf("config key %q is not a valid URL: %q", key, value))
	}
}
