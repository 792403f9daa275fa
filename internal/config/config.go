// Package config loads and validates the pqops.yaml runtime
// configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	pqerrors "github.com/systmms/pqops/internal/errors"
	"github.com/systmms/pqops/internal/logging"
)

// Config holds the runtime configuration
type Config struct {
	Path       string
	Logger     *logging.Logger
	Definition *Definition
}

// Definition represents the pqops.yaml structure
type Definition struct {
	Version  int            `yaml:"version" json:"version"`
	Security SecurityParams `yaml:"security,omitempty" json:"security,omitempty"`
	// FailureLog is the path of the JSONL security event log. Empty
	// disables the file sink.
	FailureLog string `yaml:"failure_log,omitempty" json:"failure_log,omitempty"`
	Metrics    bool   `yaml:"metrics,omitempty" json:"metrics,omitempty"`
}

// SecurityParams configures the crypto engine
type SecurityParams struct {
	EntropyQuality        int   `yaml:"entropy_quality,omitempty" json:"entropy_quality,omitempty"`
	SecurityLevel         int   `yaml:"security_level,omitempty" json:"security_level,omitempty"`
	SidechannelProtection *bool `yaml:"sidechannel_protection,omitempty" json:"sidechannel_protection,omitempty"`
}

// configSchema validates the shape of pqops.yaml before the values are
// interpreted. Kept embedded so the binary has no data-dir dependency.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "version": {"type": "integer", "minimum": 0},
    "security": {
      "type": "object",
      "properties": {
        "entropy_quality": {"type": "integer", "minimum": 1},
        "security_level": {"type": "integer", "enum": [128, 192, 256]},
        "sidechannel_protection": {"type": "boolean"}
      },
      "additionalProperties": false
    },
    "failure_log": {"type": "string"},
    "metrics": {"type": "boolean"}
  },
  "required": ["version"],
  "additionalProperties": false
}`

// Defaults returns the configuration used when no pqops.yaml exists.
func Defaults() *Definition {
	protection := true
	return &Definition{
		Version: 0,
		Security: SecurityParams{
			EntropyQuality:        256,
			SecurityLevel:         256,
			SidechannelProtection: &protection,
		},
		Metrics: true,
	}
}

// Load reads and parses the pqops.yaml file. A missing file is not an
// error: the defaults apply.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			if c.Logger != nil {
				c.Logger.Debug("no configuration at %s, using defaults", c.Path)
			}
			c.Definition = Defaults()
			return nil
		}
		return pqerrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	// Validate the raw document so unknown fields and missing
	// required keys are caught before the struct zero values hide them.
	var document map[string]interface{}
	if err := yaml.Unmarshal(data, &document); err != nil {
		return pqerrors.ConfigError{
			Field:      "yaml",
			Value:      c.Path,
			Message:    fmt.Sprintf("invalid YAML syntax: %v", err),
			Suggestion: "Check the YAML syntax in your configuration file",
		}
	}
	if err := validateDocument(document); err != nil {
		return err
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return pqerrors.ConfigError{
			Field:      "yaml",
			Value:      c.Path,
			Message:    fmt.Sprintf("invalid YAML syntax: %v", err),
			Suggestion: "Check the YAML syntax in your configuration file",
		}
	}

	applyDefaults(&def)
	c.Definition = &def
	return nil
}

// validateDocument checks the parsed document against the embedded
// JSON schema.
func validateDocument(document map[string]interface{}) error {
	jsonData, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var messages []string
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return pqerrors.ConfigError{
			Field:      "schema",
			Value:      strings.Join(messages, "; "),
			Message:    "configuration failed schema validation",
			Suggestion: "Fix the listed fields in pqops.yaml",
		}
	}

	return nil
}

func applyDefaults(def *Definition) {
	d := Defaults()
	if def.Security.EntropyQuality == 0 {
		def.Security.EntropyQuality = d.Security.EntropyQuality
	}
	if def.Security.SecurityLevel == 0 {
		def.Security.SecurityLevel = d.Security.SecurityLevel
	}
	if def.Security.SidechannelProtection == nil {
		def.Security.SidechannelProtection = d.Security.SidechannelProtection
	}
}

// SidechannelProtection resolves the tri-state flag with its default.
func (d *Definition) SidechannelProtection() bool {
	if d.Security.SidechannelProtection == nil {
		return true
	}
	return *d.Security.SidechannelProtection
}
