package policy

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/c360/realmgate/errors"
)

// Document is the on-disk policy format:
//
//	fail_closed: true
//	realms:
//	  pillar-content:
//	    capabilities:
//	      - file.read
//	      - file.list
//	  pillar-ops:
//	    capabilities: []
//
// fail_closed defaults to true when omitted. Setting it to false is the
// explicit opt-in to the fail-open fallback for unlisted realms.
type Document struct {
	FailClosed *bool                `yaml:"fail_closed"`
	Realms     map[string]RealmSpec `yaml:"realms"`
}

// RealmSpec lists the capability grants for one caller realm
type RealmSpec struct {
	Capabilities []string `yaml:"capabilities"`
}

// Load reads and parses a policy file, returning a ready engine
func Load(path string, opts ...Option) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapFatal(
				fmt.Errorf("policy file %s: %w", path, errors.ErrConfigNotFound),
				"policy", "Load", "file read")
		}
		return nil, errors.WrapFatal(err, "policy", "Load", "file read")
	}
	return Parse(data, opts...)
}

// Parse builds an engine from raw policy YAML. Structural problems and
// empty capability tags are ErrorInvalid; an empty realm table is legal
// and means nobody has any grants.
func Parse(data []byte, opts ...Option) (*Engine, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapInvalid(err, "policy", "Parse", "yaml decode")
	}

	grants := make(map[string][]string, len(doc.Realms))
	for realm, spec := range doc.Realms {
		if realm == "" {
			return nil, errors.WrapInvalid(
				fmt.Errorf("empty realm name: %w", errors.ErrInvalidConfig),
				"policy", "Parse", "realm validation")
		}
		for _, capability := range spec.Capabilities {
			if capability == "" {
				return nil, errors.WrapInvalid(
					fmt.Errorf("realm %q has an empty capability tag: %w",
						realm, errors.ErrInvalidConfig),
					"policy", "Parse", "capability validation")
			}
		}
		grants[realm] = spec.Capabilities
	}

	if doc.FailClosed != nil && !*doc.FailClosed {
		opts = append(opts, WithFailOpen())
	}

	engine := NewEngine(grants, opts...)
	return engine, nil
}

// MustLoad is Load for program initialization paths where a broken policy
// file should stop the process.
func MustLoad(path string, opts ...Option) *Engine {
	engine, err := Load(path, opts...)
	if err != nil {
		slog.Error("policy load failed", "path", path, "error", err)
		panic(err)
	}
	return engine
}
