package moonbridge

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// CoercionPolicy decides what happens when a value set on a property cannot
// be converted to the property type.
type CoercionPolicy int

const (
	// CoercionFallback sets the property default and logs a warning.
	CoercionFallback CoercionPolicy = iota
	// CoercionStrict returns the conversion error.
	CoercionStrict
)

func (p CoercionPolicy) String() string {
	if p == CoercionStrict {
		return "strict"
	}
	return "fallback"
}

func (p *CoercionPolicy) UnmarshalYAML(node *yaml.Node) error {
	switch node.Value {
	case "", "fallback":
		*p = CoercionFallback
	case "strict":
		*p = CoercionStrict
	default:
		return fmt.Errorf("unknown coercion policy %q", node.Value)
	}
	return nil
}

type IBridgeConfig interface {
	GetLogger() *zap.Logger
	GetCoercionPolicy() CoercionPolicy
	GetABIConstraint() string
	GetBoxValueTypes() bool

	WithLogger(logger *zap.Logger) IBridgeConfig
	WithCoercionPolicy(policy CoercionPolicy) IBridgeConfig
	WithABIConstraint(constraint string) IBridgeConfig
	WithBoxValueTypes(box bool) IBridgeConfig
}

type bridgeConfig struct {
	logger         *zap.Logger
	coercionPolicy CoercionPolicy
	abiConstraint  string
	boxValueTypes  bool
}

// NewConfig returns the default configuration: no logging, coercion
// fallback and boxing of unknown values as MANAGED.
func NewConfig() IBridgeConfig {
	return &bridgeConfig{
		logger:        zap.NewNop(),
		abiConstraint: DefaultABIConstraint,
		boxValueTypes: true,
	}
}

func (c *bridgeConfig) clone() *bridgeConfig {
	ret := *c
	return &ret
}

func (c *bridgeConfig) GetLogger() *zap.Logger {
	return c.logger
}

func (c *bridgeConfig) GetCoercionPolicy() CoercionPolicy {
	return c.coercionPolicy
}

func (c *bridgeConfig) GetABIConstraint() string {
	return c.abiConstraint
}

func (c *bridgeConfig) GetBoxValueTypes() bool {
	return c.boxValueTypes
}

func (c *bridgeConfig) WithLogger(logger *zap.Logger) IBridgeConfig {
	ret := c.clone()
	if logger == nil {
		logger = zap.NewNop()
	}
	ret.logger = logger
	return ret
}

func (c *bridgeConfig) WithCoercionPolicy(policy CoercionPolicy) IBridgeConfig {
	ret := c.clone()
	ret.coercionPolicy = policy
	return ret
}

func (c *bridgeConfig) WithABIConstraint(constraint string) IBridgeConfig {
	ret := c.clone()
	ret.abiConstraint = constraint
	return ret
}

func (c *bridgeConfig) WithBoxValueTypes(box bool) IBridgeConfig {
	ret := c.clone()
	ret.boxValueTypes = box
	return ret
}

type fileConfig struct {
	Coercion      CoercionPolicy `yaml:"coercion"`
	ABIConstraint string         `yaml:"abi_constraint"`
	BoxValueTypes *bool          `yaml:"box_value_types"`
	LogLevel      string         `yaml:"log_level"`
}

// LoadConfig reads a YAML configuration. Missing keys keep their defaults;
// a log_level enables a development logger at that level.
func LoadConfig(r io.Reader) (IBridgeConfig, error) {
	var fc fileConfig
	if err := yaml.NewDecoder(r).Decode(&fc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not parse bridge config: %w", err)
	}

	config := NewConfig().WithCoercionPolicy(fc.Coercion)
	if fc.ABIConstraint != "" {
		config = config.WithABIConstraint(fc.ABIConstraint)
	}
	if fc.BoxValueTypes != nil {
		config = config.WithBoxValueTypes(*fc.BoxValueTypes)
	}

	if fc.LogLevel != "" {
		level, err := zapcore.ParseLevel(fc.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("could not parse log level: %w", err)
		}
		zc := zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(level)
		logger, err := zc.Build()
		if err != nil {
			return nil, fmt.Errorf("could not build logger: %w", err)
		}
		config = config.WithLogger(logger)
	}

	return config, nil
}
