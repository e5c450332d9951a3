package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-schemadoc/internal/yamlutil"
)

// runConfigCmd prints the configuration in effect, after the config file
// and SCHEMADOC_* variables are applied, as YAML.
func runConfigCmd(args []string, env *Environment) error {
	f, positional, err := parseConfigFlags(args, env)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: config takes no arguments, got %d", ErrInvalidFlags, len(positional))
	}

	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	cfg, err := loadConfig(f.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)

	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = env.Stdout.Write(data)
	return err
}
