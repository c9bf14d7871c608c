// Package config loads process settings from the environment and .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvOwner  = "GITHUB_REPOSITORY_OWNER"
	EnvOutput = "KUSA_SVG_OUT"

	DefaultOutput = "out.svg"
)

// DefaultEnvFiles are tried in order; missing files are skipped.
var DefaultEnvFiles = []string{"../.env", ".env"}

// Env is the subset of the environment the CLI uses for defaults.
type Env struct {
	Owner  string
	Output string
}

// Load reads the given .env files into the process environment without
// overriding variables that are already set, then reads Env from it.
func Load(files ...string) (Env, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Env{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromLookup(os.Getenv), nil
}

func FromLookup(getenv func(string) string) Env {
	env := Env{
		Owner:  getenv(EnvOwner),
		Output: getenv(EnvOutput),
	}
	if env.Output == "" {
		env.Output = DefaultOutput
	}
	return env
}
