// Package config resolves runtime settings by layering defaults under
// environment variables under explicit flag values, highest precedence
// last. This codebase carries no dedicated configuration library anywhere
// in its dependency stack, so this stays on the standard library rather
// than reaching for one that nothing else in the codebase would exercise.
package config

import (
	"os"
	"strconv"

	"github.com/bfcompiler/bf/compiler/parse"
	"github.com/bfcompiler/bf/compiler/tape"
)

const (
	envTapeSize      = "BF_TAPE_SIZE"
	envStrict        = "BF_STRICT"
	envMaxSourceSize = "BF_MAX_SOURCE_SIZE"
)

// ResolveTapeSize returns flagVal if positive, else BF_TAPE_SIZE if it
// parses to a positive value, else tape.DefaultSize.
func ResolveTapeSize(flagVal int) int {
	if flagVal > 0 {
		return flagVal
	}

	if v, ok := envInt(envTapeSize); ok && v > 0 {
		return v
	}

	return tape.DefaultSize
}

// ResolveMaxSourceSize returns flagVal if positive, else
// BF_MAX_SOURCE_SIZE if it parses to a positive value, else
// parse.DefaultMaxSourceSize.
func ResolveMaxSourceSize(flagVal int) int {
	if flagVal > 0 {
		return flagVal
	}

	if v, ok := envInt(envMaxSourceSize); ok && v > 0 {
		return v
	}

	return parse.DefaultMaxSourceSize
}

// ResolveStrict returns true if flagSet is true or BF_STRICT names a
// truthy value; false is the default.
func ResolveStrict(flagSet bool) bool {
	if flagSet {
		return true
	}

	v, ok := os.LookupEnv(envStrict)
	if !ok {
		return false
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}

	return b
}

func envInt(name string) (int, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}

	return n, true
}
