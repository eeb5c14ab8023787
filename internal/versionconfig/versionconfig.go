// Package versionconfig parses the version configuration file of the
// repository and derives the release branch to backport to from it.
package versionconfig

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultPreviousVersionKey is the key holding the version of the previous
// release.
const DefaultPreviousVersionKey = "update_from_version"

var lineRe = regexp.MustCompile(`^(.+?)\s+=\s+(.+)$`)

// Config contains the key value pairs of a version configuration file.
type Config map[string]string

// Parse parses newline-delimited "key = value" pairs.
// Empty lines are ignored, all other lines must be key value pairs.
func Parse(content string) (Config, error) {
	result := Config{}

	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		matches := lineRe.FindStringSubmatch(line)
		if matches == nil {
			return nil, fmt.Errorf("line %d: %q is not a key = value pair", i+1, line)
		}

		result[matches[1]] = matches[2]
	}

	return result, nil
}

// ReleaseBranch returns the name of the release branch of the version
// stored under key.
// It is the version with the last component replaced by "x", e.g. "2.3.x"
// for "2.3.1".
func (c Config) ReleaseBranch(key string) (string, error) {
	version, exists := c[key]
	if !exists {
		return "", fmt.Errorf("key %q not found in version config", key)
	}

	return ReleaseBranch(version)
}

// ReleaseBranch returns version with its last component replaced by "x".
func ReleaseBranch(version string) (string, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return "", errors.New("version is empty")
	}

	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return "", fmt.Errorf("version %q has only one component", version)
	}

	parts[len(parts)-1] = "x"

	return strings.Join(parts, "."), nil
}
