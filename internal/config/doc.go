// Package config loads the tracker configuration from a YAML file with
// environment variable expansion. A missing file yields defaults so the
// binary works with zero setup.
package config
