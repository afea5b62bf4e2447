// Package config loads maze definitions from disk and caches the
// compiled mazes. Definitions may be written in JSON or YAML; the
// built-in maze is always registered under the name "default".
package config
