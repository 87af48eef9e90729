// Package configs manages Kowhai's user and project configuration.
//
// User configuration lives under the OS config directory
// (~/.config/kowhai/config.toml on Linux) and records the username and a
// stable device UUID. Project configuration lives at .kowhai/config.toml in
// the repository and records the project identity plus code-generation
// targets. Both are TOML.
package configs
