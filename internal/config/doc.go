// Package config loads yogaseq settings from TOML.
//
// Load starts from Default, decodes ~/.config/yogaseq/config.toml (or
// ./yogaseq.toml), applies YOGASEQ_* environment overrides, expands tilde
// paths and validates the result. Asset sources may be local paths or
// http(s) URLs; only local paths are expanded. Derived locations such as the
// database, lock, pid and history cache files are methods on Config so every
// caller agrees on them.
package config
