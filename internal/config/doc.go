// Package config defines the deployment settings of the freezer monitor and
// provides helpers to load, validate and save them in YAML format.
//
// Settings cover the directory source, the mail relay and the fixed
// operational fallback contact. Everything safety-relevant that should never
// drift between deployments (pin, sample interval, retry delays) is compiled in.
package config
