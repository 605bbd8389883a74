// Package sensor reads the freezer contact through the host GPIO drivers.
package sensor
