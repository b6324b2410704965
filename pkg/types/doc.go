// Package types defines the telemetry records, trails, configuration and
// standard error types shared by the trailplot packages.
package types
