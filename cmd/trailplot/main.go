// Package main provides the trailplot CLI.
package main

import "github.com/mesh-intelligence/trailplot/internal/cli"

func main() {
	cli.Execute()
}
