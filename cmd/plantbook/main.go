// Package main is the plantbook CLI entry point.
package main

import "github.com/mesh-intelligence/plantbook/internal/cli"

func main() {
	cli.Execute()
}
