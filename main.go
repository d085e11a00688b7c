// Package main is the entry point for the eventlog CLI tool, which turns
// soccer match event files into a possession-scoped event log.
package main

import "github.com/pable/go-possession-log/cmd"

func main() {
	cmd.Execute()
}
