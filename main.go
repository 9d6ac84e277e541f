// Package main is the entry point for the xcsift CLI.
package main

import "github.com/ldomaradzki/xcsift-sub001/cmd"

func main() {
	cmd.Execute()
}
