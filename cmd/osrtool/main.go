/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/osrkit/cmd/osrtool/cmd"

func main() {
	cmd.Execute()
}
