package main

import "github.com/oshokin/freezer-monitor/cmd/freezer-monitor/cmd"

func main() {
	cmd.Execute()
}
