package main

import "grant-core/cmd/grant-cli/cmd"

func main() {
	cmd.Execute()
}
