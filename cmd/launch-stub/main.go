package main

import "github.com/oshokin/launch-stub/cmd/launch-stub/cmd"

func main() {
	cmd.Execute()
}
