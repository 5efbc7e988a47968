package main

import "github.com/qobs-build/cork/cmd"

func main() {
	cmd.Execute()
}
