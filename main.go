package main

import "github.com/notargets/govtk/cmd"

func main() {
	cmd.Execute()
}
