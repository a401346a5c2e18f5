package main

import "ontoai/cmd"

func main() {
	cmd.Execute()
}
