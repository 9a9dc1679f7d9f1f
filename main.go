package main

import "dockship/cmd"

func main() {
	cmd.Execute()
}
