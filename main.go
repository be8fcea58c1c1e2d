package main

import "fsim/cmd"

func main() {
	cmd.Execute()
}
