package main

import "github.com/raceday/pitwall/cmd"

func main() {
	cmd.Execute()
}
