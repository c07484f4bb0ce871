package main

import "github.com/twicebot/twicebot/cmd"

func main() {
	cmd.Execute()
}
