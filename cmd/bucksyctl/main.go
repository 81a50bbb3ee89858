package main

import "github.com/bucksy-bot/bucksy/cmd"

func main() {
	cmd.Execute()
}
