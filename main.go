package main

import "github.com/Johannes-Berggren/gitpeek/cmd"

func main() {
	cmd.Execute()
}
