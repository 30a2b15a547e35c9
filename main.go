package main

import "github.com/relloyd/stagecopy/cmd"

func main() {
	cmd.Execute()
}
