package main

import "github.com/xvierd/tomodo/cmd"

func main() {
	cmd.Execute()
}
