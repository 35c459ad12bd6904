package main

import "github.com/notargets/emfield/cmd"

func main() {
	cmd.Execute()
}
