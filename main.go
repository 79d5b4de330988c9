package main

import "loadwright/cmd"

func main() {
	cmd.Execute()
}
