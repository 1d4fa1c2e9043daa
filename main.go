package main

import "github.com/iksnae/session-viewer/cmd"

func main() {
	cmd.Execute()
}
