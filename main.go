package main

import "github.com/RyanBlaney/sonido-sketch/cmd"

func main() {
	cmd.Execute()
}
