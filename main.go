package main

import "github.com/julienpequegnot/phynews/cmd"

func main() {
	cmd.Execute()
}
