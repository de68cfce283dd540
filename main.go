package main

import "github.com/iksnae/jonsai/cmd"

func main() {
	cmd.Execute()
}
