package main

import "github.com/valuerank-ai/valuerank/cmd"

func main() {
	cmd.Execute()
}
