package main

import "github.com/ytget/soundpack/cmd"

func main() {
	cmd.Execute()
}
