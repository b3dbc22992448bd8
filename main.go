package main

import "github.com/arimxyer/svlt/cmd"

func main() {
	cmd.Execute()
}
