package main

import "github.com/alde/comically/cmd"

func main() {
	cmd.Execute()
}
