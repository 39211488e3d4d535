package main

import "github.com/emrgen/happix/cmd"

func main() {
	cmd.Execute()
}
