package main

import (
	"wavehub/cmd"
)

func main() {
	cmd.Execute()
}
