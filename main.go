package main

import (
	"github.com/cargoreplay/cargoreplay/commands"
)

func main() {
	commands.Execute()
}
