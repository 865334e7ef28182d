package main

import (
	"github.com/dejlek/itl/cmd/itl/internal/command"
)

func main() {
	command.Execute()
}
