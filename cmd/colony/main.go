package main

import (
	"github.com/andrescamacho/colony-go/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
