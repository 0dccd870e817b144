package main

import (
	"github.com/manimatic/manimatic/cli"
)

func main() {
	cli.Execute()
}
