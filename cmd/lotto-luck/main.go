package main

import (
	"github.com/pwhitehead/lotto-luck/internal/cli"
)

func main() {
	cli.Execute()
}
