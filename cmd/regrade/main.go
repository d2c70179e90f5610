package main

import (
	"github.com/mchmarny/regrade/pkg/cli"
)

func main() {
	cli.Execute()
}
