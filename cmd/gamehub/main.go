package main

import (
	"github.com/jfmcewan/gamehub/internal/cli"
)

func main() {
	cli.Execute()
}
