package main

import (
	cmd "github.com/kestra-io/kestra-devtools/cmd/devtools"
)

func main() {
	cmd.Execute()
}
