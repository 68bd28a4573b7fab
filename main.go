// ./main.go
package main

import (
	"github.com/xkilldash9x/qaforge/cmd"
)

// main is the entry point for the qaforge CLI.
func main() {
	cmd.Execute()
}
