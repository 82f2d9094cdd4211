// cmd/cfsched/main.go
//
// Entry point; CLI handling lives in the cobra root command in root.go.

package main

import "os"

func main() {
	os.Exit(Execute(os.Args[1:], os.Stdout, os.Stderr))
}
