package main

import "github.com/maxdcmn/rsgbench/cmd"

func main() {
	cmd.Execute()
}
