package main

import "github.com/msp430dev/toolchain/cmd"

func main() {
	cmd.Execute()
}
