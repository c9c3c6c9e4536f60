package main

import (
	"os"

	"wrapc/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
