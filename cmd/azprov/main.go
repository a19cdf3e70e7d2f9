package main

import (
	"os"

	"github.com/casthost/azuracast-provisioner/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
