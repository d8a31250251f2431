package main

import (
	"os"

	"github.com/jhoicas/Facturacion-api/cmd/facturacion-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
