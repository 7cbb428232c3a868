package main

import (
	"os"

	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
