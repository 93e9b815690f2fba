package main

import (
	"os"

	"github.com/tanglenet/tangled/app"
)

func main() {
	if err := app.StartApp(); err != nil {
		os.Exit(1)
	}
}
