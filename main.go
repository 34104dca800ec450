package main

import (
	"os"

	"github.com/llehouerou/lyricsync/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:]))
}
