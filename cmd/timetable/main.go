package main

import (
	"fmt"
	"os"

	"github.com/noah-isme/sma-timetable-grid/internal/cli"
)

// @title SMA Timetable Grid API
// @version 0.1.0
// @description Course timetables laid out on a fixed slot grid
// @BasePath /api/v1
// @schemes http

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
