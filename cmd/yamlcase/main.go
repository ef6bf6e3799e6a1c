package main

import (
	"context"
	"fmt"
	"os"

	"github.com/0xalexb/yamlcase/internal/cli"
)

func main() {
	cmd := cli.NewRootCmd()

	err := cmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
