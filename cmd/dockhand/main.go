package main

import "github.com/cameronsjo/dockhand/internal/cmd"

func main() {
	cmd.Execute()
}
