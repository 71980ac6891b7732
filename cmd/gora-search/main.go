package main

import "github.com/pfrederiksen/gora-search/internal/cli"

func main() {
	cli.Execute()
}
