package main

import "aiinterviewer/internal/cli"

func main() {
	cli.Execute()
}
