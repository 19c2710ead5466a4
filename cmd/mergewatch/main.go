package main

import "github.com/vietddude/mergewatch/internal/cli"

func main() {
	cli.Execute()
}
