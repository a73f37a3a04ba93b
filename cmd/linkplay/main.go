package main

import "github.com/mcoot/linkplay/internal/cli"

func main() {
	cli.Execute()
}
