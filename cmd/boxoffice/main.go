package main

import "github.com/vietddude/boxoffice/internal/cli"

func main() {
	cli.Execute()
}
