package main

import "github.com/xingtu-app/xingtu/internal/cli"

func main() {
	cli.Execute()
}
