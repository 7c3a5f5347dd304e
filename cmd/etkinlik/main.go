package main

import "github.com/etkinlik-toplayici/etkinlik/internal/cli"

func main() {
	cli.Execute()
}
