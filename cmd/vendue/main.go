package main

import "github.com/kurumiimari/vendue/cmd/vendue/cmd"

func main() {
	cmd.Execute()
}
