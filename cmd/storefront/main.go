package main

import "github.com/aishop/storefront/cmd/storefront/cmd"

func main() {
	cmd.Execute()
}
