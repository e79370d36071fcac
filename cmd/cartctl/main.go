package main

import "github.com/cartcompare/backend/cmd/cartctl/cmd"

func main() {
	cmd.Execute()
}
