package main

import "storesync/cmd/storectl/cmd"

func main() {
	cmd.Execute()
}
