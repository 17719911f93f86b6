package main

import "github.com/mkarls/wireweave/cmd/wireweave/cmd"

func main() {
	cmd.Execute()
}
