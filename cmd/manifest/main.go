package main

import "github.com/aweris/manifest/cmd/manifest/cmd"

func main() {
	cmd.Execute()
}
