package main

import "github.com/byronlcollier/zaparoo-label-automator/cmd"

func main() {
	cmd.Execute()
}
