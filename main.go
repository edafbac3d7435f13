package main

import "github.com/theirongolddev/fuellog/cmd"

func main() {
	cmd.Execute()
}
