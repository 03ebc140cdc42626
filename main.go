package main

import (
	"BeatWave/cmd"
)

func main() {
	cmd.Execute()
}
