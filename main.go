package main

import "github.com/mpdscribble-go/mpdscribble/cmd"

func main() {
	cmd.Execute()
}
