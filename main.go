package main

import "github.com/frahmantamala/recibox/cmd"

func main() {
	cmd.Execute()
}
