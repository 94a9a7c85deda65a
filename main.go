package main

import "github.com/sidejit/jitd/cmd"

func main() {
	cmd.Execute()
}
