package main

import "nathanbeddoewebdev/hureg/cmd"

func main() {
	cmd.Execute()
}
