package main

import "github.com/cone387/ttask/cmd/ttask/root"

func main() {
	root.Execute()
}
