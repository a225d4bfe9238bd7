package main

import "github.com/lukman83/ozon-sync/cmd"

func main() {
	cmd.Execute()
}
