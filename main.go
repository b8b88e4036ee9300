package main

import "github.com/dirshaye/LogInsight/internal/cmd"

func main() {
	cmd.Execute()
}
