package main

import "github.com/saadjs/fitquest/cmd/fitquest"

func main() {
	fitquest.Execute()
}
