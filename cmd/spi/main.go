package main

import (
	"log"
)

func main() {
	log.SetFlags(0)
	if err := Execute(); err != nil {
		log.Fatal(err)
	}
}
