// Package main demonstrates basic usage of the pinentry library.
package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/nao1215/pinentry"
)

func main() {
	// A four digit prompt with default settings
	p, err := pinentry.NewPrompt("Code: ")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	fmt.Println("Basic PIN Entry Example")
	fmt.Println("Type four digits, Backspace to correct, Ctrl+C to quit")
	fmt.Println()

	pin, err := p.Run()
	if err != nil {
		if errors.Is(err, pinentry.ErrInterrupted) || errors.Is(err, pinentry.ErrEOF) {
			fmt.Println("Goodbye!")
			return
		}
		log.Fatal(err)
	}

	fmt.Printf("You entered: %s\n", pin)
}
