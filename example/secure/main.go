// Package main demonstrates a masked PIN prompt that asks again after a
// wrong PIN, with settings from an optional config file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/nao1215/pinentry"
)

const (
	expectedPIN = "246810"
	maxAttempts = 3
)

var errLocked = errors.New("too many wrong attempts")

func main() {
	configFile := flag.String("config", "pin.toml", "configuration file (.toml, .yaml or .json)")
	verbose := flag.Bool("v", false, "log rejected keys")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "pinentry"})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := run(*configFile, logger); err != nil {
		if errors.Is(err, pinentry.ErrInterrupted) || errors.Is(err, pinentry.ErrEOF) {
			fmt.Println("Cancelled")
			return
		}
		logger.Error("pin entry failed", "error", err)
		os.Exit(1)
	}
}

// run owns the prompt so that Close always runs before main exits.
func run(configFile string, logger *log.Logger) error {
	p, err := pinentry.NewPrompt("PIN: ",
		pinentry.WithConfigFile(configFile),
		pinentry.WithLength(len(expectedPIN)),
		pinentry.WithSecure("•"),
		pinentry.WithTheme(pinentry.ThemeDracula),
		pinentry.WithClipboard(pinentry.SystemClipboard{}),
		pinentry.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create prompt: %w", err)
	}
	defer p.Close()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		pin, err := p.Run()
		if err != nil {
			return err
		}

		if pin == expectedPIN {
			fmt.Println("Unlocked")
			return nil
		}

		fmt.Printf("Wrong PIN, %d attempts left\n", maxAttempts-attempt)
		p.SetError(true)
	}
	return errLocked
}
