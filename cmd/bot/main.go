package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/karma-bot/karma/cmd/bot/config"
	"github.com/karma-bot/karma/pkg/logging"
)

func main() {
	a, err := InitializeApp()
	if err != nil {
		log.Fatalln(err)
	}
	config.Parse(a.Log())
	a.l.Info("Starting application")
	if err := a.Run(); err != nil {
		a.l.Error("Error running application", slog.String(logging.KeyError, err.Error()))
		os.Exit(1)
	}
}
