// Command magnificence starts the chess engine: by default an interactive
// UCI session on stdin, or a one-shot command sequence via -command.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/wsandst/magnificence-oxidized-chess/internal/config"
	"github.com/wsandst/magnificence-oxidized-chess/internal/storage"
	"github.com/wsandst/magnificence-oxidized-chess/internal/uci"
)

var (
	commandFlag = flag.String("command", "", "run UCI commands at engine start, joined by ' and '")
	engineFlag  = flag.String("engine", "", "engine variant to play with (magnificence or random)")
	configFlag  = flag.String("config", "", "path to the configuration file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("could not load configuration: %v", err)
	}
	if *engineFlag != "" {
		cfg.Engine.Name = *engineFlag
	}

	store := openStorage(cfg)
	defer store.Close()

	handler, err := uci.New(cfg, store, os.Stdout)
	if err != nil {
		log.Fatalf("could not start engine: %v", err)
	}

	if *commandFlag != "" {
		for _, cmd := range strings.Split(*commandFlag, " and ") {
			if handler.Execute(strings.TrimSpace(cmd)) {
				break
			}
		}
		return
	}
	handler.Run(os.Stdin)
}

// openStorage opens the preferences/statistics store. Persistence failures
// are not fatal: the engine runs without it.
func openStorage(cfg config.Config) *storage.Storage {
	dir := cfg.Storage.Dir
	if dir == "off" {
		return nil
	}
	if dir == "" {
		configDir, err := config.ConfigDir()
		if err != nil {
			log.Printf("storage disabled: %v", err)
			return nil
		}
		dir = filepath.Join(configDir, "store")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("storage disabled: %v", err)
		return nil
	}
	store, err := storage.Open(dir)
	if err != nil {
		log.Printf("storage disabled: %v", err)
		return nil
	}
	return store
}
