package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

func init() {
	InitializeLogger()
}

// Populated by ldflags (ugh)
var (
	version            string
	buildUnixTimestamp string
	commitHash         string
)

func main() {
	ts, _ := strconv.ParseInt(buildUnixTimestamp, 10, 64)
	buildTime := time.Unix(ts, 0)

	versionFlag := flag.Bool("version", false, "Print version")
	systemdFlag := flag.Bool("systemd", false, "Print systemd service file")
	configFlag := flag.String("config", "", "Path to digitalpin.toml")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API only, without the command loop")
	noServerFlag := flag.Bool("noserver", false, "Disable the HTTP API")
	flag.Parse()

	if *versionFlag {
		fmt.Println("DigitalPin version:", version)
		fmt.Println("Built on:", buildTime)
		fmt.Println("Commit hash:", commitHash)
		return
	}

	if *systemdFlag {
		SystemdServiceFile()
		return
	}

	log.Info().
		Str("version", version).
		Str("build_timestamp", buildTime.Format(time.RFC3339)).
		Msg("Initializing DigitalPin")

	config, err := NewConfig(newAppOSFS(), Flags{
		ConfigPath: *configFlag,
		NoServer:   *noServerFlag,
	}, os.Getenv)
	if err != nil {
		log.Fatal().Err(err).Msg("Config initialization failed")
	}

	board, err := NewBoard(config)
	if err != nil {
		log.Fatal().Err(err).Msg("Pin initialization failed")
	}
	defer board.Close()

	log.Info().
		Int("chip", config.Chip()).
		Int("output", config.OutputPin()).
		Int("input", config.InputPin()).
		Msg("Pins reserved")

	if *serveFlag {
		if err := StartServer(config, board); err != nil {
			log.Err(err).Msg("Server closed with error")
		}
		return
	}

	if config.ServerEnabled() {
		go func() {
			if err := StartServer(config, board); err != nil {
				log.Err(err).Msg("Server closed with error")
			}
		}()
	}

	if err := RunCommandLoop(board, os.Stdin, os.Stdout); err != nil {
		log.Err(err).Msg("Command loop failed")
	}

	log.Info().Msg("Exiting DigitalPin")
}
