package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/runedrag/runedrag/config"
	"github.com/runedrag/runedrag/shell"
)

var (
	GitVersion string
)

//go:embed banner.txt
var banner string

func main() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("loading-config")
	}

	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	zerolog.DefaultContextLogger = &log.Logger
	log.Debug().Msg("Debug logging is on")
	log.Info().Interface("settings", cfg.SanitizedSettings()).
		Str("config-file", cfg.Path()).Msg("loaded-config")

	if cfg.GetString(config.ConfigCPUProfile) != "" {
		f, err := os.Create(cfg.GetString(config.ConfigCPUProfile))
		if err != nil {
			panic("could not create CPU profile: " + err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic("could not start CPU profile: " + err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sc := shell.NewShellController(ctx, cfg)

	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for s := range sig {
			// an interrupt during a search only stops the search.
			if s == syscall.SIGINT && sc.Interrupt() {
				log.Info().Msg("search-interrupted")
				continue
			}
			break
		}
		log.Info().Msg("got quit signal...")
		cancel()
		close(done)
	}()

	argsLine := strings.TrimSpace(strings.Join(cfg.Args(), " "))
	if argsLine == "" {
		fmt.Println(banner)
		if GitVersion != "" {
			fmt.Println(GitVersion)
		}
		go sc.Loop(sig)
	} else {
		sc.Execute(sig, argsLine)
		select {
		case sig <- syscall.SIGINT:
		default:
		}
	}

	<-done

	memstats := &runtime.MemStats{}
	runtime.ReadMemStats(memstats)
	log.Debug().Uint64("heap-alloc", memstats.HeapAlloc).
		Uint32("num-gc", memstats.NumGC).Msg("memory-stats")

	sc.Cleanup()
	log.Info().Msg("shutting down")
}
