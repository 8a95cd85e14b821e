package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Radio/internal/adapters/audio"
	"github.com/dkeye/Radio/internal/client"
	"github.com/dkeye/Radio/internal/config"
	"github.com/dkeye/Radio/internal/player"
	"github.com/dkeye/Radio/internal/playlist"
)

func main() {
	serverFlag := flag.String("server", "", "server base URL (overrides config)")
	audioFlag := flag.Bool("audio", false, "play audio through the system speaker")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}
	serverURL := cfg.ServerURL
	if *serverFlag != "" {
		serverURL = *serverFlag
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pl, err := playlist.Fetch(ctx, serverURL)
	if err != nil {
		log.Fatal().Err(err).Str("server", serverURL).Msg("failed to fetch playlist")
	}
	fmt.Printf("Playlist: %d tracks\n", len(pl))

	var p player.Player
	if *audioFlag {
		sp, err := audio.NewSpeaker(pl)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open speaker")
		}
		p = sp
	} else {
		p = player.NewDeck(pl)
	}

	conn, err := client.Dial(ctx, serverURL)
	if err != nil {
		log.Fatal().Err(err).Str("server", serverURL).Msg("failed to connect")
	}
	defer conn.Close()

	ctrl := client.New(p, conn)

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.ReadLoop(ctx, ctrl)
	}()

	if err := ctrl.Ready(); err != nil {
		log.Fatal().Err(err).Msg("failed to announce readiness")
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: "radio> "})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open prompt")
	}
	defer rl.Close()

	go func() {
		select {
		case <-readDone:
			fmt.Println("\nconnection lost")
			rl.Close()
		case <-ctx.Done():
			rl.Close()
		}
	}()

	fmt.Println("Commands: play pause next prev seek <sec> status who quit")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return
		}
		if err != nil {
			return
		}
		if !dispatch(ctrl, pl.TitleOf, strings.Fields(strings.TrimSpace(line))) {
			return
		}
	}
}

func dispatch(ctrl *client.Controller, titleOf func(int) string, args []string) bool {
	if len(args) == 0 {
		return true
	}
	switch args[0] {
	case "play":
		if err := ctrl.Play(); err != nil {
			fmt.Println("play failed:", err)
		}
	case "pause":
		if err := ctrl.Pause(); err != nil {
			fmt.Println("pause failed:", err)
		}
	case "next":
		_ = ctrl.Next()
	case "prev":
		_ = ctrl.Prev()
	case "seek":
		if len(args) < 2 {
			fmt.Println("usage: seek <seconds>")
			return true
		}
		sec, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			fmt.Println("usage: seek <seconds>")
			return true
		}
		_ = ctrl.SeekTo(sec)
	case "status":
		st := ctrl.State()
		mode := "paused"
		if ctrl.Playing() {
			mode = "playing"
		}
		fmt.Printf("track %d (%s) at %.1fs, %s\n", st.TrackIndex, titleOf(st.TrackIndex), st.Position, mode)
	case "who":
		users := ctrl.Users()
		fmt.Printf("%d listener(s)\n", len(users))
		for i := range users {
			fmt.Printf("  Listener %d\n", i+1)
		}
	case "quit", "exit":
		return false
	default:
		fmt.Println("unknown command:", args[0])
	}
	return true
}
