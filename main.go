// ABOUTME: Entry point for the Chorus music player
// ABOUTME: Parses CLI flags, wires the engine, TUI, discovery and remote control
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Chorus-Player/chorus-go/internal/artwork"
	"github.com/Chorus-Player/chorus-go/internal/discovery"
	"github.com/Chorus-Player/chorus-go/internal/remote"
	"github.com/Chorus-Player/chorus-go/internal/ui"
	"github.com/Chorus-Player/chorus-go/internal/version"
	"github.com/Chorus-Player/chorus-go/pkg/audio/decode"
	"github.com/Chorus-Player/chorus-go/pkg/audio/output"
	"github.com/Chorus-Player/chorus-go/pkg/player"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	filePath    = flag.String("file", "", "Audio file to play (wav, mp3, flac, ogg opus)")
	streaming   = flag.Bool("streaming", false, "Decode progressively on a worker instead of up front")
	chunkFrames = flag.Int("chunk", 4096, "Frames per decoded chunk in streaming mode")
	remotePort  = flag.Int("remote-port", 8942, "Port for the remote control server (0 disables)")
	noMDNS      = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
	name        = flag.String("name", "", "Player friendly name (default: hostname-chorus-player)")
	logFile     = flag.String("log-file", "chorus-player.log", "Log file path")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
)

// controller is the playback surface shared by both engine front-ends
type controller interface {
	remote.Controller
	Close() error
}

func main() {
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: chorus-player -file <audio file> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	// Determine player name
	playerName := *name
	if playerName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		playerName = fmt.Sprintf("%s-chorus-player", hostname)
	}

	log.Printf("Starting %s %s: %s", version.Product, version.Version, playerName)

	// Embedded cover art lands in a temp cache the UI can reference
	covers, err := artwork.NewCache()
	if err != nil {
		log.Printf("Artwork cache unavailable: %v", err)
	} else {
		decode.SetCoverSaver(covers)
		defer covers.Cleanup()
	}

	src, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *filePath, err)
	}
	defer src.Close()

	// Engine front-end: whole-file transport or chunked worker stream
	var ctrl controller
	var stream *player.Stream
	if *streaming {
		stream = player.NewStream(output.NewOto())
		ctrl = stream
	} else {
		ctrl = player.NewTransport(player.Options{Output: output.NewOto()})
	}
	defer ctrl.Close()

	// TUI setup
	var tuiProg *tea.Program
	var tuiCtrl *ui.Control

	if useTUI {
		tuiCtrl = ui.NewControl()
		tuiProg, err = ui.Run(tuiCtrl)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
	}

	updateTUI := func(msg ui.StatusMsg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}

	wireEvents(ctrl, updateTUI)

	// Remote control and discovery
	if *remotePort > 0 {
		remoteSrv := remote.NewServer(remote.Config{Port: *remotePort, Name: playerName}, ctrl)
		if err := remoteSrv.Start(); err != nil {
			log.Printf("Remote control unavailable: %v", err)
		} else {
			defer remoteSrv.Stop()
		}

		if !*noMDNS {
			disc := discovery.NewManager(discovery.Config{PlayerName: playerName, Port: *remotePort})
			if err := disc.Advertise(); err != nil {
				log.Printf("mDNS advertisement failed: %v", err)
			} else {
				defer disc.Stop()
			}
		}
	}

	// Load and start playback
	if stream != nil {
		// The worker load is asynchronous; playback can only start
		// once the metadata response lands.
		stream.On(player.EventLoaded, func(player.Event) { stream.Play() })
		stream.Load(src, *chunkFrames)
	} else {
		tr := ctrl.(*player.Transport)
		if _, err := tr.Load(*filePath, src); err != nil {
			log.Fatalf("Failed to load %s: %v", *filePath, err)
		}
		ctrl.Play()
	}

	if tuiCtrl != nil {
		go handleCommands(ctrl, tuiCtrl)
	}
	stop := make(chan struct{})
	go statusLoop(ctrl, stream, updateTUI, stop)
	defer close(stop)

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if tuiProg != nil {
		tuiDone := make(chan struct{})
		go func() {
			tuiProg.Run()
			close(tuiDone)
		}()
		select {
		case <-tuiDone:
			log.Printf("TUI exited")
		case <-sigChan:
			log.Printf("Shutdown signal received")
			tuiProg.Quit()
		}
	} else {
		<-sigChan
		log.Printf("Shutdown signal received")
	}

	log.Printf("Player stopped")
}

// wireEvents mirrors engine events into TUI status updates
func wireEvents(ctrl controller, updateTUI func(ui.StatusMsg)) {
	ctrl.On(player.EventLoaded, func(player.Event) {
		meta := ctrl.Metadata()
		duration := meta.Duration
		updateTUI(ui.StatusMsg{
			State:      string(ctrl.State()),
			Title:      meta.Tag("TITLE"),
			Artist:     meta.Tag("ARTIST"),
			Album:      meta.Tag("ALBUM"),
			Encoding:   meta.Encoding,
			SampleRate: meta.SampleRate,
			Channels:   meta.Channels,
			BitDepth:   meta.BitDepth,
			Duration:   &duration,
		})
		log.Printf("Loaded: %s %dHz %dch, %v", meta.Encoding, meta.SampleRate, meta.Channels, meta.Duration)
	})
	ctrl.On(player.EventError, func(ev player.Event) {
		log.Printf("Player error: %v", ev.Err)
		updateTUI(ui.StatusMsg{State: string(player.StateError)})
	})
	ctrl.On(player.EventEnded, func(player.Event) {
		log.Printf("Track ended")
	})
}

// handleCommands drives the engine from TUI key presses
func handleCommands(ctrl controller, tuiCtrl *ui.Control) {
	for cmd := range tuiCtrl.Commands {
		switch cmd.Action {
		case ui.ActionToggle:
			if ctrl.State() == player.StatePlaying {
				ctrl.Pause()
			} else {
				ctrl.Play()
			}
		case ui.ActionSeekBy:
			ctrl.Seek(ctrl.Position() + cmd.SeekBy)
		case ui.ActionVolume:
			ctrl.SetVolume(cmd.Volume)
		}
	}
}

// statusLoop periodically pushes playback state into the TUI
func statusLoop(ctrl controller, stream *player.Stream, updateTUI func(ui.StatusMsg), stop chan struct{}) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			position := ctrl.Position()
			volume := ctrl.Volume()
			msg := ui.StatusMsg{
				State:    string(ctrl.State()),
				Position: &position,
				Volume:   &volume,
			}
			if stream != nil {
				stats := stream.Stats()
				msg.Received = stats.Received
				msg.Played = stats.Played
				msg.Dropped = stats.Dropped
			}
			updateTUI(msg)
		}
	}
}
