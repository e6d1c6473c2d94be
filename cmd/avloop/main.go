// SPDX-License-Identifier: EPL-2.0

// Command avloop plays an audio file through the loopback device and records
// what comes back on the device's input.
//
//	avloop -in song.mp3 -out captured.aiff [-config avloop.json] [-layout split] [-monitor] [-debug]
//
// With -serve the captured input is also streamed to websocket listeners, and
// -advertise announces that stream over mDNS.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ik5/avdevice"
	"github.com/ik5/avdevice/formats"
	"github.com/ik5/avdevice/host"
	"github.com/ik5/avdevice/internal/config"
	"github.com/ik5/avdevice/internal/logging"
	"github.com/ik5/avdevice/monitor"
	"github.com/ik5/avdevice/pump"
	"github.com/ik5/avdevice/stream"
)

var (
	inPath     = flag.String("in", "", "Audio file to play into the device (.wav, .aiff, .mp3, .ogg)")
	outPath    = flag.String("out", "", "File to record the device input to (.wav or .aiff)")
	configPath = flag.String("config", "", "JSON configuration file")
	layout     = flag.String("layout", "", "Stream layout: duplicate or split (overrides the config file)")
	lead       = flag.Int("lead", 0, "Render lead in ticks (overrides the config file)")
	useMonitor = flag.Bool("monitor", false, "Also play the captured input on the speakers")
	serve      = flag.String("serve", "", "Address to stream the captured input on, e.g. :8927")
	advertise  = flag.Bool("advertise", false, "Announce the stream over mDNS (needs -serve)")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "avloop:", err)
		os.Exit(1)
	}
}

func run() (err error) {
	if *inPath == "" || *outPath == "" {
		flag.Usage()
		return errors.New("-in and -out are required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := cfg.LogLevel
	if *debug {
		level = zerolog.LevelDebugValue
	}
	log, err := logging.NewWithLevel(os.Stderr, level)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engCfg, err := cfg.EngineConfig(log)
	if err != nil {
		return err
	}
	dev, err := avdevice.Open(engCfg, host.New(host.WithLogger(log)))
	if err != nil {
		return err
	}
	defer closeInto(&err, dev)
	eng := dev.Engine()

	src, err := formats.Open(formats.NewRegistry(), *inPath)
	if err != nil {
		return err
	}
	defer closeInto(&err, src)

	rec, err := formats.Create(*outPath, engCfg.Format.SampleRate, engCfg.Format.Channels)
	if err != nil {
		return err
	}
	sinks := []pump.Sink{rec}
	if cfg.Monitor.Enabled {
		player, err := monitor.New(cfg.MonitorConfig(log))
		if err != nil {
			_ = rec.Close()
			return err
		}
		sinks = append(sinks, player)
	}
	if cfg.Stream.Listen != "" {
		b, shutdown, err := serveStream(cfg, log)
		if err != nil {
			_ = pump.MultiSink(sinks...).Close()
			return err
		}
		defer shutdown()
		sinks = append(sinks, b)
	}
	sink := pump.MultiSink(sinks...)

	p, err := pump.New(eng, src, sink, cfg.PumpConfig(log))
	if err != nil {
		_ = sink.Close()
		return err
	}
	if err := p.Prime(); err != nil {
		_ = sink.Close()
		return err
	}

	log.Info().Str("in", *inPath).Str("out", *outPath).Stringer("device", dev).Msg("looping")
	started := time.Now()
	if err := eng.Start(); err != nil {
		_ = sink.Close()
		return err
	}

	runErr := p.Run(ctx, time.Duration(cfg.Pump.Poll))
	eng.Stop()

	st := p.Stats()
	sched := eng.SchedulerStats()
	log.Info().
		Int("frames_recorded", rec.Frames()).
		Uint64("underruns", st.Underruns).
		Uint64("overruns", st.Overruns).
		Uint64("ticks", sched.Ticks).
		Uint64("late_ticks", sched.Late).
		Dur("max_lateness", sched.MaxLateness).
		Dur("elapsed", time.Since(started)).
		Msg("done")

	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

// closeInto closes c and keeps its error in *errp unless an earlier error is
// already there.
func closeInto(errp *error, c io.Closer) {
	if cerr := c.Close(); cerr != nil && *errp == nil {
		*errp = cerr
	}
}

func applyFlags(cfg *config.Config) {
	if *layout != "" {
		cfg.Engine.Layout = *layout
	}
	if *lead != 0 {
		cfg.Pump.LeadTicks = *lead
	}
	if *useMonitor {
		cfg.Monitor.Enabled = true
	}
	if *serve != "" {
		cfg.Stream.Listen = *serve
	}
	if *advertise {
		cfg.Stream.Advertise = true
	}
}

// serveStream starts the capture stream server. The returned func stops the
// server and the mDNS announcement.
func serveStream(cfg *config.Config, log zerolog.Logger) (*stream.Broadcaster, func(), error) {
	b, err := stream.New(cfg.StreamConfig(avdevice.ShortName, log))
	if err != nil {
		return nil, nil, err
	}
	ln, err := net.Listen("tcp", cfg.Stream.Listen)
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Stream.Path, b)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("stream server stopped")
		}
	}()
	log.Info().Stringer("addr", ln.Addr()).Str("path", cfg.Stream.Path).Msg("streaming capture")

	var adv *stream.Advertiser
	if cfg.Stream.Advertise {
		adv, err = stream.Advertise(stream.Announcement{
			Instance:   avdevice.ShortName,
			Port:       ln.Addr().(*net.TCPAddr).Port,
			Path:       cfg.Stream.Path,
			SampleRate: cfg.Engine.SampleRate,
			Channels:   cfg.Engine.Channels,
		})
		if err != nil {
			log.Warn().Err(err).Msg("mDNS announcement failed")
		}
	}

	shutdown := func() {
		if adv != nil {
			_ = adv.Shutdown()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return b, shutdown, nil
}
