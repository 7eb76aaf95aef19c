package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/google/uuid"
	"github.com/jgagnon1/blockchain/app/services/node/handlers"
	"github.com/jgagnon1/blockchain/foundation/blockchain/peer"
	"github.com/jgagnon1/blockchain/foundation/blockchain/state"
	"github.com/jgagnon1/blockchain/foundation/events"
	"github.com/jgagnon1/blockchain/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			APIHost         string        `conf:"default:0.0.0.0:8080"`
			DebugHost       string        `conf:"default:0.0.0.0:8081"`
			CORSOrigin      string        `conf:"default:*"`
		}
		Node struct {
			Host        string
			Standalone  bool
			PeerTimeout time.Duration `conf:"default:5s"`
			SeedPeers   []string
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Node Identity

	// Peers address each other by host, so the identifier only serves the
	// info endpoint. A fresh one is minted on every start.
	nodeID := uuid.NewString()

	// The advertised host is what other nodes dial to reach this one. When
	// it isn't configured, derive a routable address from the bind address.
	host := cfg.Node.Host
	if host == "" {
		host, err = advertiseAddr(cfg.Web.APIHost)
		if err != nil {
			return fmt.Errorf("deriving advertised address: %w", err)
		}
	}

	log.Infow("startup", "status", "node identity", "nodeID", nodeID, "host", host)

	// =========================================================================
	// Blockchain Support

	// The blockchain packages accept a function of this signature to allow
	// the application to log. These raw messages are also sent to any
	// websocket client that is connected into the system through the events
	// package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	// Peer networking can be switched off for a single node deployment. The
	// state falls back to rejecting registrations in that mode.
	var registry state.Registry
	switch {
	case cfg.Node.Standalone:
		registry = peer.Nop{}
	default:
		registry = peer.NewNetwork(peer.NetworkConfig{
			Host:      host,
			Timeout:   cfg.Node.PeerTimeout,
			EvHandler: ev,
		})
	}

	// The state value represents the node and provides an API for
	// application support.
	state := state.New(state.Config{
		NodeID:    nodeID,
		Host:      host,
		Registry:  registry,
		EvHandler: ev,
	})

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	// The Debug function returns a mux to listen and serve on for all the debug
	// related endpoints. This includes the standard library endpoints.

	// Construct the mux for the debug calls.
	debugMux := handlers.DebugMux(build, log)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Start API Service

	log.Infow("startup", "status", "initializing V1 API support")

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Construct the mux for the API calls.
	apiMux := handlers.APIMux(handlers.MuxConfig{
		Shutdown:   shutdown,
		Log:        log,
		State:      state,
		Evts:       evts,
		CORSOrigin: cfg.Web.CORSOrigin,
	})

	// Construct a server to service the requests against the mux.
	api := http.Server{
		Addr:         cfg.Web.APIHost,
		Handler:      apiMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Bind the listener before seeding. Registering with a seed makes that
	// seed dial back to this node, so the socket must already accept.
	listener, err := net.Listen("tcp", api.Addr)
	if err != nil {
		return fmt.Errorf("binding api listener: %w", err)
	}

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "api router started", "host", api.Addr)
		serverErrors <- api.Serve(listener)
	}()

	// Register with the configured seed peers. A dead seed is logged and
	// skipped so it can't keep the node from starting.
	go func() {
		for _, seed := range cfg.Node.SeedPeers {
			if _, err := state.RegisterPeer(peer.New(seed)); err != nil {
				log.Infow("startup", "status", "seed peer skipped", "peer", seed, "ERROR", err)
			}
		}
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// advertiseAddr resolves the address peers should dial to reach this node.
// A wildcard bind host is replaced with the first routable unicast address
// on the machine, falling back to loopback.
func advertiseAddr(bindAddr string) (string, error) {
	bindHost, port, err := net.SplitHostPort(bindAddr)
	if err != nil {
		return "", fmt.Errorf("parsing bind address %q: %w", bindAddr, err)
	}

	if ip := net.ParseIP(bindHost); bindHost != "" && (ip == nil || !ip.IsUnspecified()) {
		return bindAddr, nil
	}

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", fmt.Errorf("listing interface addresses: %w", err)
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.To4() == nil || ipNet.IP.IsLoopback() {
			continue
		}
		return net.JoinHostPort(ipNet.IP.String(), port), nil
	}

	return net.JoinHostPort("127.0.0.1", port), nil
}
