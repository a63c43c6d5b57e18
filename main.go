package main

import (
	"log"
	"os"

	"github.com/Assada/regilo/internal/banner"
	"github.com/Assada/regilo/internal/config"
	"github.com/Assada/regilo/internal/envfile"
	"github.com/Assada/regilo/internal/logging"
	"github.com/Assada/regilo/internal/reaper"
	"github.com/Assada/regilo/internal/sink"
	"github.com/Assada/regilo/internal/startup"
	"github.com/Assada/regilo/internal/supervisor"
	"github.com/Assada/regilo/internal/version"
)

// Exit codes (spec section 6): 0 on clean shutdown, 1 on any fatal error.
const (
	exitOK    = 0
	exitFatal = 1
)

func main() {
	os.Exit(run())
}

// run implements the no-argument CLI surface of spec section 6: load
// config from the fixed path, set up logging, render the banner, run
// startup tasks, start services, and block until a shutdown signal drains
// everything.
func run() int {
	cfg, err := config.Load(config.DefaultConfigPath)
	if err != nil {
		log.Printf("[ERR] (cli) %s", err)
		return exitFatal
	}

	if err := logging.Setup(&logging.Config{
		Name:           version.Name,
		Level:          config.StringVal(cfg.LogLevel),
		Syslog:         config.BoolVal(cfg.Syslog.Enabled),
		SyslogFacility: config.StringVal(cfg.Syslog.Facility),
		Writer:         os.Stderr,
	}); err != nil {
		log.Printf("[ERR] (cli) %s", err)
		return exitFatal
	}

	log.Printf("[INFO] (cli) %s", version.HumanVersion)
	banner.Render(os.Stdout, cfg)

	// PID 1 must reap every exited descendant, including ones it never
	// spawned directly (reparented orphans) -- install the central reaper
	// before anything is spawned.
	reaper.Start()

	if err := envfile.Write("env", cfg.Environment); err != nil {
		log.Printf("[ERR] (cli) %s", err)
		return exitFatal
	}

	out := sink.New(os.Stdout)

	if err := startup.Run(cfg, config.StringVal(cfg.StartupStatePath), out); err != nil {
		log.Printf("[ERR] (cli) %s", err)
		return exitFatal
	}

	super, err := supervisor.New(cfg, out)
	if err != nil {
		log.Printf("[ERR] (cli) %s", err)
		return exitFatal
	}

	if err := super.StartServices(); err != nil {
		log.Printf("[ERR] (cli) %s", err)
		return exitFatal
	}

	stop := make(chan struct{})
	go func() {
		sig := supervisor.WaitForShutdownSignal()
		log.Printf("[INFO] (cli) received signal %s, shutting down", sig)
		close(stop)
	}()

	super.Run(stop)
	super.Shutdown()

	return exitOK
}
