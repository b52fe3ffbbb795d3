package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/avern/bmcfand/internal/api"
	"github.com/avern/bmcfand/internal/configuration"
	"github.com/avern/bmcfand/internal/controller"
	"github.com/avern/bmcfand/internal/session"
	"github.com/avern/bmcfand/internal/statistics"
	"github.com/avern/bmcfand/internal/ui"
	"github.com/avern/bmcfand/internal/util"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RunDaemon() {
	if getProcessOwner() != "root" {
		ui.Fatal("Fan control requires root permissions to be able to talk to the BMC, please run bmcfand as root")
	}

	if pidFile := configuration.CurrentConfig.PidFile; pidFile != "" {
		if err := util.WritePidFile(pidFile); err != nil {
			ui.Fatal("Unable to write pid file %s: %v", pidFile, err)
		}
	}

	sessions := openSessions()

	statistics.Register(statistics.NewZoneCollector())

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		enabled := configuration.CurrentConfig.Statistics.Enabled
		if enabled {
			// === Prometheus Exporter
			port := configuration.CurrentConfig.Statistics.Port
			addr := fmt.Sprintf(":%d", port)
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			server := &http.Server{Addr: addr, Handler: mux}

			g.Add(func() error {
				ui.Info("Starting statistics server on %s", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					ui.Error("Cannot start prometheus metrics endpoint (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				if err := server.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping statistics server: %v", err)
				}
			})
		}
	}
	{
		enabled := configuration.CurrentConfig.Api.Enabled
		if enabled {
			// === REST Api
			restService := api.CreateRestService()
			addr := fmt.Sprintf("%s:%d", configuration.CurrentConfig.Api.Host, configuration.CurrentConfig.Api.Port)

			g.Add(func() error {
				ui.Info("Starting REST api server on %s", addr)
				if err := restService.Start(addr); err != nil && err != http.ErrServerClosed {
					ui.Error("Cannot start REST api endpoint (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping REST api server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				if err := restService.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping REST api server: %v", err)
				}
			})
		}
	}
	{
		// === zone controllers
		for _, zoneConfig := range configuration.CurrentConfig.Zones {
			config := zoneConfig
			zoneController := controller.NewZoneController(config, sessions[config.Session])

			g.Add(func() error {
				err := zoneController.Run(ctx)
				ui.Info("Zone controller for zone '%s' stopped.", config.Name)
				return err
			}, func(err error) {
				if err != nil {
					ui.Warning("Zone controller for zone '%s' failed: %v", config.Name, err)
				}
			})
		}
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			<-sig
			ui.Info("Received exit signal, shutting down...")
			return nil
		}, func(err error) {
			defer close(sig)
			cancel()
		})
	}

	err := g.Run()
	// hardware is restored before the exit code is decided, the machine must
	// never be left with firmware fan control disabled
	releaseSessions(sessions)
	if pidFile := configuration.CurrentConfig.PidFile; pidFile != "" {
		util.RemovePidFile(pidFile)
	}

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

// openSessions connects one session per session name referenced by a zone.
// Each session is told about every hardware zone id it will have to restore,
// across all zones bound to it.
func openSessions() map[string]*session.Session {
	restoreZones := map[string][]uint8{}
	for _, zone := range configuration.CurrentConfig.Zones {
		seen := map[uint8]bool{}
		for _, id := range restoreZones[zone.Session] {
			seen[id] = true
		}
		for _, id := range zone.IpmiZones {
			if !seen[id] {
				restoreZones[zone.Session] = append(restoreZones[zone.Session], id)
				seen[id] = true
			}
		}
	}

	names := make([]string, 0, len(restoreZones))
	for name := range restoreZones {
		names = append(names, name)
	}
	sort.Strings(names)

	sessions := map[string]*session.Session{}
	for _, name := range names {
		connectArgs := configuration.CurrentConfig.Sessions[name]
		s, err := session.Open(name, connectArgs, restoreZones[name])
		if err != nil {
			releaseSessions(sessions)
			ui.Fatal("Unable to open session '%s': %v", name, err)
		}
		sessions[name] = s
	}

	return sessions
}

func releaseSessions(sessions map[string]*session.Session) {
	for _, s := range sessions {
		s.Release()
	}
}

func getProcessOwner() string {
	stdout, err := exec.Command("ps", "-o", "user=", "-p", strconv.Itoa(os.Getpid())).Output()
	if err != nil {
		ui.Fatal("Error checking process owner: %v", err)
		os.Exit(1)
	}
	return strings.TrimSpace(string(stdout))
}
