package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"tzcal/internal/calendar"
	"tzcal/internal/config"
	"tzcal/internal/ics"
	appLog "tzcal/internal/log"
)

type flagConfig struct {
	configPath string
	once       bool
	export     string
}

// logObserver mirrors engine notifications onto the log.
type logObserver struct{}

func (logObserver) CalendarAdded(name string) {
	appLog.Info("calendar added", "name", name)
}

func (logObserver) CursorChanged(cal string, year int, month time.Month) {
	appLog.Debug("cursor moved", "calendar", cal, "year", year, "month", month.String())
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	appLog.Info("tzcal starting",
		"default_timezone", conf.DefaultTimezone,
		"agenda_cron", conf.AgendaCron,
		"calendar_count", len(conf.Calendars),
	)

	manager := calendar.NewManager()
	manager.Subscribe(logObserver{})
	seedCalendars(manager, conf)

	if flags.export != "" {
		cal, err := manager.Get(flags.export)
		if err != nil {
			appLog.Error("export failed", err, "calendar", flags.export)
			os.Exit(1)
		}
		fmt.Print(ics.Export(cal).Serialize())
		return
	}

	if flags.once {
		logAgenda(manager.Current())
		return
	}

	// Periodic agenda log until SIGINT/SIGTERM.
	sched := cron.New()
	if _, err := sched.AddFunc(conf.AgendaCron, func() { logAgenda(manager.Current()) }); err != nil {
		appLog.Error("bad agenda cron expression", err, "cron", conf.AgendaCron)
		os.Exit(1)
	}
	sched.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	appLog.Info("signal received, shutting down", "signal", sig.String())

	<-sched.Stop().Done()
	appLog.Info("tzcal exiting")
}

// seedCalendars creates the configured calendars. A bad seed is
// logged and skipped; with no usable seeds a default calendar in the
// default zone keeps the manager non-empty.
func seedCalendars(m *calendar.Manager, conf *config.Config) {
	for _, seed := range conf.Calendars {
		if _, err := m.Create(seed.Name, seed.Timezone); err != nil {
			appLog.Error("calendar seed skipped", err, "name", seed.Name, "timezone", seed.Timezone)
		}
	}
	if m.Count() == 0 {
		if _, err := m.Create("Personal (default)", conf.DefaultTimezone); err != nil {
			appLog.Error("default calendar creation failed", err, "timezone", conf.DefaultTimezone)
		}
	}
}

func logAgenda(cal *calendar.Calendar) {
	if cal == nil {
		appLog.Info("agenda: no current calendar")
		return
	}
	today := time.Now().In(cal.Zone()).Format("2006-01-02")
	events, err := cal.SearchOn(today)
	if err != nil {
		appLog.Error("agenda search failed", err, "calendar", cal.Name(), "day", today)
		return
	}
	appLog.Info("agenda", "calendar", cal.Name(), "day", today, "event_count", len(events))
	for _, e := range events {
		appLog.Info("agenda entry", "event", e.String())
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/tzcal/config.yaml", "Path to config file")
	flag.BoolVar(&cfg.once, "once", false, "Log today's agenda once and exit")
	flag.StringVar(&cfg.export, "export", "", "Write the named calendar to stdout as ICS and exit")

	flag.Parse()

	return cfg
}
