package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nerrad567/smarthome-core/internal/infrastructure/config"
	"github.com/nerrad567/smarthome-core/internal/infrastructure/logging"
)

// listRules loads the configuration, builds every rule, task and scene the
// server would run, and prints them. A config that fails here would also
// fail at startup.
func listRules(w io.Writer, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	quiet := logging.NewWithWriter(config.LoggingConfig{Level: "error", Format: "text"}, version, io.Discard)
	c, err := buildCore(cfg, quiet)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "HOME\t%s\t(%d rooms, %d devices, %s)\n",
		c.home.Name(), len(c.home.Rooms()), len(c.home.Devices()), cfg.Location())

	fmt.Fprintln(tw, "\nRULE\tENABLED\tDESCRIPTION")
	for _, r := range c.engine.Rules() {
		fmt.Fprintf(tw, "%s\t%t\t%s\n", r.Name(), r.Enabled(), r.Describe())
	}

	fmt.Fprintln(tw, "\nTASK\tAT\tNEXT RUN")
	for _, t := range c.scheduler.Tasks() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Description, t.At, t.NextRun.Format("2006-01-02 15:04 MST"))
	}

	fmt.Fprintln(tw, "\nSCENE\tACTIONS")
	for _, name := range c.scenes.Names() {
		scene, err := c.scenes.Get(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", scene.Name, strings.TrimPrefix(scene.Describe(), "scene "+scene.Name+": "))
	}

	return tw.Flush()
}
