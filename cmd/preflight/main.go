// cmd/preflight/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"

	"github.com/hamed0406/labdash/internal/config"
	"github.com/hamed0406/labdash/internal/domain"
	"github.com/hamed0406/labdash/internal/probe"
)

func main() {
	resolve := flag.Bool("dns", false, "resolve every target host")
	flag.Parse()

	if !run(context.Background(), config.FromEnv(), *resolve, os.Stdout, os.Stderr) {
		os.Exit(1)
	}
}

// run prints ✔/⚠/✖ lines and reports whether preflight passed.
func run(ctx context.Context, cfg config.Config, resolve bool, stdout, stderr io.Writer) bool {
	passed := true
	fail := func(msg string) {
		fmt.Fprintln(stderr, "✖", msg)
		passed = false
	}
	warn := func(msg string) { fmt.Fprintln(stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Fprintln(stdout, "✔", msg) }

	ok("ADDR=" + cfg.Addr)
	ok(fmt.Sprintf("CHECK_INTERVAL=%s PROBE_TIMEOUT=%s", cfg.CheckInterval, cfg.ProbeTimeout))
	if cfg.ProbeTimeout >= cfg.CheckInterval {
		warn("PROBE_TIMEOUT is not shorter than CHECK_INTERVAL; passes may overrun and ticks will be skipped.")
	}
	if cfg.InsecureTLS {
		warn("PROBE_INSECURE_TLS on: certificate errors will not mark targets offline.")
	}
	if len(cfg.AllowedOrigin) == 0 {
		warn("ALLOWED_ORIGINS empty: API answers CORS requests from any origin; /ws accepts same-host pages only.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigin, ","))
	}

	if err := cfg.Validate(); err != nil {
		fail(err.Error())
	} else if cfg.StatusPageURL != "" {
		ok("STATUS_PAGE_URL=" + cfg.StatusPageURL)
	}

	dash, err := config.LoadDashboard(cfg.DashboardFile)
	if err != nil {
		for _, e := range multierr.Errors(err) {
			fail(e.Error())
		}
		return false
	}
	ok(fmt.Sprintf("%s: %d service(s), %d website(s)", cfg.DashboardFile, len(dash.Services), len(dash.Websites)))
	for _, w := range dash.Warnings() {
		warn(w)
	}

	if resolve {
		for _, g := range []domain.Group{domain.GroupServices, domain.GroupWebsites} {
			for _, t := range dash.Targets(g) {
				s := probe.CheckDNS(ctx, t.URL)
				if s.Class == probe.ReasonResolves {
					continue
				}
				warn(fmt.Sprintf("%s %q host %s: %s", g, t.ID, s.Domain, s.Class))
			}
		}
	}

	if passed {
		ok("preflight passed")
	}
	return passed
}
