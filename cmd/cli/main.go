package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/labdash/internal/config"
	"github.com/hamed0406/labdash/internal/domain"
	"github.com/hamed0406/labdash/internal/probe"
	"github.com/hamed0406/labdash/internal/repo/memory"
	"github.com/hamed0406/labdash/internal/scheduler"
)

func main() {
	cfg := config.FromEnv()
	var (
		file    = flag.String("dashboard", cfg.DashboardFile, "path to the dashboard YAML")
		timeout = flag.Duration("timeout", cfg.ProbeTimeout, "per-probe timeout")
		strict  = flag.Bool("strict", false, "exit 1 when any target is offline")
	)
	flag.Parse()

	dash, err := config.LoadDashboard(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load dashboard:", err)
		os.Exit(2)
	}

	offline := runOnce(context.Background(), dash, probe.NewHTTPChecker(*timeout, cfg.InsecureTLS), *timeout, os.Stdout)
	if *strict && offline > 0 {
		os.Exit(1)
	}
}

// runOnce probes both groups once, concurrently, prints a table and
// returns the number of offline targets.
func runOnce(ctx context.Context, dash *config.Dashboard, checker probe.Checker, timeout time.Duration, out io.Writer) int {
	store := memory.New()
	groups := []domain.Group{domain.GroupServices, domain.GroupWebsites}
	var eg errgroup.Group
	for _, g := range groups {
		agg := scheduler.NewAggregator(zap.NewNop(), g, dash.Targets(g), checker, store, timeout)
		eg.Go(func() error {
			agg.RunPass(ctx)
			return nil
		})
	}
	_ = eg.Wait()

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tID\tSTATUS\tURL")
	offline := 0
	for _, g := range groups {
		snap, _ := store.Snapshot(ctx, g)
		targets := append([]domain.Target(nil), dash.Targets(g)...)
		sort.SliceStable(targets, func(i, j int) bool { return targets[i].ID < targets[j].ID })
		for _, t := range targets {
			v := snap.Statuses.Verdict(t.ID)
			if v != domain.VerdictOnline {
				offline++
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", g, t.ID, v, t.URL)
		}
	}
	_ = tw.Flush()
	return offline
}
