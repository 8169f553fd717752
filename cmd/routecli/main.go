// routecli plans a route through catalogued stores and prints it with a Google Maps link.
//
//	routecli [-origin lat,lon] "l5 c30 fo70"
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"store-route-service/internal/app"
	"store-route-service/internal/config"
	"store-route-service/internal/domain"
	"store-route-service/internal/platform/db"
	"store-route-service/internal/services"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	originFlag := flag.String("origin", "", "start position as lat,lon (e.g. 47.010,28.863); without it the first store is the start")
	modeFlag := flag.String("mode", "", "from-location or from-first-stop (default depends on -origin)")
	timeout := flag.Duration("timeout", 90*time.Second, "overall planning deadline")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: routecli [flags] \"l5 c30 fo70\"\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	query := strings.Join(flag.Args(), " ")
	if strings.TrimSpace(query) == "" {
		flag.Usage()
		return fmt.Errorf("no store codes given")
	}

	_ = godotenv.Load()
	cfg := config.Load()
	log := app.NewLogger(os.Stderr, "routecli", cfg.ServiceVersion, config.Get("LOG_LEVEL", "warn"))

	origin, err := parseOrigin(*originFlag)
	if err != nil {
		return err
	}
	mode, err := cliMode(*modeFlag, origin != nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var pg *sql.DB
	if cfg.DatabaseURL != "" {
		if pg, err = db.Open(ctx, cfg.DatabaseURL); err != nil {
			return err
		}
		defer pg.Close()
	}

	cat, err := app.OpenCatalog(ctx, cfg, pg, log)
	if err != nil {
		return err
	}

	keys, ignored := cat.Brands().ParseCodes(query)
	for _, tok := range ignored {
		fmt.Fprintf(os.Stderr, "ignoring %q: not a store code\n", tok)
	}
	if need := minStops(mode); len(keys) < need {
		return fmt.Errorf("need at least %d store codes, e.g. l5 c30 fo70", need)
	}

	gw, closeGateway, err := app.NewGateway(ctx, cfg, pg, log, nil)
	if err != nil {
		return err
	}
	defer closeGateway()

	res, err := services.PlanStoreRoute(ctx, services.StoreRouteRequest{
		Keys:   keys,
		Origin: origin,
		Mode:   mode,
	}, cat, app.NewOptimizer(cfg, gw, log, nil))
	if err != nil {
		return err
	}

	printRoute(os.Stdout, mode, keys, res)
	return nil
}

func cliMode(text string, hasOrigin bool) (domain.Mode, error) {
	if text == "" && hasOrigin {
		return domain.ModeFromLocation, nil
	}
	return domain.ParseMode(text)
}

func minStops(mode domain.Mode) int {
	if mode == domain.ModeFromLocation {
		return 1
	}
	return 2
}
