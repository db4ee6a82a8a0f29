// Command ficbox browses the catalog, tracks reading status and opens blind
// boxes from the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	_ "github.com/joho/godotenv/autoload"
	"github.com/theLastOfCats/ficbox/internal/app"
	"github.com/theLastOfCats/ficbox/internal/auth"
	"github.com/theLastOfCats/ficbox/internal/config"
	"github.com/theLastOfCats/ficbox/internal/logger"
)

const usage = `usage: ficbox [-ephemeral] <command> [args]

commands:
  list [-q query] [-rating G|T|M|E] [-status completed|ongoing]
  status [id [none|reading|completed|dropped]]
  blindbox fluff|angst|spicy
  cache clear
  token [-ttl duration]
`

func main() {
	ephemeral := flag.Bool("ephemeral", false, "keep state in memory only")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// Only warnings and errors reach the terminal; results go to stdout.
	log := logger.SetupDefault(os.Stderr, max(logger.ParseLevel(cfg.LogLevel), slog.LevelWarn))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, log, *ephemeral, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "ficbox:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, ephemeral bool, args []string, out io.Writer) error {
	cmd, rest := args[0], args[1:]

	if cmd == "token" {
		return runToken(cfg, rest, out)
	}

	components, err := app.Open(ctx, cfg, ephemeral, log)
	if err != nil {
		return err
	}
	defer components.Close()

	c := &cli{components: components, out: out, revealDelay: cfg.RevealDelay}
	switch cmd {
	case "list":
		return c.list(ctx, rest)
	case "status":
		return c.status(ctx, rest)
	case "blindbox":
		return c.blindbox(ctx, rest)
	case "cache":
		return c.cache(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runToken(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	ttl := fs.Duration("ttl", 0, "token lifetime, 0 for no expiry")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if cfg.WidgetSecret == "" {
		return fmt.Errorf("WIDGET_SECRET is not set")
	}

	token, err := auth.NewTokens(cfg.WidgetSecret).Issue(*ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)
	return nil
}
