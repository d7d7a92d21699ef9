package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"ghibligraph/internal/catalog"
	"ghibligraph/internal/client"

	"github.com/alecthomas/kong"
)

type cli struct {
	Endpoint string        `help:"GraphQL endpoint." env:"FILMS_ENDPOINT" default:"http://localhost:8080/graphql"`
	Timeout  time.Duration `help:"Request timeout." default:"10s"`
	Quiet    bool          `short:"q" help:"Do not print loading progress."`

	List listCmd `cmd:"" help:"List every film."`
	Get  getCmd  `cmd:"" help:"Show one film."`
}

type listCmd struct{}

type getCmd struct {
	ID string `arg:"" help:"Film id."`
}

// app is bound into every command's Run.
type app struct {
	ctx    context.Context
	films  *client.Client
	quiet  bool
	stdout io.Writer
	stderr io.Writer
}

func (c *listCmd) Run(a *app) error {
	var films []catalog.Film
	for s := range a.films.FetchFilms(a.ctx) {
		if s.Loading {
			a.loading()
			continue
		}
		if s.Err != nil {
			return s.Err
		}
		films = s.Data
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tRELEASED\tDIRECTOR")
	for _, f := range films {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", value(f.ID), value(f.Title), value(f.ReleaseDate), value(f.Director))
	}
	return tw.Flush()
}

func (c *getCmd) Run(a *app) error {
	var film catalog.Film
	for s := range a.films.FetchFilm(a.ctx, c.ID) {
		if s.Loading {
			a.loading()
			continue
		}
		if s.Err != nil {
			return s.Err
		}
		film = s.Data
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	rows := []struct {
		label string
		v     *string
	}{
		{"Title", film.Title},
		{"Director", film.Director},
		{"Released", film.ReleaseDate},
		{"Running time", film.RunningTime},
		{"RT score", film.RTScore},
		{"Description", film.Description},
		{"Image", film.Image},
		{"Banner", film.MovieBanner},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", row.label, value(row.v))
	}
	return tw.Flush()
}

func (a *app) loading() {
	if !a.quiet {
		fmt.Fprintln(a.stderr, "Loading...")
	}
}

func value(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// run parses args, executes the selected command and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var flags cli
	exitCode := -1
	parser, err := kong.New(&flags,
		kong.Name("films"),
		kong.Description("Query the Studio Ghibli GraphQL service."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	kctx, err := parser.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	films, err := client.New(flags.Endpoint)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(ctx, flags.Timeout)
	defer cancel()

	if err := kctx.Run(&app{ctx: ctx, films: films, quiet: flags.Quiet, stdout: stdout, stderr: stderr}); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
