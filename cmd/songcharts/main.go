package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"songcharts/internal"
	"songcharts/internal/chart"
	"songcharts/internal/config"
	"songcharts/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := os.Args[1]
	switch cmd {
	case "year":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		yearArg := fs.String("year", "", fmt.Sprintf("chart year (%d-%d)", cfg.YearMin, cfg.YearMax))
		format := fs.String("format", string(cfg.OutputFormat), "csv|xlsx")
		_ = fs.Parse(os.Args[2:])
		cfg = withFormat(cfg, *format)

		input := *yearArg
		if strings.TrimSpace(input) == "" {
			input = promptYear(cfg)
		}
		year, err := config.ParseYear(input, cfg.YearMin, cfg.YearMax)
		must(err)

		svc := pipeline.NewProcessingService(chart.NewClient(cfg), cfg, os.Stdout)
		must(svc.EnsureOutputDir())
		res := svc.ProcessYear(ctx, year)
		switch res.Status {
		case internal.YearWritten:
			fmt.Printf("wrote %d songs for %d to %s\n", res.Written, year, res.OutputPath)
		case internal.YearEmpty:
			fmt.Printf("no songs to write for %d\n", year)
		default:
			must(fmt.Errorf("year %d: %w", year, res.Err))
		}
	case "all":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		from := fs.Int("from", cfg.BatchFrom, "first year")
		to := fs.Int("to", cfg.BatchTo, "last year (inclusive)")
		format := fs.String("format", string(cfg.OutputFormat), "csv|xlsx")
		_ = fs.Parse(os.Args[2:])
		cfg = withFormat(cfg, *format)
		if *from > *to {
			must(fmt.Errorf("--from %d is after --to %d", *from, *to))
		}

		svc := pipeline.NewProcessingService(chart.NewClient(cfg), cfg, os.Stdout)
		must(svc.EnsureOutputDir())
		summary, err := svc.ProcessRange(ctx, *from, *to)
		must(err)
		for _, res := range summary.Results {
			if res.Status == internal.YearFailed {
				fmt.Fprintf(os.Stderr, "year %d failed: %v\n", res.Year, res.Err)
			}
		}
	case "parse":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "saved chart page (html)")
		yearArg := fs.String("year", "", "chart year the page belongs to")
		format := fs.String("format", string(cfg.OutputFormat), "csv|xlsx")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" || strings.TrimSpace(*yearArg) == "" {
			must(fmt.Errorf("--input and --year are required"))
		}
		cfg = withFormat(cfg, *format)
		year, err := config.ParseYear(*yearArg, cfg.YearMin, cfg.BatchTo)
		must(err)

		svc := pipeline.NewProcessingService(nil, cfg, os.Stdout)
		res, err := svc.ProcessLocalFile(year, *input)
		must(err)
		if res.Err != nil {
			must(res.Err)
		}
		fmt.Printf("parse done year=%d status=%s songs=%d\n", year, res.Status, res.Written)
	case "normalize":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		title := fs.String("title", "", "raw track title")
		artist := fs.String("artist", "", "raw artist credit")
		_ = fs.Parse(os.Args[2:])
		if *title == "" && *artist == "" {
			must(fmt.Errorf("--title or --artist is required"))
		}
		if *title != "" {
			fmt.Printf("title: %q -> %q\n", *title, pipeline.NormalizeTitle(*title))
		}
		if *artist != "" {
			fmt.Printf("artist: %q -> %q\n", *artist, pipeline.NormalizeArtist(*artist))
		}
	default:
		usage()
		os.Exit(1)
	}
}

func withFormat(cfg config.Config, format string) config.Config {
	cfg.OutputFormat = internal.OutputFormat(strings.ToLower(strings.TrimSpace(format)))
	must(cfg.Validate())
	return cfg
}

func promptYear(cfg config.Config) string {
	fmt.Printf("What year's Billboard Hot 100 songs would you like to scrape? (%d-%d): ", cfg.YearMin, cfg.YearMax)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}

func usage() {
	fmt.Println("usage: songcharts <command>")
	fmt.Println("commands:")
	fmt.Println("  year [--year=2000] [--format=csv|xlsx]")
	fmt.Println("  all [--from=1960] [--to=2026] [--format=csv|xlsx]")
	fmt.Println("  parse --input=page.html --year=2000 [--format=csv|xlsx]")
	fmt.Println("  normalize [--title=...] [--artist=...]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
