package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"comhere/internal/catalog"
	"comhere/internal/config"
	"comhere/internal/domain"
	"comhere/internal/pipeline"
	"comhere/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)
	config.SetupLogger(cfg)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		domainName := fs.String("domain", "", "cpu|gpu")
		input := fs.String("input", "", "vendor workbook (xlsx)")
		static := fs.String("static", "", "static catalog json (defaults from env)")
		out := fs.String("out", "", "optional scored-table export (xlsx)")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*domainName) == "" || strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--domain and --input are required"))
		}

		d, err := domain.ByName(*domainName)
		must(err)
		d.MinWeightSum = cfg.ScoreMinWeightSum

		staticPath := *static
		if staticPath == "" {
			staticPath = cfg.StaticPath(d.Name)
		}

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		svc := pipeline.NewService(db, cfg)
		result, err := svc.Run(context.Background(), d, pipeline.RunOptions{
			InputPath:  *input,
			StaticPath: staticPath,
			ExportPath: *out,
		})
		must(err)
		fmt.Printf("run %s done domain=%s rows=%d matched=%d unmatched=%d excluded=%d scored=%d written=%d updated=%d degraded=%v\n",
			result.TraceID, d.Name, result.Rows, result.Matched, result.Unmatched, result.Excluded, result.Scored, result.Written, result.Updated, result.Degraded)
	case "catalog:check":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		domainName := fs.String("domain", "", "cpu|gpu")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*domainName) == "" {
			must(fmt.Errorf("--domain is required"))
		}

		d, err := domain.ByName(*domainName)
		must(err)

		client := catalog.NewClient(cfg)
		records, err := client.FetchRecords(context.Background(), d)
		must(err)
		index := catalog.BuildIndex(records)
		fmt.Printf("live catalog ok domain=%s records=%d normalized=%d\n", d.Name, len(records), index.Len())
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: comhere <command>")
	fmt.Println("commands:")
	fmt.Println("  run --domain=cpu|gpu --input=sheet.xlsx [--static=catalog.json] [--out=scored.xlsx]")
	fmt.Println("  catalog:check --domain=cpu|gpu")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
