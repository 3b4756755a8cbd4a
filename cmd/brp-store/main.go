// Command brp-store inspects the Redis character store: it lists stored
// records, reports those that no longer decode, and copies them into SQLite.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/brp-sheet/internal/config"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
	"github.com/KirkDiggler/brp-sheet/internal/records"
	"github.com/KirkDiggler/brp-sheet/internal/repositories/characters"
)

const keyPattern = "character:*"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	client, err := connect(ctx, cfg.Redis)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer client.Close()

	switch os.Args[1] {
	case "list":
		err = listCmd(ctx, client, os.Stdout)
	case "check":
		err = checkCmd(ctx, client, os.Stdout)
	case "copy":
		err = copyCmd(ctx, client, os.Args[2:], os.Stdout)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: brp-store <list|check|copy> [flags]")
}

func connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	url := cfg.URL
	if url == "" {
		url = "redis://localhost:6379/0"
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if cfg.DB > 0 {
		opts.DB = cfg.DB
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// stored is one raw character record
type stored struct {
	Key  string
	Data []byte
	// Err is set when the record fails schema validation
	Err error
}

// scanRecords walks every character key. Keys that vanish mid scan are
// skipped.
func scanRecords(ctx context.Context, client redis.UniversalClient, fn func(stored) error) error {
	iter := client.Scan(ctx, 0, keyPattern, 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := client.Get(ctx, key).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := fn(stored{Key: key, Data: data, Err: records.Validate(data)}); err != nil {
			return err
		}
	}
	return iter.Err()
}

func listCmd(ctx context.Context, client redis.UniversalClient, out io.Writer) error {
	count := 0
	err := scanRecords(ctx, client, func(s stored) error {
		count++
		status := "ok"
		if s.Err != nil {
			status = "invalid"
		}
		fmt.Fprintf(out, "  %s: %d bytes, %s\n", strings.TrimPrefix(s.Key, "character:"), len(s.Data), status)
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "found %d characters\n", count)
	return nil
}

// checkCmd fails when any record is invalid so it can gate a deploy
func checkCmd(ctx context.Context, client redis.UniversalClient, out io.Writer) error {
	bad := 0
	err := scanRecords(ctx, client, func(s stored) error {
		if s.Err == nil {
			return nil
		}
		bad++
		fmt.Fprintf(out, "%s: %v\n", s.Key, s.Err)
		return nil
	})
	if err != nil {
		return err
	}
	if bad > 0 {
		return brperr.Validationf("%d invalid character records", bad)
	}
	fmt.Fprintln(out, "all character records are valid")
	return nil
}

func copyCmd(ctx context.Context, client redis.UniversalClient, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("copy", flag.ContinueOnError)
	fs.SetOutput(out)
	path := fs.String("sqlite", "", "SQLite database to copy into (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return brperr.InvalidArgument("-sqlite is required")
	}

	dest, err := characters.OpenSQLite(&characters.SQLiteRepoConfig{Path: *path})
	if err != nil {
		return err
	}
	defer dest.Close()

	return copyRecords(ctx, client, dest, records.DefaultRegistry(), out)
}

func copyRecords(ctx context.Context, client redis.UniversalClient, dest characters.Repository, reg *records.Registry, out io.Writer) error {
	var copied, skipped int
	err := scanRecords(ctx, client, func(s stored) error {
		if s.Err != nil {
			skipped++
			fmt.Fprintf(out, "skip %s: %v\n", s.Key, s.Err)
			return nil
		}
		sheet, err := reg.Unmarshal(s.Data)
		if err != nil {
			skipped++
			fmt.Fprintf(out, "skip %s: %v\n", s.Key, err)
			return nil
		}
		err = dest.Create(ctx, sheet)
		switch {
		case brperr.IsAlreadyExists(err):
			skipped++
			fmt.Fprintf(out, "skip %s: already copied\n", s.Key)
		case err != nil:
			return err
		default:
			copied++
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "copied %d, skipped %d\n", copied, skipped)
	return nil
}
