package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/go-drift/motion/cmd/motion/internal/config"
	"github.com/go-drift/motion/cmd/motion/internal/watch"
	"github.com/go-drift/motion/pkg/document"
	"github.com/go-drift/motion/pkg/root"
)

func init() {
	RegisterCommand(&Command{
		Name:  "watch",
		Short: "Run a document in real time and reload it on save",
		Long: `Run a document against the wall clock, printing property changes
as they happen. Saving the document reinflates it in place; saving
motion.yaml restarts it with the new configuration.

Press Ctrl+C to stop.

Flags:
  --step MS          Tick interval in milliseconds (default 100)
  --fast             Run commands in fast mode
  --command NAME     Run the document's named command after each load
  --arg KEY=VALUE    Argument for --command; may be repeated
  --config PATH      Use this motion.yaml instead of the nearest one`,
		Usage: "motion watch <document.yaml> [flags]",
		Run:   runWatch,
	})
}

func runWatch(args []string) error {
	opts, err := parseRunArgs(args)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return watchDocument(ctx, opts)
}

func watchDocument(ctx context.Context, opts runOptions) error {
	docPath, err := filepath.Abs(opts.doc)
	if err != nil {
		return err
	}
	opts.doc = docPath

	dirs := []string{filepath.Dir(docPath)}
	if opts.config != "" {
		if opts.config, err = filepath.Abs(opts.config); err != nil {
			return err
		}
		if cfgDir := filepath.Dir(opts.config); cfgDir != dirs[0] {
			dirs = append(dirs, cfgDir)
		}
	}
	w, err := watch.New(dirs...)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", docPath, err)
	}
	defer w.Close()

	r, err := load(opts)
	if err != nil {
		return err
	}
	start := time.Now()
	p := &printer{w: stdout, root: r}
	startCommand(r, opts)
	p.flush()

	ticker := time.NewTicker(opts.step)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.CancelExecution()
			p.flush()
			return nil

		case now := <-ticker.C:
			r.UpdateTime(now.Sub(start))
			completeHostScrolls(r)
			p.flush()

		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			switch {
			case path == docPath:
				doc, err := document.Load(docPath)
				if err != nil {
					fmt.Fprintf(os.Stderr, "reload: %v\n", err)
					continue
				}
				if err := r.Reinflate(doc); err != nil {
					fmt.Fprintf(os.Stderr, "reload: %v\n", err)
					continue
				}
				fmt.Fprintf(stdout, "-- reloaded %s\n", filepath.Base(docPath))
			case filepath.Base(path) == config.FileName || path == opts.config:
				next, err := load(opts)
				if err != nil {
					fmt.Fprintf(os.Stderr, "restart: %v\n", err)
					continue
				}
				r.CancelExecution()
				r = next
				p.root = r
				start = time.Now()
				fmt.Fprintf(stdout, "-- restarted with %s\n", filepath.Base(path))
			default:
				continue
			}
			startCommand(r, opts)
			p.flush()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		}
	}
}

func startCommand(r *root.Root, opts runOptions) {
	if opts.command == "" {
		return
	}
	if _, err := r.ExecuteNamed(opts.command, opts.args, opts.fast); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", opts.command, err)
	}
}
