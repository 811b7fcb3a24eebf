// Command marctool provides a set of utilities for working with MARC 21
// files, mirroring the teacher fml CLI's subcommand layout (all
// subcommands are defined in this file) and extending it to the streaming
// framer and pattern extractor.
package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	marc "github.com/marclib/marc21"
	"github.com/marclib/marc21/pattern"
)

func main() {
	if err := buildApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildApp() *cli.App {
	app := cli.NewApp()
	app.Name = "marctool"
	app.Usage = "utilities for working with MARC 21 files"

	app.Commands = []cli.Command{
		pickCommand(),
		catCommand(),
		countCommand(),
	}
	return app
}

func newLogger() (*zap.SugaredLogger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		// Structured logging is unavailable; fall back to a no-op logger
		// rather than refusing to run the command.
		logger = zap.NewNop()
	}
	return logger.Sugar(), func() { _ = logger.Sync() }
}

func openFramer(path string, forceUTF8, skipOnError bool) (*marc.Framer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "stat file")
	}
	framer, err := marc.Open(f, info.Size(), marc.StreamOptions{
		ForceUTF8:   forceUTF8,
		SkipOnError: skipOnError,
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	return framer, nil
}

func pickCommand() cli.Command {
	return cli.Command{
		Name:      "pick",
		Usage:     "pull a single MARC record from the data by control number",
		ArgsUsage: "[controlnum] [file]",
		Flags: []cli.Flag{
			cli.BoolFlag{Name: "force-utf8", Usage: "decode every record as UTF-8 regardless of the leader"},
		},
		Action: func(c *cli.Context) error {
			id := c.Args().Get(0)
			path := c.Args().Get(1)
			if id == "" || path == "" {
				return errors.New("usage: marctool pick [controlnum] [file]")
			}

			sugar, closeLogger := newLogger()
			defer closeLogger()

			framer, err := openFramer(path, c.Bool("force-utf8"), false)
			if err != nil {
				return err
			}
			defer framer.Close()

			for framer.Next() {
				rec, _ := framer.Value()
				if rec == nil {
					continue
				}
				fields := rec.GetByTag("001")
				if len(fields) == 0 {
					continue
				}
				cf, ok := fields[0].(*marc.ControlField)
				if !ok || cf.Data != id {
					continue
				}
				out, err := rec.Serialize()
				if err != nil {
					return errors.Wrap(err, "serializing matched record")
				}
				os.Stdout.Write(out)
				return nil
			}
			if err := framer.Err(); err != nil {
				return err
			}
			sugar.Warnw("control number not found", "controlnum", id, "file", path)
			return nil
		},
	}
}

func catCommand() cli.Command {
	return cli.Command{
		Name:      "cat",
		Usage:     "dump a query pattern's extracted values, one record per line",
		ArgsUsage: "[pattern] [file]",
		Flags: []cli.Flag{
			cli.BoolFlag{Name: "force-utf8"},
			cli.BoolFlag{Name: "first"},
			cli.StringFlag{Name: "separator", Usage: "join multiple values within a field with this string"},
			cli.BoolFlag{Name: "content-type", Usage: "prefix each line with the leader's content type"},
		},
		Action: func(c *cli.Context) error {
			query := c.Args().Get(0)
			path := c.Args().Get(1)
			if query == "" || path == "" {
				return errors.New("usage: marctool cat [pattern] [file]")
			}

			opts := pattern.Options{First: c.Bool("first")}
			if sep := c.String("separator"); sep != "" {
				opts.Separator = &sep
			}
			plan, err := pattern.Compile(query, opts)
			if err != nil {
				return err
			}

			sugar, closeLogger := newLogger()
			defer closeLogger()

			framer, err := openFramer(path, c.Bool("force-utf8"), true)
			if err != nil {
				return err
			}
			defer framer.Close()

			for framer.Next() {
				rec, _ := framer.Value()
				if rec == nil {
					continue
				}
				for _, w := range rec.Warnings {
					sugar.Infow("record warning", "warning", w)
				}
				values := plan.Extract(rec)
				line := ""
				if c.Bool("content-type") {
					line = rec.ContentType() + "\t"
				}
				for i, v := range values {
					if i > 0 {
						line += "; "
					}
					line += v
				}
				fmt.Println(line)
			}
			if err := framer.Err(); err != nil {
				return err
			}
			for _, exc := range framer.Exceptions() {
				sugar.Warnw("skipped malformed record", "error", exc.Err.Error())
			}
			return nil
		},
	}
}

func countCommand() cli.Command {
	return cli.Command{
		Name:      "count",
		Usage:     "stream a file and report record, warning, and exception counts",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			cli.BoolFlag{Name: "force-utf8"},
			cli.BoolFlag{Name: "debug", Usage: "spew-dump the first malformed record's raw bytes"},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().Get(0)
			if path == "" {
				return errors.New("usage: marctool count [file]")
			}

			sugar, closeLogger := newLogger()
			defer closeLogger()

			framer, err := openFramer(path, c.Bool("force-utf8"), true)
			if err != nil {
				return err
			}
			defer framer.Close()

			var records, warnings int
			for framer.Next() {
				rec, _ := framer.Value()
				if rec == nil {
					continue
				}
				records++
				warnings += len(rec.Warnings)
			}
			if err := framer.Err(); err != nil {
				return err
			}

			exceptions := framer.Exceptions()
			sugar.Infow("stream complete",
				"records", records,
				"warnings", warnings,
				"exceptions", len(exceptions),
				"progress", framer.Progress(),
			)

			if c.Bool("debug") && len(exceptions) > 0 {
				sugar.Debugw("first malformed record exception")
				spew.Dump(exceptions[0])
			}
			return nil
		},
	}
}
