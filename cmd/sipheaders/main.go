// Command sipheaders reads SIP messages and prints their headers.
//
// Usage:
//
//	sipheaders [-config file] [-headers CSeq,Call-ID] [-output text|json] [file ...]
//
// Messages are read from the given files, or from stdin when no files are given.
// Header values are parsed only for the printed headers, unless -eager is set.
// With -metrics-addr the command keeps serving parse counters in Prometheus
// format until interrupted.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"braces.dev/errtrace"
	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/ghettovoice/sipstack/header"
	"github.com/ghettovoice/sipstack/internal/errorutil"
	"github.com/ghettovoice/sipstack/message"
	"github.com/ghettovoice/sipstack/metrics"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		cancel()
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "sipheaders:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, files, err := parseConfig(args, stderr)
	if err != nil {
		return errtrace.Wrap(err)
	}
	logger := cfg.newLogger(stderr)

	reg := prometheus.NewRegistry()
	promRec, err := metrics.NewRecorder(reg)
	if err != nil {
		return errtrace.Wrap(err)
	}
	var stats message.StatsRecorder
	opts := &message.HeadersOptions{
		Logger:   logger,
		Recorder: message.MultiRecorder(&stats, promRec),
	}

	if len(files) == 0 {
		files = []string{"-"}
	}

	var failed atomic.Int32
	outs := make([][]byte, len(files))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.Workers)
	for i, file := range files {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return errtrace.Wrap(err)
			}

			b, err := readInput(file, stdin)
			if err != nil {
				return errtrace.Wrap(fmt.Errorf("read %q: %w", file, err))
			}

			msg, err := message.Parse(b, opts)
			if err != nil {
				failed.Add(1)
				logger.LogAttrs(egCtx, slog.LevelError, "failed to parse message",
					slog.String("file", file),
					slog.Any("error", err),
				)
				if msg == nil {
					return nil
				}
			}
			if cfg.Eager {
				if err := msg.Headers.ParseAll(); err != nil {
					logger.LogAttrs(egCtx, slog.LevelWarn, "malformed headers",
						slog.String("file", file),
						slog.Any("error", err),
					)
				}
			}

			var buf bytes.Buffer
			if cfg.Output == outputJSON {
				err = dumpJSON(&buf, file, msg, cfg.Headers)
			} else {
				err = dumpText(&buf, file, msg, cfg.Headers)
			}
			if err != nil {
				return errtrace.Wrap(err)
			}
			outs[i] = buf.Bytes()
			return nil
		})
	}
	err = eg.Wait()
	for _, out := range outs {
		if _, werr := stdout.Write(out); werr != nil {
			return errtrace.Wrap(werr)
		}
	}
	if err != nil {
		return errtrace.Wrap(err)
	}

	report := stats.Report()
	logger.LogAttrs(ctx, slog.LevelDebug, "header parse stats",
		slog.Int("files", len(files)),
		slog.Any("headers", report.Headers),
	)

	if cfg.Metrics.Addr != "" {
		if err := serveMetrics(ctx, cfg.Metrics, reg, logger); err != nil {
			return errtrace.Wrap(err)
		}
	}
	if n := failed.Load(); n > 0 {
		return errtrace.Wrap(errorutil.NewWrapperError(message.ErrInvalidMessage, "%d of %d messages failed", n, len(files)))
	}
	return nil
}

func readInput(file string, stdin io.Reader) ([]byte, error) {
	if file == "-" {
		return errtrace.Wrap2(io.ReadAll(stdin))
	}
	return errtrace.Wrap2(os.ReadFile(file))
}

// selected returns the header names to print in output order.
func selected(msg *message.Message, names []string) []header.Name {
	if len(names) == 0 {
		return msg.Headers.Names()
	}
	out := make([]header.Name, 0, len(names))
	for _, name := range names {
		out = append(out, header.CanonicName(name))
	}
	return out
}

func dumpText(w io.Writer, file string, msg *message.Message, names []string) error {
	var errs []error
	printf := func(format string, args ...any) {
		if _, err := fmt.Fprintf(w, format, args...); err != nil {
			errs = append(errs, err)
		}
	}

	printf("==> %s <==\n%s\n", file, msg.StartLine)
	for _, name := range selected(msg, names) {
		n := msg.Headers.Len(string(name))
		if n == 0 {
			printf("%s: <none>\n", name)
			continue
		}
		for i := range n {
			hdr, err := msg.Headers.Get(string(name), i)
			if err != nil {
				printf("%s[%d]: <error: %v>\n", name, i, err)
				continue
			}
			printf("%s\n", hdr.Render(nil))
		}
	}
	printf("\n")
	return errtrace.Wrap(errorutil.Join(errs...))
}

type messageDump struct {
	File      string            `json:"file"`
	StartLine string            `json:"start_line"`
	Headers   []json.RawMessage `json:"headers"`
	Errors    []string          `json:"errors,omitempty"`
}

func dumpJSON(w io.Writer, file string, msg *message.Message, names []string) error {
	dump := messageDump{
		File:      file,
		StartLine: msg.StartLine,
		Headers:   []json.RawMessage{},
	}
	for _, name := range selected(msg, names) {
		for i := range msg.Headers.Len(string(name)) {
			hdr, err := msg.Headers.Get(string(name), i)
			if err != nil {
				dump.Errors = append(dump.Errors, err.Error())
				continue
			}
			data, err := header.ToJSON(hdr)
			if err != nil {
				return errtrace.Wrap(err)
			}
			dump.Headers = append(dump.Headers, data)
		}
	}

	data, err := sonic.Marshal(dump)
	if err != nil {
		return errtrace.Wrap(err)
	}
	_, err = w.Write(append(data, '\n'))
	return errtrace.Wrap(err)
}

func serveMetrics(ctx context.Context, cfg MetricsConfig, reg *prometheus.Registry, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.LogAttrs(egCtx, slog.LevelInfo, "serving metrics",
			slog.String("addr", cfg.Addr),
			slog.String("path", cfg.Path),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errtrace.Wrap(err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return errtrace.Wrap(srv.Shutdown(shCtx))
	})
	return errtrace.Wrap(eg.Wait())
}
