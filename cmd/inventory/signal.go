package main

import (
	"io"
	"log/slog"
	"os"
)

// exitOnSignal waits for one signal, closes every closer in order and calls
// exit(130). The session blocks on stdin and cannot observe a cancelled
// context, so shutdown happens here. exit skips deferred calls in run:
// anything that must be released on interrupt has to be passed as a closer.
func exitOnSignal(sigCh <-chan os.Signal, exit func(int), closers ...io.Closer) {
	sig := <-sigCh
	slog.Info("shutting down", "signal", sig.String())
	for _, c := range closers {
		if err := c.Close(); err != nil {
			slog.Warn("close on shutdown", "error", err)
		}
	}
	exit(130)
}
