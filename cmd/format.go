package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/lukman83/ozon-sync/internal/pipeline"
)

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// progressContext returns a context whose progress messages go to the logger.
func progressContext() context.Context {
	return pipeline.WithProgress(context.Background(), func(msg string) {
		logger.Info().Msg(msg)
	})
}

// describeError turns transport failures into distinct user-facing messages.
// Everything else is passed through untouched.
func describeError(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("timed out waiting for the remote side: %w", err)
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return fmt.Errorf("connection error: %w", err)
	}
	return err
}
