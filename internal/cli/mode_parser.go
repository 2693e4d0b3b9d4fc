package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

const (
	ModeAPI           = "api"
	ModePaymentWorker = "payment-worker"
)

// isKnownMode checks if the provided mode name is known.
func isKnownMode(s string) (string, bool) {
	switch s {
	case ModeAPI, "server":
		return ModeAPI, true
	case ModePaymentWorker, "payments", "worker":
		return ModePaymentWorker, true
	default:
		return "", false
	}
}

// ParseMode supports:
//
//	--mode=<value>
//	<value> (subcommand shorthand), e.g., `api --port=3001`
func ParseMode(args []string) (string, []string, error) {
	var mode string
	var out []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "--mode=") {
			mode = strings.TrimPrefix(arg, "--mode=")
			continue
		}

		if mode == "" {
			if m, ok := isKnownMode(arg); ok {
				mode = m
				continue
			}
		}
		out = append(out, arg)
	}

	if mode == "" {
		return "", out, nil
	}

	if m, ok := isKnownMode(mode); ok {
		mode = m
	}

	return mode, out, nil
}

// PrintUsage prints the usage information with examples.
func PrintUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage:
  ./order-service --mode=<service> [flags]

Services (modes):
  api               HTTP API for items and orders
  payment-worker    Kafka consumer that applies payment outcomes to orders

Examples:
  ./order-service --mode=api --port=3000
  ./order-service --mode=payment-worker`)
}

func AttachUsage(fs *flag.FlagSet, mode string) {
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: ./order-service --mode=%s [flags]\n", mode)
		fs.PrintDefaults()
	}
}
