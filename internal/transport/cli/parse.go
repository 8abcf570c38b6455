package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

const (
	CommandProducts    = "products"
	CommandInitiate    = "initiate"
	CommandStatus      = "status"
	CommandScan        = "scan"
	CommandVendorToken = "vendor-token"
	CommandWatch       = "watch"
	CommandQR          = "qr"
)

// argCount is the number of positional arguments each command takes.
var argCount = map[string]int{ //nolint:gochecknoglobals
	CommandProducts:    0,
	CommandInitiate:    1,
	CommandStatus:      1,
	CommandScan:        1,
	CommandVendorToken: 1,
	CommandWatch:       1,
	CommandQR:          1,
}

var ErrUsage = errors.New("usage: dealctl [flags] products|initiate <product_id>|status <deal_id>|scan <token>|vendor-token <deal_id>|watch <deal_id>|qr <value>")

// Command is a parsed dealctl invocation. Empty flag values fall back to the
// environment configuration.
type Command struct {
	Name     string
	Arg      string
	Output   string
	BaseURL  string
	Interval time.Duration
	Timeout  time.Duration
	PNGPath  string
}

// Parse validates flags and the command
func Parse(args []string, stderr io.Writer) (Command, error) {
	var cmd Command

	fs := flag.NewFlagSet("dealctl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cmd.Output, "o", OutputText, "Output format (text, json or yaml)")
	fs.StringVar(&cmd.BaseURL, "base-url", "", "Commerce API base URL (prefer COMMERCE_BASE_URL env)")
	fs.DurationVar(&cmd.Interval, "interval", 0, "Poll interval for watch (prefer POLL_INTERVAL env)")
	fs.DurationVar(&cmd.Timeout, "timeout", 0, "Request timeout (prefer COMMERCE_TIMEOUT env)")
	fs.StringVar(&cmd.PNGPath, "png", "", "Write the QR code as PNG to this file")

	if err := fs.Parse(args); err != nil {
		return Command{}, err
	}

	switch cmd.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return Command{}, fmt.Errorf("unknown output format %q", cmd.Output)
	}

	if cmd.Interval < 0 || cmd.Timeout < 0 {
		return Command{}, errors.New("durations must not be negative")
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return Command{}, ErrUsage
	}

	cmd.Name = rest[0]

	n, ok := argCount[cmd.Name]
	if !ok {
		return Command{}, fmt.Errorf("unknown command %q: %w", cmd.Name, ErrUsage)
	}

	if len(rest)-1 != n {
		return Command{}, fmt.Errorf("%s takes %d argument(s): %w", cmd.Name, n, ErrUsage)
	}

	if n == 1 {
		cmd.Arg = rest[1]
		if strings.TrimSpace(cmd.Arg) == "" && cmd.Name != CommandScan {
			return Command{}, fmt.Errorf("%s: empty argument", cmd.Name)
		}
	}

	return cmd, nil
}
