package cli_test

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kiosk_commerce/internal/transport/cli"
)

func TestParse(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		args    []string
		want    cli.Command
		wantErr bool
	}{
		{
			name: "Products with defaults",
			args: []string{"products"},
			want: cli.Command{Name: cli.CommandProducts, Output: cli.OutputText},
		},
		{
			name: "Flags before command",
			args: []string{"-o", "yaml", "-interval", "3s", "-base-url", "http://backend/api/v1", "watch", "D1"},
			want: cli.Command{
				Name:     cli.CommandWatch,
				Arg:      "D1",
				Output:   cli.OutputYAML,
				BaseURL:  "http://backend/api/v1",
				Interval: 3 * time.Second,
			},
		},
		{
			name: "Scan keeps raw input",
			args: []string{"scan", " T1 "},
			want: cli.Command{Name: cli.CommandScan, Arg: " T1 ", Output: cli.OutputText},
		},
		{
			name:    "No command",
			args:    []string{},
			wantErr: true,
		},
		{
			name:    "Unknown command",
			args:    []string{"refund", "D1"},
			wantErr: true,
		},
		{
			name:    "Missing argument",
			args:    []string{"status"},
			wantErr: true,
		},
		{
			name:    "Extra argument",
			args:    []string{"products", "1"},
			wantErr: true,
		},
		{
			name:    "Unknown output",
			args:    []string{"-o", "xml", "products"},
			wantErr: true,
		},
		{
			name:    "Negative interval",
			args:    []string{"-interval", "-1s", "watch", "D1"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			cmd, err := cli.Parse(tc.args, io.Discard)
			if tc.wantErr {
				rq.Error(err)
				return
			}

			rq.NoError(err)
			rq.Equal(tc.want, cmd)
		})
	}
}
