package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/energridgo/internal/app"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		want     *app.Config
		wantExit bool
		wantErr  string
	}{
		{
			name: "positional path with defaults",
			args: []string{"network"},
			want: &app.Config{NetworkPath: "network", LogFormat: "text", LogLevel: "info", WorkerCount: 4},
		},
		{
			name: "long flag wins over shorthand and positional",
			args: []string{"-network", "a.hcl", "-n", "b.hcl", "c.hcl"},
			want: &app.Config{NetworkPath: "a.hcl", LogFormat: "text", LogLevel: "info", WorkerCount: 4},
		},
		{
			name: "all options",
			args: []string{"-n", "net", "-mode", "OPERATE", "-log-format", "json", "-log-level", "debug", "-workers", "8", "-standard-form"},
			want: &app.Config{
				NetworkPath:  "net",
				Mode:         "operate",
				LogFormat:    "json",
				LogLevel:     "debug",
				WorkerCount:  8,
				StandardForm: true,
			},
		},
		{name: "help", args: []string{"-h"}, wantExit: true},
		{name: "no path prints usage", args: nil, wantExit: true},
		{name: "unknown flag", args: []string{"-grid", "x"}, wantErr: "flag provided but not defined: -grid"},
		{name: "bad log format", args: []string{"-log-format", "xml", "n"}, wantErr: "invalid log-format"},
		{name: "bad log level", args: []string{"-log-level", "trace", "n"}, wantErr: "invalid log-level"},
		{name: "bad mode", args: []string{"-mode", "dispatch", "n"}, wantErr: "mode must be"},
		{name: "no workers", args: []string{"-workers", "0", "n"}, wantErr: "worker count must be positive"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg, exit, err := Parse(tc.args, &out)
			if tc.wantErr != "" {
				var exitErr *ExitError
				require.True(t, errors.As(err, &exitErr))
				assert.Equal(t, 2, exitErr.Code)
				assert.Contains(t, exitErr.Message, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantExit, exit)
			if tc.wantExit {
				assert.Contains(t, out.String(), "Usage:")
				assert.Nil(t, cfg)
				return
			}
			assert.Equal(t, tc.want, cfg)
		})
	}
}
