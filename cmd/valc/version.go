package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"valc/internal/version"
)

type versionInfo struct {
	Version    string
	GitCommit  string
	GitMessage string
	BuildDate  string
}

type versionOptions struct {
	format      string
	showHash    bool
	showMessage bool
	showDate    bool
}

type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("message", false, "include git commit message")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show all recorded build metadata")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show valc build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := readVersionOptions(cmd)
		if err != nil {
			return err
		}
		info := collectVersionInfo()
		if opts.format == "json" {
			return renderVersionJSON(cmd.OutOrStdout(), info, opts)
		}
		return renderVersionPretty(cmd.OutOrStdout(), info, opts)
	},
}

func readVersionOptions(cmd *cobra.Command) (versionOptions, error) {
	var opts versionOptions
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return opts, err
	}
	opts.format = strings.ToLower(format)
	if opts.format != "pretty" && opts.format != "json" {
		return opts, fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return opts, err
	}
	for name, dst := range map[string]*bool{"hash": &opts.showHash, "message": &opts.showMessage, "date": &opts.showDate} {
		v, err := cmd.Flags().GetBool(name)
		if err != nil {
			return opts, err
		}
		*dst = v || full
	}
	return opts, nil
}

func collectVersionInfo() versionInfo {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		v = "dev"
	}
	return versionInfo{
		Version:    v,
		GitCommit:  strings.TrimSpace(version.GitCommit),
		GitMessage: strings.TrimSpace(version.GitMessage),
		BuildDate:  strings.TrimSpace(version.BuildDate),
	}
}

func renderVersionPretty(out io.Writer, info versionInfo, opts versionOptions) error {
	lines := []string{"valc " + version.Colored(info.Version)}
	if opts.showHash {
		lines = append(lines, "commit:  "+valueOrUnknown(info.GitCommit))
	}
	if opts.showMessage {
		lines = append(lines, "message: "+valueOrUnknown(info.GitMessage))
	}
	if opts.showDate {
		lines = append(lines, "built:   "+valueOrUnknown(info.BuildDate))
	}
	_, err := fmt.Fprintln(out, strings.Join(lines, "\n"))
	return err
}

func renderVersionJSON(out io.Writer, info versionInfo, opts versionOptions) error {
	payload := versionPayload{Tool: "valc", Version: info.Version}
	if opts.showHash {
		payload.GitCommit = valueOrUnknown(info.GitCommit)
	}
	if opts.showMessage {
		payload.GitMessage = valueOrUnknown(info.GitMessage)
	}
	if opts.showDate {
		payload.BuildDate = valueOrUnknown(info.BuildDate)
	}
	return writeJSON(out, payload)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
