// Command tajweed prints the tajweed segmentation of Arabic text.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"

	"github.com/escalopa/quran-tajweed-bot/internal/tajweed"
)

// CLI defines the command-line interface for tajweed.
var CLI struct {
	Segment SegmentCmd `cmd:"" help:"Segment text read from arguments or stdin"`
	Rules   RulesCmd   `cmd:"" help:"List the rule table in priority order"`
}

// TableFlags selects the rule table a command works with.
type TableFlags struct {
	RulesFile string        `name:"rules" short:"r" help:"YAML rules file replacing the built-in table" type:"existingfile"`
	Timeout   time.Duration `help:"Per-pattern match timeout" default:"250ms"`
	JSON      bool          `help:"Print JSON instead of a table"`
}

func (f *TableFlags) table() (*tajweed.Table, error) {
	if f.RulesFile != "" {
		return tajweed.LoadTable(f.RulesFile, f.Timeout)
	}
	if f.Timeout > 0 && f.Timeout != tajweed.DefaultMatchTimeout {
		return tajweed.NewTable(tajweed.DefaultDefs(), f.Timeout)
	}
	return tajweed.DefaultTable(), nil
}

// SegmentCmd segments a piece of text.
type SegmentCmd struct {
	TableFlags

	Text []string `arg:"" optional:"" help:"Text to segment; read from stdin when omitted"`
}

func (c *SegmentCmd) Run(ctx *kong.Context) error {
	return c.run(os.Stdin, ctx.Stdout)
}

func (c *SegmentCmd) run(stdin io.Reader, w io.Writer) error {
	table, err := c.table()
	if err != nil {
		return err
	}

	text := strings.Join(c.Text, " ")
	if len(c.Text) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimRight(string(data), "\r\n")
	}
	if text == "" {
		return errors.New("no text to segment")
	}

	spans := table.Segment(text)
	if c.JSON {
		return writeSpansJSON(w, spans)
	}
	return writeSpans(w, spans)
}

type spanJSON struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
	Kind  string `json:"kind"`
	Rule  string `json:"rule,omitempty"`
}

func writeSpansJSON(w io.Writer, spans []tajweed.Span) error {
	out := make([]spanJSON, len(spans))
	for i, s := range spans {
		out[i] = spanJSON{Start: s.Start, End: s.End, Text: s.Text, Kind: string(s.Kind)}
		if s.Rule != nil {
			out[i].Rule = s.Rule.Key
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeSpans(w io.Writer, spans []tajweed.Span) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "START\tEND\tKIND\tRULE\tTEXT")
	for _, s := range spans {
		key := "-"
		if s.Rule != nil {
			key = s.Rule.Key
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", s.Start, s.End, s.Kind, key, s.Text)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	summary := tajweed.Summary(spans)
	if len(summary) == 0 {
		_, err := fmt.Fprintln(w, "\nno rules matched")
		return err
	}

	fmt.Fprintln(w)
	for _, rc := range summary {
		fmt.Fprintf(w, "%-20s %d\n", rc.Rule.Key, rc.Count)
	}
	return nil
}

// RulesCmd prints the rule table.
type RulesCmd struct {
	TableFlags
}

func (c *RulesCmd) Run(ctx *kong.Context) error {
	return c.run(ctx.Stdout)
}

func (c *RulesCmd) run(w io.Writer) error {
	table, err := c.table()
	if err != nil {
		return err
	}

	if c.JSON {
		defs := make([]tajweed.RuleDef, 0, table.Len())
		for _, r := range table.Rules() {
			defs = append(defs, tajweed.RuleDef{
				Key:         r.Key,
				Name:        r.DisplayName,
				Description: r.Description,
				Style:       r.StyleTag,
				Pattern:     r.Pattern(),
				Sample:      r.Sample,
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(defs)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tKEY\tNAME\tSTYLE")
	for i, r := range table.Rules() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, r.Key, r.DisplayName, r.StyleTag)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\ntable %s\n", table.Fingerprint())
	return err
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("tajweed"),
		kong.Description("Tajweed segmentation of Quranic text"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
