// Package main is the entry point for the gqlscan CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/praetorian-inc/gqlscan/pkg/config"
	"github.com/praetorian-inc/gqlscan/pkg/detect"
	"github.com/praetorian-inc/gqlscan/pkg/export"
	"github.com/praetorian-inc/gqlscan/pkg/inference"
	"github.com/praetorian-inc/gqlscan/pkg/output"
	"github.com/praetorian-inc/gqlscan/pkg/probes"
	"github.com/praetorian-inc/gqlscan/pkg/schema"
	"github.com/praetorian-inc/gqlscan/pkg/transport"
	"github.com/praetorian-inc/gqlscan/pkg/wordlist"
)

// CLI defines the command-line interface structure.
type CLI struct {
	Config string `short:"c" type:"path" help:"Path to a YAML defaults file"`

	Scan       ScanCmd       `cmd:"" help:"Probe a target for DoS/CSRF/info-disclosure weaknesses"`
	Introspect IntrospectCmd `cmd:"" help:"Fetch and print a target's GraphQL schema via introspection"`
	Infer      InferCmd      `cmd:"" help:"Reconstruct a schema by mining error messages when introspection is off"`
	Export     ExportCmd     `cmd:"" help:"Convert a schema JSON file into an API-client collection"`
}

// common holds the flags shared by every subcommand that talks to a
// live target.
type common struct {
	Target   string   `short:"t" required:"" help:"Target GraphQL endpoint URL"`
	Header   []string `short:"H" help:"Extra header, 'Key: Value' (repeatable)"`
	Proxy    string   `short:"x" help:"HTTP(S) or socks5:// proxy URL"`
	Debug    bool     `help:"Log per-request debug detail"`
	Discover bool     `help:"Probe a path wordlist first and use the first GraphQL endpoint found"`
	Wordlist string   `short:"w" help:"Path to a newline-delimited candidate wordlist"`
}

func (c *common) buildClient(cfg config.Config) (*transport.Client, error) {
	headers, err := parseHeaders(c.Header)
	if err != nil {
		return nil, err
	}
	merged := cfg.Merge(config.Config{
		Proxy:   c.Proxy,
		Headers: headers,
		Debug:   c.Debug,
	})

	if merged.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	return transport.New(transport.Config{
		ProxyURL: merged.Proxy,
		Headers:  merged.Headers,
		Debug:    merged.Debug,
	})
}

// resolveTarget applies --discover, if set, walking a path wordlist
// and returning the first endpoint that looks like GraphQL.
func (c *common) resolveTarget(ctx context.Context, client *transport.Client, cfg config.Config) (string, error) {
	if !c.Discover {
		return c.Target, nil
	}

	paths := cfg.WordlistPaths
	if c.Wordlist != "" {
		loaded, err := wordlist.LoadPaths(c.Wordlist)
		if err != nil {
			return "", fmt.Errorf("load wordlist: %w", err)
		}
		paths = loaded
	}

	found, err := detect.Discover(ctx, client, c.Target, paths)
	if err != nil {
		return "", fmt.Errorf("discover endpoint: %w", err)
	}
	if len(found) == 0 {
		return "", fmt.Errorf("discover endpoint: no GraphQL endpoint found under %s", c.Target)
	}
	return found[0], nil
}

func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	if len(raw) == 1 && strings.HasPrefix(strings.TrimSpace(raw[0]), "{") {
		var asJSON map[string]string
		if err := json.Unmarshal([]byte(raw[0]), &asJSON); err != nil {
			return nil, fmt.Errorf("parse header JSON object: %w", err)
		}
		return asJSON, nil
	}

	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		key, value, ok := strings.Cut(h, ":")
		if !ok {
			return nil, fmt.Errorf("malformed header %q, expected \"Key: Value\"", h)
		}
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return headers, nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Config{}, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	return *cfg, nil
}

// ScanCmd runs the probe harness against a target.
type ScanCmd struct {
	common

	Format  string   `short:"f" default:"terminal" enum:"terminal,json,ndjson,markdown,sarif" help:"Output format"`
	Output  string   `short:"o" help:"Write output to this path instead of stdout"`
	Exclude []string `help:"Probe ids to skip (repeatable)"`
	List    bool     `help:"List probe ids and exit, without scanning"`
}

func (c *ScanCmd) Run(cli *CLI) error {
	if c.List {
		for _, id := range probes.Registry.List() {
			fmt.Println(id)
		}
		return nil
	}

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}

	client, err := c.buildClient(cfg)
	if err != nil {
		return fmt.Errorf("build client: %w", err)
	}

	ctx := context.Background()
	target, err := c.resolveTarget(ctx, client, cfg)
	if err != nil {
		return err
	}

	exclude := c.Exclude
	if len(exclude) == 0 {
		exclude = cfg.ExcludedProbes
	}

	harness := probes.NewHarness(client, exclude)
	results := harness.Run(ctx, target)

	w, err := openWriter(c.Format, c.Output)
	if err != nil {
		return err
	}
	defer w.Close()

	return w.WriteFindings(ctx, output.ToFindings(results))
}

// IntrospectCmd fetches and prints a raw introspection result.
type IntrospectCmd struct {
	common

	Output string `short:"o" help:"Write the schema JSON to this path instead of stdout"`
}

func (c *IntrospectCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}

	client, err := c.buildClient(cfg)
	if err != nil {
		return fmt.Errorf("build client: %w", err)
	}

	ctx := context.Background()
	target, err := c.resolveTarget(ctx, client, cfg)
	if err != nil {
		return err
	}

	raw, err := schema.FetchRaw(ctx, client, target)
	if err != nil {
		return fmt.Errorf("introspect: %w", err)
	}

	body, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}

	return writeBytes(c.Output, body)
}

// InferCmd reconstructs a schema via error-message mining.
type InferCmd struct {
	common

	Output string `short:"o" help:"Write the inferred schema JSON to this path instead of stdout"`
}

func (c *InferCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}

	client, err := c.buildClient(cfg)
	if err != nil {
		return fmt.Errorf("build client: %w", err)
	}

	ctx := context.Background()
	target, err := c.resolveTarget(ctx, client, cfg)
	if err != nil {
		return err
	}

	words := cfg.WordlistFields
	if c.Wordlist != "" {
		loaded, err := wordlist.Load(c.Wordlist)
		if err != nil {
			return fmt.Errorf("load wordlist: %w", err)
		}
		words = loaded
	}
	if len(words) == 0 {
		words = wordlist.DefaultFieldNames
	}

	engine := inference.NewEngine(client, target, words)
	inferred, err := engine.Infer(ctx)
	if err != nil {
		return fmt.Errorf("infer schema: %w", err)
	}

	body, err := json.MarshalIndent(engine.ToIntrospectionFormat(inferred), "", "  ")
	if err != nil {
		return fmt.Errorf("encode inferred schema: %w", err)
	}

	return writeBytes(c.Output, body)
}

// ExportCmd converts a schema JSON file (introspected or inferred)
// into an API-client collection.
type ExportCmd struct {
	Format     string `arg:"" enum:"postman" help:"Export format"`
	SchemaFile string `short:"i" required:"" type:"path" help:"Path to a schema JSON file (introspection or inference output)"`
	Target     string `short:"t" required:"" help:"Base URL baked into each exported request"`
	Output     string `short:"o" help:"Write the collection to this path instead of stdout"`
}

func (c *ExportCmd) Run(*CLI) error {
	raw, err := os.ReadFile(c.SchemaFile)
	if err != nil {
		return fmt.Errorf("read schema file: %w", err)
	}

	exporter, err := export.New(export.Format(c.Format), raw, c.Target)
	if err != nil {
		return err
	}

	body, err := exporter.Export()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	return writeBytes(c.Output, body)
}

func openWriter(format, path string) (*output.Writer, error) {
	if path == "" {
		return output.NewWriter(format, os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}
	return output.NewWriter(format, f)
}

func writeBytes(path string, body []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(append(body, '\n'))
		return err
	}
	return os.WriteFile(path, body, 0o644)
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("gqlscan"),
		kong.Description("GraphQL reconnaissance and security assessment tool"),
		kong.UsageOnError(),
	)

	if err := ctx.Run(cli); err != nil {
		log.Error().Err(err).Msg("gqlscan failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
