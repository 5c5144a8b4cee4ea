package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/go-git/go-git/v5/plumbing"
	zerv "github.com/wislertt/zerv-sub003"
)

// Version will be set by build process
var Version = "dev"

type CLI struct {
	Input       string `arg:"" optional:"" help:"Version string to convert (default: derive from the repository)"`
	Format      string `short:"f" default:"semver" enum:"semver,pep440,zerv,template" help:"Output format"`
	InputFormat string `default:"auto" enum:"auto,semver,pep440" help:"Input version format"`
	Check       bool   `help:"Validate the input version and exit"`
	Strict      bool   `help:"Fail on schema components the output format cannot express"`
	JSON        bool   `short:"j" help:"Output as JSON"`

	Schema     string `short:"s" help:"Schema preset name (standard, calver, standard-base, ...)"`
	SchemaText string `help:"Custom schema text, e.g. 'core: major.minor.patch | build: bumped_branch'"`
	SchemaFile string `type:"existingfile" help:"Custom schema YAML document"`
	Template   string `short:"t" help:"Go template rendered when --format=template"`

	Repo         string `short:"r" help:"Repository path (default: current directory)"`
	TagPattern   string `help:"Regex pattern to filter tags (e.g. '^sdk/')"`
	BaseVersion  string `help:"Base version when the repository has no tag"`
	Calendar     bool   `help:"Use the calendar core scheme"`
	DevTimestamp uint64 `help:"Dev value for dirty states (default: commit compact datetime)"`

	Major            *uint64 `help:"Override the major number" group:"Overrides:"`
	Minor            *uint64 `help:"Override the minor number" group:"Overrides:"`
	Patch            *uint64 `help:"Override the patch number" group:"Overrides:"`
	Epoch            *uint64 `help:"Override the epoch" group:"Overrides:"`
	Post             *uint64 `help:"Override the post number" group:"Overrides:"`
	Dev              *uint64 `help:"Override the dev number" group:"Overrides:"`
	PreReleaseLabel  string  `help:"Override the pre-release label (alpha, beta, rc)" group:"Overrides:"`
	PreReleaseNumber *uint64 `help:"Override the pre-release number" group:"Overrides:"`
	Distance         *uint64 `help:"Override the commit distance" group:"Overrides:"`
	Dirty            bool    `help:"Force the dirty state" group:"Overrides:"`
	Clean            bool    `help:"Force a clean released state" group:"Overrides:"`
	Custom           string  `help:"JSON object of custom variables" group:"Overrides:"`

	BumpEpoch            *uint64 `help:"Bump the epoch by N" group:"Bumps:"`
	BumpMajor            *uint64 `help:"Bump the major number by N" group:"Bumps:"`
	BumpMinor            *uint64 `help:"Bump the minor number by N" group:"Bumps:"`
	BumpPatch            *uint64 `help:"Bump the patch number by N" group:"Bumps:"`
	BumpPreReleaseLabel  string  `help:"Promote the pre-release label" group:"Bumps:"`
	BumpPreReleaseNumber *uint64 `help:"Bump the pre-release number by N" group:"Bumps:"`
	BumpPost             *uint64 `help:"Bump the post number by N" group:"Bumps:"`
	BumpDev              *uint64 `help:"Bump the dev number by N" group:"Bumps:"`

	ShowVersion bool `help:"Show version information" name:"version"`
}

func main() {
	var cli CLI

	kong.Parse(&cli,
		kong.Name("zerv"),
		kong.Description("Derive deterministic version identifiers from repository state and convert between version formats"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)

	err := cli.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (c *CLI) Run() error {
	if c.ShowVersion {
		return c.showVersion()
	}

	if c.Check {
		if c.Input == "" {
			return fmt.Errorf("--check needs a version string")
		}
		if !zerv.CheckVersion(c.Input, c.InputFormat) {
			return fmt.Errorf("%q is not a valid %s version", c.Input, c.InputFormat)
		}
		return nil
	}

	z, err := c.resolveModel()
	if err != nil {
		return err
	}

	if err := c.applySchema(z); err != nil {
		return err
	}

	overrides, bumps, err := c.adjustments()
	if err != nil {
		return err
	}
	if err := zerv.Apply(z, overrides, bumps); err != nil {
		return err
	}

	return c.output(z)
}

func (c *CLI) showVersion() error {
	versionInfo := map[string]string{
		"version": Version,
		"name":    "zerv",
	}

	if c.JSON {
		return json.NewEncoder(os.Stdout).Encode(versionInfo)
	}

	fmt.Printf("zerv version %s\n", Version)
	return nil
}

// resolveModel builds the version model, either by parsing the input
// string or by reading the repository state.
func (c *CLI) resolveModel() (*zerv.Zerv, error) {
	if c.Input != "" {
		z, err := zerv.ParseVersion(c.Input, c.InputFormat)
		if err != nil {
			return nil, fmt.Errorf("parsing version: %w", err)
		}
		return z, nil
	}

	repoPath := c.Repo
	if repoPath == "" {
		var err error
		repoPath, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	repo, err := zerv.OpenRepository(repoPath)
	if err != nil {
		// Not a git repository: fall back to a default dev version
		return zerv.FallbackVersion(), nil
	}

	z, err := zerv.Resolve(zerv.Options{
		Repository:   repo,
		Commitish:    plumbing.Revision("HEAD"),
		TagPattern:   c.TagPattern,
		InputFormat:  c.InputFormat,
		BaseVersion:  c.BaseVersion,
		Calendar:     c.Calendar,
		DevTimestamp: c.DevTimestamp,
	})
	if err != nil {
		return nil, err
	}
	return z, nil
}

// applySchema swaps in an explicitly requested schema.
func (c *CLI) applySchema(z *zerv.Zerv) error {
	switch {
	case c.SchemaText != "":
		schema, err := zerv.ParseSchema(c.SchemaText)
		if err != nil {
			return err
		}
		z.Schema = schema
	case c.SchemaFile != "":
		data, err := os.ReadFile(c.SchemaFile)
		if err != nil {
			return fmt.Errorf("reading schema file: %w", err)
		}
		schema, err := zerv.ParseSchemaYAML(data)
		if err != nil {
			return err
		}
		z.Schema = schema
	case c.Schema != "":
		schema, err := zerv.Preset(c.Schema, &z.Vars)
		if err != nil {
			return err
		}
		z.Schema = schema
	}
	return nil
}

func (c *CLI) adjustments() (*zerv.Overrides, *zerv.Bumps, error) {
	overrides := &zerv.Overrides{
		Major:            c.Major,
		Minor:            c.Minor,
		Patch:            c.Patch,
		Epoch:            c.Epoch,
		Post:             c.Post,
		Dev:              c.Dev,
		PreReleaseNumber: c.PreReleaseNumber,
		Distance:         c.Distance,
		Clean:            c.Clean,
	}
	if c.Dirty {
		dirty := true
		overrides.Dirty = &dirty
	}
	if c.PreReleaseLabel != "" {
		label, err := parseLabel(c.PreReleaseLabel)
		if err != nil {
			return nil, nil, err
		}
		overrides.PreReleaseLabel = &label
	}
	if c.Custom != "" {
		if err := json.Unmarshal([]byte(c.Custom), &overrides.Custom); err != nil {
			return nil, nil, fmt.Errorf("parsing --custom: %w", err)
		}
	}

	bumps := &zerv.Bumps{
		Epoch:            c.BumpEpoch,
		Major:            c.BumpMajor,
		Minor:            c.BumpMinor,
		Patch:            c.BumpPatch,
		PreReleaseNumber: c.BumpPreReleaseNumber,
		Post:             c.BumpPost,
		Dev:              c.BumpDev,
	}
	if c.BumpPreReleaseLabel != "" {
		label, err := parseLabel(c.BumpPreReleaseLabel)
		if err != nil {
			return nil, nil, err
		}
		bumps.PreReleaseLabel = &label
	}
	return overrides, bumps, nil
}

func parseLabel(s string) (zerv.PreReleaseLabel, error) {
	switch s {
	case "alpha", "beta", "rc":
		return zerv.PreReleaseLabel(s), nil
	}
	return "", fmt.Errorf("unknown pre-release label %q (expected alpha, beta or rc)", s)
}

func (c *CLI) output(z *zerv.Zerv) error {
	switch c.Format {
	case "zerv":
		return json.NewEncoder(os.Stdout).Encode(z)
	case "template":
		if c.Template == "" {
			return fmt.Errorf("--format=template needs --template")
		}
		rendered, err := zerv.RenderTemplate(c.Template, z)
		if err != nil {
			return err
		}
		fmt.Println(rendered)
		return nil
	}

	if c.JSON {
		semverOut, err := zerv.FormatVersion(z, zerv.FormatSemVer, c.Strict)
		if err != nil {
			return err
		}
		pepOut, err := zerv.FormatVersion(z, zerv.FormatPEP440, c.Strict)
		if err != nil {
			return err
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]string{
			"semver": semverOut,
			"pep440": pepOut,
		})
	}

	out, err := zerv.FormatVersion(z, c.Format, c.Strict)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
