package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/chainsift/jumpaudit/analyzer"
	"github.com/chainsift/jumpaudit/cfg"
	"github.com/chainsift/jumpaudit/disasm"
	"github.com/chainsift/jumpaudit/profile"
	"github.com/chainsift/jumpaudit/renderer"
)

var (
	CFGFlag = &cli.PathFlag{
		Name:     "cfg",
		Usage:    "Path to the solver-produced CFG JSON file",
		Required: true,
	}
	ProfileFlag = &cli.PathFlag{
		Name:     "profile",
		Usage:    "Path to the analysis profile config file",
		Required: false,
	}
	FormatFlag = &cli.StringFlag{
		Name:        "format",
		Usage:       "format of the output. Options: json, text",
		Required:    false,
		DefaultText: "text",
	}
	ReportOutputPathFlag = &cli.PathFlag{
		Name:     "report-output-path",
		Usage:    "output file path for report. Default: stdout",
		Required: false,
	}
	VerboseFlag = &cli.BoolFlag{
		Name:     "verbose",
		Usage:    "include the per-block event trail in text output",
		Required: false,
		Value:    false,
	}
)

func CreateAnalyzeCommand(action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name:        "analyze",
		Usage:       "Classifies a contract's jumps against its solver CFG",
		Description: "Classifies a contract's jumps against its solver CFG",
		ArgsUsage:   "<bytecode-file>",
		Action:      action,
		Flags: []cli.Flag{
			CFGFlag,
			ProfileFlag,
			FormatFlag,
			ReportOutputPathFlag,
			VerboseFlag,
		},
	}
}

var AnalyzeCommand = CreateAnalyzeCommand(AnalyzeJumps)

func AnalyzeJumps(ctx *cli.Context) error {
	prof := profile.Default()
	if profilePath := ctx.Path(ProfileFlag.Name); profilePath != "" {
		loaded, err := profile.LoadProfile(profilePath)
		if err != nil {
			return fmt.Errorf("error loading profile: %w", err)
		}
		prof = loaded
	}

	source := ctx.Args().First()
	if source == "" {
		return fmt.Errorf("missing bytecode file argument")
	}
	cfgPath := ctx.Path(CFGFlag.Name)
	format := ctx.String(FormatFlag.Name)
	if format == "" {
		format = prof.Format
	}
	reportOutputPath := ctx.Path(ReportOutputPathFlag.Name)
	verbose := ctx.Bool(VerboseFlag.Name)

	instructions, err := decodeBytecodeFile(source)
	if err != nil {
		return fmt.Errorf("error decoding the bytecode: %w", err)
	}

	graph, err := loadGraph(cfgPath, prof.EntryOffset)
	if err != nil {
		return fmt.Errorf("error loading the CFG: %w", err)
	}

	address := contractAddress(source)
	stats, events := analyzer.Analyze(address, instructions, graph)

	if err := writeReport(stats, events, format, verbose, reportOutputPath); err != nil {
		return fmt.Errorf("unable to write report: %w", err)
	}

	if prof.Strict && stats.Flagged {
		return fmt.Errorf("contract %s flagged with inconsistencies", address)
	}
	return nil
}

// decodeBytecodeFile reads a .bytecode file and decodes its instruction stream.
func decodeBytecodeFile(path string) ([]disasm.Instruction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read bytecode file: %w", err)
	}
	return disasm.Disassemble(strings.TrimSpace(string(data)))
}

// loadGraph parses the solver CFG JSON rooted at the profile's entry offset.
func loadGraph(path string, entry int) (*cfg.Graph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open CFG file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	return cfg.ParseJSON(file, entry)
}

// contractAddress derives the contract identifier from the bytecode filename.
func contractAddress(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// writeReport outputs the results in the specified format.
func writeReport(stats *analyzer.ContractStats, events []analyzer.Event, format string, verbose bool, outputPath string) error {
	var output *os.File
	if outputPath == "" {
		output = os.Stdout
	} else {
		absPath, err := filepath.Abs(outputPath)
		if err != nil {
			return fmt.Errorf("unable to determine absolute path: %w", err)
		}
		output, err = os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("unable to open output file: %w", err)
		}
		defer func() {
			_ = output.Close()
		}()
	}

	var rendererInstance renderer.Renderer
	switch format {
	case "text":
		rendererInstance = renderer.NewTextRenderer(verbose)
	case "json":
		rendererInstance = renderer.NewJSONRenderer()
	default:
		return fmt.Errorf("invalid format: %s", format)
	}

	return rendererInstance.Render(stats, events, output)
}
