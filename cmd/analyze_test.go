package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const solverDoc = `{
  "runtimeCfg": {
    "nodes": [
      {"offset": 0, "parsedOpcodes": "0: PUSH1 0x04\n2: JUMP"},
      {"offset": 4, "parsedOpcodes": "4: JUMPDEST\n5: STOP"}
    ],
    "successors": [{"from": 0, "to": [4]}]
  }
}`

func writeFixtures(t *testing.T) (bytecodePath, cfgPath string) {
	t.Helper()
	dir := t.TempDir()

	bytecodePath = filepath.Join(dir, "0xabc123.bytecode")
	// PUSH1 0x04, JUMP, JUMPDEST, STOP
	if err := os.WriteFile(bytecodePath, []byte("0x6004565b00\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfgPath = filepath.Join(dir, "0xabc123.json")
	if err := os.WriteFile(cfgPath, []byte(solverDoc), 0600); err != nil {
		t.Fatal(err)
	}
	return bytecodePath, cfgPath
}

func runApp(args ...string) error {
	app := cli.NewApp()
	app.Commands = []*cli.Command{CreateAnalyzeCommand(AnalyzeJumps)}
	return app.Run(append([]string{"jumpaudit"}, args...))
}

func TestAnalyzeCommandJSONReport(t *testing.T) {
	bytecodePath, cfgPath := writeFixtures(t)
	reportPath := filepath.Join(t.TempDir(), "report.json")

	err := runApp("analyze", "--cfg", cfgPath, "--format", "json",
		"--report-output-path", reportPath, bytecodePath)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	var report struct {
		Contract        string `json:"contract"`
		TotalJumps      int    `json:"totalJumps"`
		PreciselySolved int    `json:"preciselySolvedJumps"`
		Flagged         bool   `json:"flagged"`
	}
	require.NoError(t, json.Unmarshal(data, &report))

	assert.Equal(t, "0xabc123", report.Contract)
	assert.Equal(t, 1, report.TotalJumps)
	assert.Equal(t, 1, report.PreciselySolved)
	assert.False(t, report.Flagged)
}

func TestAnalyzeCommandTextReport(t *testing.T) {
	bytecodePath, cfgPath := writeFixtures(t)
	reportPath := filepath.Join(t.TempDir(), "report.txt")

	err := runApp("analyze", "--cfg", cfgPath, "--format", "text",
		"--report-output-path", reportPath, "--verbose", bytecodePath)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total Jumps:        1")
	assert.Contains(t, string(data), "BLOCK 0 - JUMP is precisely solved")
}

func TestAnalyzeCommandStrictProfile(t *testing.T) {
	dir := t.TempDir()

	bytecodePath := filepath.Join(dir, "0xbad.bytecode")
	// Two JUMPs in the bytecode, none accounted for by the CFG below.
	if err := os.WriteFile(bytecodePath, []byte("0x5656"), 0600); err != nil {
		t.Fatal(err)
	}

	cfgPath := filepath.Join(dir, "0xbad.json")
	doc := `{"runtimeCfg": {"nodes": [{"offset": 0, "parsedOpcodes": "0: STOP"}], "successors": []}}`
	if err := os.WriteFile(cfgPath, []byte(doc), 0600); err != nil {
		t.Fatal(err)
	}

	profilePath := filepath.Join(dir, "profile.yaml")
	if err := os.WriteFile(profilePath, []byte("strict: true\nformat: json\n"), 0600); err != nil {
		t.Fatal(err)
	}

	reportPath := filepath.Join(dir, "report.json")
	err := runApp("analyze", "--cfg", cfgPath, "--profile", profilePath,
		"--report-output-path", reportPath, bytecodePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flagged")

	// The report is still written; a flagged contract is reported, not dropped.
	data, readErr := os.ReadFile(reportPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), `"flagged":true`)
}

func TestAnalyzeCommandMissingBytecodeArg(t *testing.T) {
	_, cfgPath := writeFixtures(t)
	err := runApp("analyze", "--cfg", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing bytecode file")
}

func TestAnalyzeCommandMalformedBytecode(t *testing.T) {
	dir := t.TempDir()
	bytecodePath := filepath.Join(dir, "0xoops.bytecode")
	if err := os.WriteFile(bytecodePath, []byte("no prefix here"), 0600); err != nil {
		t.Fatal(err)
	}
	_, cfgPath := writeFixtures(t)

	err := runApp("analyze", "--cfg", cfgPath, bytecodePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding the bytecode")
}
