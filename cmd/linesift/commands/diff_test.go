package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesift/linesift/cmd/linesift/commands"
	"github.com/linesift/linesift/internal/report"
)

// execute runs a command with args and returns its stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

// writeInput drops an input file into dir and returns its path.
func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// emptyConfig returns a --config path that pins the test to defaults,
// keeping it independent of any real config in CWD or $HOME.
func emptyConfig(t *testing.T) string {
	t.Helper()

	return writeInput(t, t.TempDir(), "linesift.yaml", "")
}

func TestDiffCommand_TextOutput(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeInput(t, dir, "old.txt", "keep\nthe old value\nkeep\n")
	newPath := writeInput(t, dir, "new.txt", "keep\nthe new value\nkeep\n")

	out, err := execute(t, commands.NewDiffCommand(),
		"--config", emptyConfig(t), "--no-color", oldPath, newPath)

	require.NoError(t, err)
	assert.Contains(t, out, "- the old value")
	assert.Contains(t, out, "+ the new value")
	assert.Contains(t, out, "modified")
}

func TestDiffCommand_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeInput(t, dir, "old.txt", "a\nb\n")
	newPath := writeInput(t, dir, "new.txt", "a\nc\n")

	out, err := execute(t, commands.NewDiffCommand(),
		"--config", emptyConfig(t), "--format", "json", oldPath, newPath)

	require.NoError(t, err)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))

	assert.Equal(t, report.FormatVersion, rep.Version)
	assert.Equal(t, oldPath, rep.OldPath)
	assert.Len(t, rep.Lines, 3)
}

func TestDiffCommand_BinaryRefusal(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeInput(t, dir, "old.bin", "data\x00with null")
	newPath := writeInput(t, dir, "new.txt", "plain\n")

	_, err := execute(t, commands.NewDiffCommand(),
		"--config", emptyConfig(t), oldPath, newPath)

	require.ErrorIs(t, err, commands.ErrBinaryInput)
}

func TestDiffCommand_MissingInput(t *testing.T) {
	dir := t.TempDir()
	newPath := writeInput(t, dir, "new.txt", "plain\n")

	_, err := execute(t, commands.NewDiffCommand(),
		"--config", emptyConfig(t), filepath.Join(dir, "absent.txt"), newPath)

	require.Error(t, err)
}

func TestDiffCommand_NoMoves(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeInput(t, dir, "old.txt", "const answer = 42\nqqqq wwww eeee rrrr\nanchor\n")
	newPath := writeInput(t, dir, "new.txt", "anchor\nmmmm nnnn oooo pppp\nssss tttt uuuu vvvv\nconst answer = 42\n")

	out, err := execute(t, commands.NewDiffCommand(),
		"--config", emptyConfig(t), "--format", "json", "--no-moves", oldPath, newPath)

	require.NoError(t, err)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))

	assert.Empty(t, rep.Moves)
	assert.True(t, rep.Detection.Skipped)
	assert.Equal(t, "move detection disabled", rep.Detection.Reason)
}

func TestDiffCommand_InvalidFormat(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeInput(t, dir, "old.txt", "a\n")
	newPath := writeInput(t, dir, "new.txt", "b\n")

	_, err := execute(t, commands.NewDiffCommand(),
		"--config", emptyConfig(t), "--format", "csv", oldPath, newPath)

	require.Error(t, err)
}

func TestDiffCommand_ReportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeInput(t, dir, "old.txt", "keep\nthe old value\nkeep\n")
	newPath := writeInput(t, dir, "new.txt", "keep\nthe new value\nkeep\n")
	reportPath := filepath.Join(dir, "report.json")

	_, err := execute(t, commands.NewDiffCommand(),
		"--config", emptyConfig(t), "--output", reportPath, oldPath, newPath)
	require.NoError(t, err)

	out, err := execute(t, commands.NewShowCommand(), "--no-color", reportPath)

	require.NoError(t, err)
	assert.Contains(t, out, "- the old value")
	assert.Contains(t, out, "+ the new value")
}

func TestDiffCommand_CompressedReport(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeInput(t, dir, "old.txt", "a\nb\n")
	newPath := writeInput(t, dir, "new.txt", "a\nc\n")
	reportPath := filepath.Join(dir, "report.json")

	_, err := execute(t, commands.NewDiffCommand(),
		"--config", emptyConfig(t), "--output", reportPath, "--compress", oldPath, newPath)
	require.NoError(t, err)

	loaded, err := report.Load(reportPath+".lz4", report.NewJSONCodec())
	require.NoError(t, err)
	assert.Len(t, loaded.Lines, 3)
}

func TestDiffCommand_VerboseLogsLineCounts(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeInput(t, dir, "old.txt", "a\nb\nc\n")
	newPath := writeInput(t, dir, "new.txt", "a\nb\nc\nd\n")

	cmd := commands.NewDiffCommand()

	var out, errOut bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--config", emptyConfig(t), "--verbose", "--log-json", oldPath, newPath})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, errOut.String(), `"old_lines":3`)
	assert.Contains(t, errOut.String(), `"new_lines":4`)
}
