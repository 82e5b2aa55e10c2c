package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairgate/fairgate/internal/scanlog"
	"github.com/fairgate/fairgate/internal/snapshot"
	"github.com/fairgate/fairgate/internal/ticket"
)

// runCommand executes a fresh root command and captures its stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// jsonData runs a command with --format json and returns the decoded success
// payload.
func jsonData(t *testing.T, args ...string) map[string]any {
	t.Helper()
	out, err := runCommand(t, append(args, "--format", "json")...)
	require.NoError(t, err)

	var response struct {
		Status string         `json:"status"`
		Data   map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	require.Equal(t, "ok", response.Status)
	return response.Data
}

func newTestRegistry(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.yaml")
	_, err := runCommand(t, "--registry", path, "create")
	require.NoError(t, err)
	return path
}

// emitTicket issues a ticket and returns its generated base-36 ID.
func emitTicket(t *testing.T, registry, last, first, grade, category string) string {
	t.Helper()
	data := jsonData(t, "--registry", registry, "emit", last, first, grade, category)
	id, ok := data["ticket_id"].(string)
	require.True(t, ok, "emit payload carries no ticket_id: %v", data)
	return id
}

func TestCreate_NewRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.yaml")

	_, err := runCommand(t, "--registry", path, "create")
	require.NoError(t, err)

	table, err := snapshot.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Count())
}

func TestCreate_RefusesExistingFile(t *testing.T) {
	path := newTestRegistry(t)

	_, err := runCommand(t, "--registry", path, "create")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCreate_RequiresRegistryFlag(t *testing.T) {
	_, err := runCommand(t, "create")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEmit_IssuesTicket(t *testing.T) {
	path := newTestRegistry(t)

	data := jsonData(t, "--registry", path, "emit", "doe", "john", "10", "b")
	assert.Equal(t, "John", data["first_name"])
	assert.Equal(t, "Doe", data["last_name"])
	assert.Equal(t, "B", data["grade_category"])

	id, err := ticket.ParseTicketID(data["ticket_id"].(string))
	require.NoError(t, err)

	table, err := snapshot.LoadFile(path)
	require.NoError(t, err)
	entry, err := table.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "John", entry.FirstName)
}

func TestEmit_RejectsBadGradeArgument(t *testing.T) {
	path := newTestRegistry(t)

	_, err := runCommand(t, "--registry", path, "emit", "doe", "john", "tenth", "b")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEmit_RejectsDuplicatePerson(t *testing.T) {
	path := newTestRegistry(t)
	emitTicket(t, path, "doe", "john", "10", "b")

	_, err := runCommand(t, "--registry", path, "emit", "DOE", "JOHN", "10", "B")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, ticket.IsCode(err, ticket.CodeEntryAlreadyExists))
}

func TestScan_StampsRegistryAndAuditLog(t *testing.T) {
	path := newTestRegistry(t)
	logPath := filepath.Join(t.TempDir(), "scans.db")
	id := emitTicket(t, path, "doe", "john", "10", "b")

	data := jsonData(t, "--registry", path, "scan", id, "--log", logPath)
	assert.Equal(t, float64(1), data["scan_count"])
	assert.NotEmpty(t, data["last_scan_date"])

	table, err := snapshot.LoadFile(path)
	require.NoError(t, err)
	parsed, err := ticket.ParseTicketID(id)
	require.NoError(t, err)
	entry, err := table.Get(parsed)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), entry.Metadata.ScanCount)

	log, err := scanlog.Open(logPath)
	require.NoError(t, err)
	defer log.Close()
	events, err := log.EventsForTicket(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint32(1), events[0].ScanCount)
	assert.Equal(t, entry.Metadata.LastScanDate, events[0].ScannedAt)
}

func TestScan_UnknownTicket(t *testing.T) {
	path := newTestRegistry(t)

	_, err := runCommand(t, "--registry", path, "scan", "B3K")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, ticket.IsCode(err, ticket.CodeIDNotFound))
}

func TestScan_RejectsMalformedTicketArgument(t *testing.T) {
	path := newTestRegistry(t)

	_, err := runCommand(t, "--registry", path, "scan", "AB#C")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestChange_ReplacesFields(t *testing.T) {
	path := newTestRegistry(t)
	id := emitTicket(t, path, "doe", "john", "10", "b")

	data := jsonData(t, "--registry", path, "change", id, "doe", "johnny", "11", "c")
	assert.Equal(t, "Johnny", data["first_name"])
	assert.Equal(t, float64(11), data["grade"])
	assert.Equal(t, id, data["ticket_id"])
}

func TestChange_RejectsDuplicateOfOther(t *testing.T) {
	path := newTestRegistry(t)
	emitTicket(t, path, "doe", "john", "10", "b")
	id := emitTicket(t, path, "doe", "mary", "9", "a")

	_, err := runCommand(t, "--registry", path, "change", id, "doe", "john", "10", "b")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, ticket.IsCode(err, ticket.CodeEntryAlreadyExists))
}

func TestRemove_DeletesTicket(t *testing.T) {
	path := newTestRegistry(t)
	id := emitTicket(t, path, "doe", "john", "10", "b")

	_, err := runCommand(t, "--registry", path, "remove", id)
	require.NoError(t, err)

	table, err := snapshot.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Count())

	_, err = runCommand(t, "--registry", path, "remove", id)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestFind_ReportsMatchingTickets(t *testing.T) {
	path := newTestRegistry(t)
	first := emitTicket(t, path, "doe", "john", "10", "b")
	second := emitTicket(t, path, "doe", "john", "11", "c")
	emitTicket(t, path, "doe", "mary", "9", "a")

	data := jsonData(t, "--registry", path, "find", "John", "Doe")
	ids, ok := data["ticket_ids"].([]any)
	require.True(t, ok, "find payload carries no ticket_ids: %v", data)
	assert.ElementsMatch(t, []any{first, second}, ids)

	out, err := runCommand(t, "--registry", path, "find", "Nobody", "Here")
	require.NoError(t, err)
	assert.Contains(t, out, "No tickets found")
}

func TestList_GroupsByClass(t *testing.T) {
	path := newTestRegistry(t)
	emitTicket(t, path, "doe", "john", "10", "b")
	emitTicket(t, path, "pop", "ana", "10", "b")
	emitTicket(t, path, "doe", "mary", "9", "a")

	out, err := runCommand(t, "--registry", path, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Class 9A (1 tickets):")
	assert.Contains(t, out, "Class 10B (2 tickets):")
	assert.Contains(t, out, "Total tickets count: 3")

	// Inside a class, names sort alphabetically.
	assert.Less(t,
		bytes.Index([]byte(out), []byte("Doe John")),
		bytes.Index([]byte(out), []byte("Pop Ana")))
}

func TestRoot_RejectsUnknownFormat(t *testing.T) {
	path := newTestRegistry(t)

	_, err := runCommand(t, "--registry", path, "--format", "xml", "list")
	require.Error(t, err)
}

func TestOpenRegistry_MissingFile(t *testing.T) {
	opts := &RootOptions{Registry: filepath.Join(t.TempDir(), "absent.yaml")}

	_, err := openRegistry(opts)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOutputFormatter_ErrorShape(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Error(ticket.NewError(ticket.CodeIDNotFound, "ticket ID B3K is not issued")))

	var response Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "error", response.Status)
	require.NotNil(t, response.Error)
	assert.Equal(t, "ID_NOT_FOUND", response.Error.Code)
}
