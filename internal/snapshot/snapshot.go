package snapshot

import (
	"bytes"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fairgate/fairgate/internal/ticket"
)

// registryName identifies snapshot files produced by this tool. Together with
// the field names below it is part of the external file contract.
const registryName = "FAIRGATE-GA-2026"

// noScanSentinel is written in place of an empty last-scan date. Loading maps
// it back to the empty string so a save/load cycle is lossless.
const noScanSentinel = "N/A"

type document struct {
	Info    headerInfo      `yaml:"info"`
	Entries []snapshotEntry `yaml:"entries"`
}

type headerInfo struct {
	Name    string `yaml:"name"`
	Tickets int    `yaml:"tickets"`
}

type snapshotEntry struct {
	TicketID      string           `yaml:"ticket_id"`
	FirstName     string           `yaml:"first_name"`
	LastName      string           `yaml:"last_name"`
	Grade         uint32           `yaml:"grade"`
	GradeCategory string           `yaml:"grade_category"`
	Metadata      snapshotMetadata `yaml:"metadata"`
}

type snapshotMetadata struct {
	Flags        uint32 `yaml:"flags"`
	ScanCount    uint32 `yaml:"scan_count"`
	LastScanDate string `yaml:"last_scan_date"`
}

// Save serializes the table as a YAML document: a header with the registry
// name and live entry count, followed by the entries in ascending identifier
// order. Ticket IDs are written as base-36 text, the grade as a plain
// integer, and an empty scan date as the literal "N/A". Walking a corrupted
// entry fails with CodeCorruptedTable and nothing is emitted.
func Save(table *ticket.Table) ([]byte, error) {
	entries := make([]snapshotEntry, 0, table.Count())
	err := table.ForEach(func(id ticket.TicketID, entry *ticket.Entry) (ticket.IterationDecision, error) {
		lastScanDate := entry.Metadata.LastScanDate
		if lastScanDate == "" {
			lastScanDate = noScanSentinel
		}
		entries = append(entries, snapshotEntry{
			TicketID:      ticket.FormatTicketID(id),
			FirstName:     entry.FirstName,
			LastName:      entry.LastName,
			Grade:         uint32(entry.Grade),
			GradeCategory: string(entry.GradeCategory),
			Metadata: snapshotMetadata{
				Flags:        entry.Metadata.Flags,
				ScanCount:    entry.Metadata.ScanCount,
				LastScanDate: lastScanDate,
			},
		})
		return ticket.IterationContinue, nil
	})
	if err != nil {
		return nil, err
	}

	doc := document{
		Info: headerInfo{
			Name:    registryName,
			Tickets: len(entries),
		},
		Entries: entries,
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, ticket.WrapError(ticket.CodeInvalidYAML, err, "encoding snapshot")
	}
	if err := enc.Close(); err != nil {
		return nil, ticket.WrapError(ticket.CodeInvalidYAML, err, "encoding snapshot")
	}
	return buf.Bytes(), nil
}

// SaveFile writes the serialized table to path. File errors surface as
// CodeInvalidFilepath.
func SaveFile(table *ticket.Table, path string) error {
	data, err := Save(table)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ticket.WrapError(ticket.CodeInvalidFilepath, err, "writing snapshot %q", path)
	}
	return nil
}

// rawEntry mirrors snapshotEntry with pointer fields so a missing or null
// field is distinguishable from a zero value. Every field is required.
type rawEntry struct {
	TicketID      *string      `yaml:"ticket_id"`
	FirstName     *string      `yaml:"first_name"`
	LastName      *string      `yaml:"last_name"`
	Grade         *uint32      `yaml:"grade"`
	GradeCategory *string      `yaml:"grade_category"`
	Metadata      *rawMetadata `yaml:"metadata"`
}

type rawMetadata struct {
	Flags        *uint32 `yaml:"flags"`
	ScanCount    *uint32 `yaml:"scan_count"`
	LastScanDate *string `yaml:"last_scan_date"`
}

// Load reconstructs a table from a snapshot document. Every entry field must
// be present and correctly typed or the load fails with CodeInvalidYAML.
// Ticket IDs go through ParseTicketID, and each entry is inserted via
// Table.InsertWithID, so every table invariant (duplicate identifier,
// duplicate person, field validity) is enforced identically to live
// mutation. After the replay the header's declared count must equal the
// number of live entries, else CodeCorruptedTable.
//
// Options are forwarded to the reconstructed table; tests use them to inject
// a deterministic clock or random source.
func Load(data []byte, opts ...ticket.Option) (*ticket.Table, error) {
	var doc struct {
		Info    yaml.Node `yaml:"info"`
		Entries yaml.Node `yaml:"entries"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ticket.WrapError(ticket.CodeInvalidYAML, err, "parsing snapshot")
	}
	if doc.Info.Kind != yaml.MappingNode {
		return nil, ticket.NewError(ticket.CodeInvalidYAML, "snapshot has no info header")
	}
	if doc.Entries.Kind != yaml.SequenceNode {
		return nil, ticket.NewError(ticket.CodeInvalidYAML, "snapshot has no entries sequence")
	}

	var rawEntries []rawEntry
	if err := doc.Entries.Decode(&rawEntries); err != nil {
		return nil, ticket.WrapError(ticket.CodeInvalidYAML, err, "decoding snapshot entries")
	}

	table := ticket.NewTable(opts...)
	for i, raw := range rawEntries {
		entry, id, err := decodeEntry(raw)
		if err != nil {
			return nil, ticket.WrapError(ticket.ErrorCode(err), err, "snapshot entry %d", i)
		}
		if err := table.InsertWithID(id, entry); err != nil {
			return nil, ticket.WrapError(ticket.ErrorCode(err), err, "snapshot entry %d", i)
		}
	}

	var header struct {
		Tickets *int `yaml:"tickets"`
	}
	if err := doc.Info.Decode(&header); err != nil {
		return nil, ticket.WrapError(ticket.CodeInvalidYAML, err, "decoding snapshot header")
	}
	if header.Tickets == nil {
		return nil, ticket.NewError(ticket.CodeInvalidYAML, "snapshot header has no ticket count")
	}
	if *header.Tickets != table.Count() {
		return nil, ticket.NewError(ticket.CodeCorruptedTable,
			"snapshot header declares %d tickets but %d entries were loaded",
			*header.Tickets, table.Count())
	}

	return table, nil
}

// LoadFile reads and reconstructs a table from the snapshot at path. File
// errors surface as CodeInvalidFilepath.
func LoadFile(path string, opts ...ticket.Option) (*ticket.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ticket.WrapError(ticket.CodeInvalidFilepath, err, "reading snapshot %q", path)
	}
	return Load(data, opts...)
}

func decodeEntry(raw rawEntry) (ticket.Entry, ticket.TicketID, error) {
	if raw.TicketID == nil || raw.FirstName == nil || raw.LastName == nil ||
		raw.Grade == nil || raw.GradeCategory == nil || raw.Metadata == nil {
		return ticket.Entry{}, ticket.InvalidTicketID,
			ticket.NewError(ticket.CodeInvalidYAML, "entry is missing a required field")
	}
	meta := raw.Metadata
	if meta.Flags == nil || meta.ScanCount == nil || meta.LastScanDate == nil {
		return ticket.Entry{}, ticket.InvalidTicketID,
			ticket.NewError(ticket.CodeInvalidYAML, "entry metadata is missing a required field")
	}
	if *raw.Grade > math.MaxUint8 {
		return ticket.Entry{}, ticket.InvalidTicketID,
			ticket.NewError(ticket.CodeInvalidYAML, "grade %d does not fit its field", *raw.Grade)
	}
	if len(*raw.GradeCategory) != 1 {
		return ticket.Entry{}, ticket.InvalidTicketID,
			ticket.NewError(ticket.CodeInvalidYAML, "grade category %q is not a single character", *raw.GradeCategory)
	}

	id, err := ticket.ParseTicketID(*raw.TicketID)
	if err != nil {
		return ticket.Entry{}, ticket.InvalidTicketID, err
	}

	lastScanDate := *meta.LastScanDate
	if lastScanDate == noScanSentinel {
		lastScanDate = ""
	}

	entry := ticket.NewEntry(*raw.FirstName, *raw.LastName, uint8(*raw.Grade), (*raw.GradeCategory)[0])
	entry.Metadata = ticket.Metadata{
		Flags:        *meta.Flags,
		ScanCount:    *meta.ScanCount,
		LastScanDate: lastScanDate,
	}
	return entry, id, nil
}
