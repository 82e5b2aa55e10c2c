package ticket

// entryIntegrityTag is the sentinel every live entry carries. An entry whose
// tag differs is corrupted: no operation may read or write its fields, and
// any operation that reaches it must fail instead.
const entryIntegrityTag uint32 = 0x46475445 // "FGTE"

// Entry flag bits stored in Metadata.Flags.
const (
	// FlagNotScannable marks an entry that must reject rescans.
	FlagNotScannable uint32 = 1 << 0
)

// Metadata tracks the scan history of a ticket.
type Metadata struct {
	Flags     uint32
	ScanCount uint32

	// LastScanDate is the local date-time of the most recent scan, in
	// D/M/YYYY-H:M:S form without zero padding. Empty until the first scan.
	LastScanDate string
}

// Entry is one attendee record. The zero value is deliberately corrupted:
// entries must be constructed through NewEntry or loaded through the
// snapshot codec so the integrity tag is set.
type Entry struct {
	tag uint32

	Metadata Metadata

	FirstName string
	LastName  string

	// Grade is the attendee's school grade, valid range 9-12.
	Grade uint8

	// GradeCategory is the class letter, canonically uppercase, valid
	// range 'A'-'F'.
	GradeCategory byte
}

// NewEntry returns a well-formed entry carrying the integrity tag. The fields
// are not yet validated; validation happens on insertion.
func NewEntry(firstName, lastName string, grade uint8, category byte) Entry {
	return Entry{
		tag:           entryIntegrityTag,
		FirstName:     firstName,
		LastName:      lastName,
		Grade:         grade,
		GradeCategory: category,
	}
}

// IsCorrupted reports whether the integrity tag no longer matches.
func (e *Entry) IsCorrupted() bool {
	return e.tag != entryIntegrityTag
}

// Scannable reports whether the entry accepts rescans.
func (e *Entry) Scannable() bool {
	return e.Metadata.Flags&FlagNotScannable == 0
}

// checkCorrupted fails with the given code if the entry is corrupted.
// Operations touching a single entry report CodeCorruptedEntry; operations
// that encounter corruption mid-walk report CodeCorruptedTable.
func (e *Entry) checkCorrupted(code Code) error {
	if e.IsCorrupted() {
		return NewError(code, "entry integrity tag mismatch")
	}
	return nil
}
