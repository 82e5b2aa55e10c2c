package ticket

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"
)

// generateAttempts bounds the collision-avoidance loop inside
// GenerateTicketID. Exhausting it surfaces CodeIDGenerationFailed; it is the
// only internal retry in the registry.
const generateAttempts = 512

// Table is the keyed collection of entries. It is exclusively owned by one
// caller for its whole lifetime: single-threaded, no internal locking. Every
// operation either completes or fails without leaving a partially-applied
// mutation behind.
type Table struct {
	entries map[TicketID]*Entry

	// generation is the staleness token for generated-but-uncommitted
	// identifiers. It starts at 1 and advances on every successful
	// generation and every successful insertion.
	generation uint64

	randUint64 func() uint64
	clock      Clock
}

// GeneratedTicketID pairs a candidate identifier with the generation counter
// value observed when it was drawn. The candidate is not reserved in the
// table: committing it fails with CodeIDExpired if any insertion advanced the
// counter in between, forcing the caller to regenerate.
type GeneratedTicketID struct {
	ID TicketID

	generation uint64
}

// Option configures a Table at construction.
type Option func(*Table)

// WithClock overrides the clock used to stamp rescans.
func WithClock(clock Clock) Option {
	return func(t *Table) { t.clock = clock }
}

// WithRandom overrides the uniform 64-bit source used for identifier
// generation.
func WithRandom(fn func() uint64) Option {
	return func(t *Table) { t.randUint64 = fn }
}

// NewTable returns an empty table with the generation counter at its starting
// value.
func NewTable(opts ...Option) *Table {
	t := &Table{
		entries:    make(map[TicketID]*Entry),
		generation: 1,
		randUint64: rand.Uint64,
		clock:      systemClock{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// GenerateTicketID draws an unused identifier uniformly from
// [1, MaxGeneratedID], retrying on collision up to generateAttempts times.
// On success the generation counter advances and the candidate is returned
// paired with the new counter value; the candidate is not inserted.
//
// The modulo reduction carries a small bias because the identifier range does
// not divide the 64-bit output space. The bias is accepted: removing it would
// change the observable identifier distribution.
func (t *Table) GenerateTicketID() (GeneratedTicketID, error) {
	const lowRange = uint64(1)
	const highRange = uint64(MaxGeneratedID)

	for attempt := 0; attempt < generateAttempts; attempt++ {
		id := TicketID(lowRange + t.randUint64()%(highRange-lowRange+1))
		if _, exists := t.entries[id]; exists {
			continue
		}

		generation, err := addUint64(t.generation, 1)
		if err != nil {
			return GeneratedTicketID{}, err
		}
		t.generation = generation
		return GeneratedTicketID{ID: id, generation: generation}, nil
	}

	return GeneratedTicketID{}, NewError(CodeIDGenerationFailed,
		"no unused ticket ID found in %d attempts", generateAttempts)
}

// Expired reports whether candidate can no longer be committed because the
// table changed since it was generated. A candidate carrying the reserved
// invalid identifier fails with CodeIDInvalid.
func (t *Table) Expired(candidate GeneratedTicketID) (bool, error) {
	if candidate.ID == InvalidTicketID {
		return false, NewError(CodeIDInvalid, "candidate carries the reserved invalid ticket ID")
	}
	return candidate.generation != t.generation, nil
}

// Commit inserts entry under the candidate identifier. It fails with
// CodeIDExpired if any insertion happened between generation and commit;
// otherwise it delegates to InsertWithID.
func (t *Table) Commit(candidate GeneratedTicketID, entry Entry) error {
	expired, err := t.Expired(candidate)
	if err != nil {
		return err
	}
	if expired {
		return NewError(CodeIDExpired,
			"ticket ID %s was generated before another insertion and must be regenerated",
			FormatTicketID(candidate.ID))
	}
	return t.InsertWithID(candidate.ID, entry)
}

// Insert generates a fresh identifier and commits entry under it, returning
// the issued identifier.
func (t *Table) Insert(entry Entry) (TicketID, error) {
	candidate, err := t.GenerateTicketID()
	if err != nil {
		return InvalidTicketID, err
	}
	if err := t.Commit(candidate, entry); err != nil {
		return InvalidTicketID, err
	}
	return candidate.ID, nil
}

// InsertWithID validates entry and stores it under id. It fails with
// CodeIDAlreadyExists if id is already issued and with
// CodeEntryAlreadyExists if a live entry holds the same canonical identity
// tuple. Snapshot loading replays through this same path, so persisted data
// is revalidated exactly like live data. A failed insertion leaves the table
// unchanged.
func (t *Table) InsertWithID(id TicketID, entry Entry) error {
	if err := entry.checkCorrupted(CodeCorruptedEntry); err != nil {
		return err
	}

	if _, exists := t.entries[id]; exists {
		return NewError(CodeIDAlreadyExists, "ticket ID %s is already issued", FormatTicketID(id))
	}

	if err := FormatEntry(&entry); err != nil {
		return err
	}

	exists, err := t.hasEquivalentEntry(&entry)
	if err != nil {
		return err
	}
	if exists {
		return NewError(CodeEntryAlreadyExists,
			"an entry for %s %s (%d%c) already exists",
			entry.FirstName, entry.LastName, entry.Grade, entry.GradeCategory)
	}

	generation, err := addUint64(t.generation, 1)
	if err != nil {
		return err
	}
	t.generation = generation

	stored := entry
	t.entries[id] = &stored
	return nil
}

// hasEquivalentEntry reports whether a live entry already holds the same
// canonical (first name, last name, grade, category) tuple as entry. The
// walk fails with CodeCorruptedTable at the first corrupted entry.
func (t *Table) hasEquivalentEntry(entry *Entry) (bool, error) {
	if err := entry.checkCorrupted(CodeCorruptedEntry); err != nil {
		return false, err
	}

	for _, existing := range t.entries {
		if err := existing.checkCorrupted(CodeCorruptedTable); err != nil {
			return false, err
		}
		if existing.Grade == entry.Grade && existing.GradeCategory == entry.GradeCategory &&
			existing.LastName == entry.LastName && existing.FirstName == entry.FirstName {
			return true, nil
		}
	}
	return false, nil
}

// Has reports whether id is currently issued. Corrupted entries still count
// as issued; they only block operations that read or write their fields.
func (t *Table) Has(id TicketID) bool {
	_, ok := t.entries[id]
	return ok
}

// Get returns the live entry stored under id. The pointer aliases table
// state: it stays valid until the entry is removed, and mutations through it
// are visible to later operations.
func (t *Table) Get(id TicketID) (*Entry, error) {
	entry, ok := t.entries[id]
	if !ok {
		return nil, NewError(CodeIDNotFound, "ticket ID %s is not issued", FormatTicketID(id))
	}
	if err := entry.checkCorrupted(CodeCorruptedEntry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Remove deletes the entry stored under id. A corrupted entry cannot be
// removed this way; use Discard to drop it without touching its fields.
func (t *Table) Remove(id TicketID) error {
	entry, ok := t.entries[id]
	if !ok {
		return NewError(CodeIDNotFound, "ticket ID %s is not issued", FormatTicketID(id))
	}
	if err := entry.checkCorrupted(CodeCorruptedEntry); err != nil {
		return err
	}
	delete(t.entries, id)
	return nil
}

// Discard deletes the entry stored under id without inspecting its fields.
// It is the only way to drop a corrupted entry from the table.
func (t *Table) Discard(id TicketID) error {
	if _, ok := t.entries[id]; !ok {
		return NewError(CodeIDNotFound, "ticket ID %s is not issued", FormatTicketID(id))
	}
	delete(t.entries, id)
	return nil
}

// Count returns the number of live entries.
func (t *Table) Count() int {
	return len(t.entries)
}

// IterationDecision tells ForEach whether to keep walking.
type IterationDecision int

const (
	// IterationContinue visits the next entry.
	IterationContinue IterationDecision = iota
	// IterationBreak stops the walk early without error.
	IterationBreak
)

// ForEach visits entries in ascending identifier order. Corruption is
// detected lazily: the walk fails with CodeCorruptedTable at the first
// corrupted entry it reaches, and entries after that point are never visited.
// An error returned by the callback aborts the walk and is propagated.
func (t *Table) ForEach(fn func(TicketID, *Entry) (IterationDecision, error)) error {
	for _, id := range t.sortedIDs() {
		entry := t.entries[id]
		if err := entry.checkCorrupted(CodeCorruptedTable); err != nil {
			return err
		}
		decision, err := fn(id, entry)
		if err != nil {
			return err
		}
		if decision == IterationBreak {
			break
		}
	}
	return nil
}

func (t *Table) sortedIDs() []TicketID {
	ids := make([]TicketID, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// FindByName returns the identifiers of every entry whose names match first
// and last exactly. Stored names are canonical, so the comparison is
// case-sensitive against canonical form. The result may be empty.
func (t *Table) FindByName(firstName, lastName string) ([]TicketID, error) {
	var ids []TicketID
	err := t.ForEach(func(id TicketID, entry *Entry) (IterationDecision, error) {
		if entry.FirstName == firstName && entry.LastName == lastName {
			ids = append(ids, id)
		}
		return IterationContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Rescan records a scan of id: it stamps the current local date-time and
// increments the scan count. Entries with the scannable flag cleared fail
// with CodeIDNotScannable, and a scan count at its maximum fails with
// CodeIntegerOverflow; both leave the entry unchanged.
func (t *Table) Rescan(id TicketID) error {
	entry, err := t.Get(id)
	if err != nil {
		return err
	}

	if !entry.Scannable() {
		return NewError(CodeIDNotScannable, "ticket ID %s is not scannable", FormatTicketID(id))
	}
	if entry.Metadata.ScanCount == math.MaxUint32 {
		return NewError(CodeIntegerOverflow,
			"scan count for ticket ID %s is at its maximum", FormatTicketID(id))
	}

	entry.Metadata.LastScanDate = formatScanDate(t.clock.Now())
	entry.Metadata.ScanCount++
	return nil
}

// UpdateEntry replaces the entry stored under id with replacement, keeping
// the identifier. The replacement is validated and duplicate-checked exactly
// like an insertion; a replacement that keeps the same identity tuple is not
// a duplicate of itself.
func (t *Table) UpdateEntry(id TicketID, replacement Entry) error {
	entry, err := t.Get(id)
	if err != nil {
		return err
	}
	if err := replacement.checkCorrupted(CodeCorruptedEntry); err != nil {
		return err
	}
	if err := FormatEntry(&replacement); err != nil {
		return err
	}

	sameIdentity := entry.FirstName == replacement.FirstName &&
		entry.LastName == replacement.LastName &&
		entry.Grade == replacement.Grade &&
		entry.GradeCategory == replacement.GradeCategory
	if !sameIdentity {
		exists, err := t.hasEquivalentEntry(&replacement)
		if err != nil {
			return err
		}
		if exists {
			return NewError(CodeEntryAlreadyExists,
				"an entry for %s %s (%d%c) already exists",
				replacement.FirstName, replacement.LastName,
				replacement.Grade, replacement.GradeCategory)
		}
	}

	*entry = replacement
	return nil
}

// formatScanDate renders now as D/M/YYYY-H:M:S without zero padding.
func formatScanDate(now time.Time) string {
	return fmt.Sprintf("%d/%d/%d-%d:%d:%d",
		now.Day(), int(now.Month()), now.Year(),
		now.Hour(), now.Minute(), now.Second())
}
