// Package ticket implements the attendee registry at the core of fairgate:
// base-36 ticket identifiers with checked decoding, entry validation and
// canonical name formatting, and a single-owner table with a
// generate-then-commit identifier protocol.
//
// The table detects stale identifier candidates through a generation counter:
// GenerateTicketID returns a candidate paired with the counter value, and
// Commit rejects the candidate once any other insertion has advanced the
// counter. The split is the registry's only ordering guarantee; it keeps
// "generate now, commit later" safe against intervening mutations.
//
// Every entry carries an integrity tag. A tag mismatch marks the entry
// corrupted: operations that would read or write its fields fail with
// CodeCorruptedEntry (or CodeCorruptedTable when the corruption is found
// mid-walk), and the entry can only leave the table through Discard.
package ticket
