// Package snapshot persists a ticket registry to a structured YAML file and
// reconstructs it by replaying every entry through the table's normal
// insertion path, so load-time validation is identical to live validation.
//
// The file shape is an external contract: an info header carrying a fixed
// registry name and the live entry count, then one node per entry with
// base-36 ticket_id, first_name, last_name, grade as a plain integer,
// grade_category as a single letter, and a metadata block whose
// last_scan_date is the literal "N/A" until the first scan. Consumers treat
// a header count that disagrees with the entry nodes as fatal corruption.
package snapshot
