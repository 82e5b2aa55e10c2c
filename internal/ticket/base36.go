package ticket

// TicketID is the unique 64-bit identifier of a registry entry. Its textual
// form is base-36: digits 0-9 then letters A-Z, most significant digit first.
type TicketID uint64

// InvalidTicketID is the reserved "invalid/unset" identifier. It is never
// issued by generation.
const InvalidTicketID TicketID = 0

// MaxGeneratedID is the top of the generated identifier space: five base-36
// digits. Identifiers loaded from a snapshot may exceed it, bounded only by
// the checked-arithmetic decode.
const MaxGeneratedID TicketID = 36 * 36 * 36 * 36 * 36

const base36Digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// FormatTicketID renders id in minimal base-36 form. FormatTicketID(0)
// returns "0". ParseTicketID(FormatTicketID(x)) == x for every x.
func FormatTicketID(id TicketID) string {
	if id == 0 {
		return "0"
	}

	// 13 digits cover the full 64-bit range.
	var buf [13]byte
	i := len(buf)
	for value := uint64(id); value != 0; value /= 36 {
		i--
		buf[i] = base36Digits[value%36]
	}
	return string(buf[i:])
}

// ParseTicketID decodes case-insensitive base-36 text. Characters outside
// 0-9, A-Z, a-z fail with CodeInvalidParameter. The accumulation is checked:
// input whose value exceeds 64 bits fails with CodeIntegerOverflow instead of
// wrapping, so pathological long inputs are rejected.
func ParseTicketID(text string) (TicketID, error) {
	var value uint64
	for i := 0; i < len(text); i++ {
		c := text[i]

		var digit uint64
		switch {
		case c >= '0' && c <= '9':
			digit = uint64(c - '0')
		case c >= 'A' && c <= 'Z':
			digit = uint64(c-'A') + 10
		case c >= 'a' && c <= 'z':
			digit = uint64(c-'a') + 10
		default:
			return InvalidTicketID, NewError(CodeInvalidParameter,
				"ticket ID %q contains invalid base-36 character %q", text, c)
		}

		shifted, err := mulUint64(value, 36)
		if err != nil {
			return InvalidTicketID, err
		}
		value, err = addUint64(shifted, digit)
		if err != nil {
			return InvalidTicketID, err
		}
	}
	return TicketID(value), nil
}
