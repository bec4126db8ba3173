package psu

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"math/big"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ReplyKind tells which decoding path produced a Reply
type ReplyKind int

const (
	KindNone ReplyKind = iota
	KindNumber
	KindBits
)

func (k ReplyKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBits:
		return "bits"
	default:
		return "none"
	}
}

// Reply is one decoded response line
type Reply struct {
	Raw   []byte
	Kind  ReplyKind
	value float64
}

// Decode interprets a response line. Text that parses as a float yields a
// number; any other non-empty line is kept as the bit pattern of its bytes.
// It reports false for an empty line.
//
// Non-numeric text (an identity string, a garbled reply) also takes the bit
// path, exactly like a binary status byte does.
func Decode(raw []byte) (Reply, bool) {
	if len(raw) == 0 {
		return Reply{}, false
	}

	line := bytes.Clone(raw)
	if v, ok := parseNumber(line); ok {
		return Reply{Raw: line, Kind: KindNumber, value: v}, true
	}
	return Reply{Raw: line, Kind: KindBits}, true
}

// parseNumber accepts decimal float text with surrounding whitespace,
// including inf and nan with an optional sign. Values beyond float64 range
// saturate to ±Inf.
func parseNumber(raw []byte) (float64, bool) {
	if !utf8.Valid(raw) {
		return 0, false
	}

	text := strings.TrimSpace(string(raw))
	if text == "" || strings.ContainsAny(text, "xX") {
		return 0, false
	}
	if strings.Contains(text, "_") {
		var ok bool
		if text, ok = stripDigitSeparators(text); !ok {
			return 0, false
		}
	}

	// strconv rejects a sign in front of nan
	unsigned := text
	if text[0] == '+' || text[0] == '-' {
		unsigned = text[1:]
	}
	if strings.EqualFold(unsigned, "nan") {
		return math.NaN(), true
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, true
}

// stripDigitSeparators removes underscores that sit between two digits and
// rejects any other underscore.
func stripDigitSeparators(text string) (string, bool) {
	isDigit := func(i int) bool { return i >= 0 && i < len(text) && text[i] >= '0' && text[i] <= '9' }

	var b strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] != '_' {
			b.WriteByte(text[i])
			continue
		}
		if !isDigit(i-1) || !isDigit(i+1) {
			return "", false
		}
	}
	return b.String(), true
}

// Float returns the numeric value of a number reply
func (r Reply) Float() (float64, bool) {
	return r.value, r.Kind == KindNumber
}

// Uint returns the raw bytes read as an unsigned integer in host byte order
func (r Reply) Uint() *big.Int {
	b := bytes.Clone(r.Raw)
	if littleEndianHost {
		slices.Reverse(b)
	}
	return new(big.Int).SetBytes(b)
}

// Bits returns the binary digits of Uint without a prefix or leading zeros
func (r Reply) Bits() string {
	return r.Uint().Text(2)
}

// Text returns the reply as trimmed ASCII, for replies such as the identity
// string that are meant to be read by people.
func (r Reply) Text() string {
	return strings.TrimSpace(string(r.Raw))
}

// String renders the decoded value: the number for number replies, the
// 0b-prefixed bit string otherwise.
func (r Reply) String() string {
	switch r.Kind {
	case KindNumber:
		return FormatValue(r.value)
	case KindBits:
		return "0b" + r.Bits()
	default:
		return ""
	}
}

var littleEndianHost = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// Status is the reply to a STATUS? query
type Status struct {
	Reply
}

// Bits returns the status bits zero-padded to eight digits per raw byte,
// most significant bit first.
func (s Status) Bits() string {
	bits := s.Reply.Bits()
	if width := 8 * len(s.Raw); len(bits) < width {
		bits = strings.Repeat("0", width-len(bits)) + bits
	}
	return bits
}

// outputBitIndex is the position of the output flag in Status.Bits.
const outputBitIndex = 7

// Output returns the output flag, 0 or 1.
func (s Status) Output() (int, error) {
	bits := s.Bits()
	if len(bits) <= outputBitIndex {
		return 0, ErrNoResponse
	}
	return int(bits[outputBitIndex] - '0'), nil
}
