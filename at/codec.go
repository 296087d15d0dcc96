package at

import (
	"strconv"
	"strings"
)

// Command is implemented by every request the driver can send to the
// modem. Prefix is the bare command mnemonic without the leading "AT",
// e.g. "+CGDCONT=" or "+SQNSMQTTCONNECT=". EncodeArgs appends the
// command's positional arguments, in order, to e.
type Command interface {
	Prefix() string
	EncodeArgs(e *Encoder) error
}

// Response is implemented by a single-line reply schema. DecodeFields is
// called for each line matching the response's prefix (once, for a
// single-line reply), with a Decoder positioned at the first field after
// the prefix has already been matched and consumed.
type Response interface {
	DecodeFields(d *Decoder) error
}

// SequenceResponse is implemented by replies that may repeat a record
// across several lines (e.g. one line per PDP context, one line per GNSS
// assistance type). DecodeLine is invoked once per matching line.
type SequenceResponse interface {
	DecodeLine(line string) error
}

// Encoder accumulates a command's positional argument tokens and renders
// them into the comma-joined tail of an AT command line.
type Encoder struct {
	toks []string
	// trimmable marks, per token, whether it may be trimmed from the tail
	// (along with its separating comma) when it is native-optional and
	// absent. Only tokens appended via AddOptional participate.
	trimmable []bool
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) add(tok string, trimmable bool) {
	e.toks = append(e.toks, tok)
	e.trimmable = append(e.trimmable, trimmable)
}

// AddString appends a fixed-capacity string field, quoted, after checking
// its length against max (0 means unbounded).
func (e *Encoder) AddString(s string, max int) error {
	if err := checkLen(s, max, len(e.toks)); err != nil {
		return err
	}
	e.add(`"`+s+`"`, false)
	return nil
}

// AddRawToken appends a token verbatim, unquoted, for numeric and enum
// fields that render their own syntax.
func (e *Encoder) AddRawToken(tok string) {
	e.add(tok, false)
}

// AddInt appends an integer field.
func (e *Encoder) AddInt(v int) {
	e.AddRawToken(strconv.Itoa(v))
}

// AddBool appends a wire Bool field.
func (e *Encoder) AddBool(b Bool) {
	e.AddRawToken(b.String())
}

// AddReserved appends a Reserved placeholder: an empty, non-trimmable
// token that keeps positional alignment with the modem's documented field
// layout.
func (e *Encoder) AddReserved() {
	e.add("", false)
}

// AddOptional appends a native Go option: present renders tok, absent
// renders nothing and becomes eligible for trailing trim if it (and every
// token after it) stays absent.
func (e *Encoder) AddOptional(tok *string) {
	if tok == nil {
		e.add("", true)
		return
	}
	e.add(*tok, true)
}

// AddNullable appends an at.Nullable field: None always renders as an
// explicit empty token (never trimmed), Some(v) renders render(v).
func AddNullable[T any](e *Encoder, n Nullable[T], render func(T) string) {
	if !n.Valid {
		e.add("", false)
		return
	}
	e.add(render(n.Value), false)
}

// String renders the accumulated tokens, trimming any trailing run of
// absent-and-trimmable tokens (and their commas) from the tail.
func (e *Encoder) String() string {
	end := len(e.toks)
	for end > 0 && e.trimmable[end-1] && e.toks[end-1] == "" {
		end--
	}
	return strings.Join(e.toks[:end], ",")
}

// Decoder splits a response line into quote-aware, comma-delimited
// positional tokens and hands them out by index, converting codec
// failures into *FieldError with the requested position.
type Decoder struct {
	toks []string
}

// NewDecoder splits line (with any command echo/prefix already stripped)
// into positional tokens.
func NewDecoder(line string) *Decoder {
	return &Decoder{toks: splitTopLevelCommas(line)}
}

// Len reports the number of tokens available.
func (d *Decoder) Len() int { return len(d.toks) }

func (d *Decoder) token(pos int) (string, bool) {
	if pos < 0 || pos >= len(d.toks) {
		return "", false
	}
	return strings.TrimSpace(d.toks[pos]), true
}

// String returns the unquoted string field at pos.
func (d *Decoder) String(pos int) (string, error) {
	tok, ok := d.token(pos)
	if !ok {
		return "", &FieldError{Pos: pos, Kind: ErrMissingField}
	}
	return strings.Trim(tok, `"`), nil
}

// Int returns the integer field at pos.
func (d *Decoder) Int(pos int) (int, error) {
	tok, ok := d.token(pos)
	if !ok {
		return 0, &FieldError{Pos: pos, Kind: ErrMissingField}
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, &FieldError{Pos: pos, Kind: ErrInvalidField, Reason: err.Error(), Value: tok}
	}
	return v, nil
}

// Bool returns the wire Bool field at pos.
func (d *Decoder) Bool(pos int) (Bool, error) {
	v, err := d.Int(pos)
	if err != nil {
		return False, err
	}
	if v != 0 && v != 1 {
		return False, &FieldError{Pos: pos, Kind: ErrInvalidField, Reason: "not 0 or 1"}
	}
	return Bool(v), nil
}

// QuotedF32 returns the quoted-float field at pos.
func (d *Decoder) QuotedF32(pos int) (QuotedF32, error) {
	tok, ok := d.token(pos)
	if !ok {
		return 0, &FieldError{Pos: pos, Kind: ErrMissingField}
	}
	f, err := parseQuotedF32(tok)
	if err != nil {
		return 0, &FieldError{Pos: pos, Kind: ErrInvalidField, Reason: err.Error(), Value: tok}
	}
	return f, nil
}

// DecodeNullable decodes the field at pos using parse, treating an empty token
// as explicit None rather than as a parse failure.
func DecodeNullable[T any](d *Decoder, pos int, parse func(string) (T, error)) (Nullable[T], error) {
	tok, ok := d.token(pos)
	if !ok {
		return Nullable[T]{}, &FieldError{Pos: pos, Kind: ErrMissingField}
	}
	if tok == "" {
		return Null[T](), nil
	}
	v, err := parse(tok)
	if err != nil {
		return Nullable[T]{}, &FieldError{Pos: pos, Kind: ErrInvalidField, Reason: err.Error(), Value: tok}
	}
	return Some(v), nil
}

// OptString returns a native-optional string field: absent (missing
// token, because it was trimmed off the tail) decodes as nil rather than
// an error.
func (d *Decoder) OptString(pos int) (*string, error) {
	tok, ok := d.token(pos)
	if !ok {
		return nil, nil
	}
	s := strings.Trim(tok, `"`)
	return &s, nil
}

// MatchPrefix verifies line begins with the command's response prefix
// (e.g. "+CGDCONT:") and returns the Decoder for the remainder. Some
// responses echo no prefix at all (prefix == ""), in which case the whole
// line is the field list.
func MatchPrefix(line, prefix string) (*Decoder, error) {
	if prefix == "" {
		return NewDecoder(line), nil
	}
	if !hasPrefixFold(line, prefix) {
		return nil, &FieldError{Pos: -1, Kind: ErrPrefixMismatch, Value: line}
	}
	return NewDecoder(trimColonPrefix(line, len(prefix))), nil
}
