// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package yaml

import "io"

// Scanner turns a byte stream into a stream of tokens. It owns the
// input reader (reader.go) and implements the YAML 1.1 token state
// machine: indentation roll/unroll, simple-key lookahead within a
// bounded window, flow-vs-block contexts, block scalar folding and
// chomping, quoted-scalar escape decoding, and directive handling.
type Scanner struct {
	// Reader state.
	src            io.Reader
	raw            []byte
	rawPos         int
	buf            []byte
	pos            int
	unread         int
	bufEOFSentinel bool
	encoding       Encoding
	eof            bool
	offset         int
	mark           Mark

	err *Error

	// Scanner state.
	streamStartProduced bool
	streamEndProduced   bool
	flowLevel           int

	tokens         []token
	tokensHead     int
	tokensParsed   int
	tokenAvailable bool

	indent  int
	indents []int

	simpleKeyAllowed bool
	simpleKeys       []simpleKey
}

// A simple key is a candidate mapping key recorded at a position where
// one could start. It is resolved retroactively when a ':' is seen
// within the same line and a 1024-byte window.
type simpleKey struct {
	possible    bool
	required    bool
	tokenNumber int
	mark        Mark
}

const initialStackSize = 16

// NewScanner returns a scanner reading from src. The encoding is
// detected from the first bytes of the stream.
func NewScanner(src io.Reader) *Scanner {
	return &Scanner{
		src:        src,
		raw:        make([]byte, 0, rawBufferSize),
		buf:        make([]byte, 0, bufferSize),
		tokens:     make([]token, 0, initialStackSize),
		indents:    make([]int, 0, initialStackSize),
		simpleKeys: make([]simpleKey, 0, initialStackSize),
	}
}

// Err returns the error that stopped the scanner, if any.
func (s *Scanner) Err() *Error { return s.err }

func (s *Scanner) setScannerError(context string, contextMark Mark, problem string) bool {
	s.err = &Error{
		Kind:        ErrScanner,
		Problem:     problem,
		ProblemMark: s.mark,
		Context:     context,
		ContextMark: contextMark,
		Value:       -1,
	}
	return false
}

// cache guarantees at least n decoded characters (or the EOF sentinel)
// are available at the read position.
func (s *Scanner) cache(n int) bool {
	if s.unread >= n {
		return true
	}
	return s.updateBuffer(n)
}

// skip advances over one character.
func (s *Scanner) skip() {
	w := charWidth(s.buf[s.pos])
	s.pos += w
	s.unread--
	s.mark.Index += w
	s.mark.Column++
}

// skipLine advances over one line break.
func (s *Scanner) skipLine() {
	if isCRLF(s.buf, s.pos) {
		s.pos += 2
		s.unread -= 2
		s.mark.Index += 2
	} else if isBreak(s.buf, s.pos) {
		w := charWidth(s.buf[s.pos])
		s.pos += w
		s.unread--
		s.mark.Index += w
	} else {
		return
	}
	s.mark.Column = 0
	s.mark.Line++
}

// read copies the current character into out and advances.
func (s *Scanner) read(out []byte) []byte {
	w := charWidth(s.buf[s.pos])
	out = append(out, s.buf[s.pos:s.pos+w]...)
	s.pos += w
	s.unread--
	s.mark.Index += w
	s.mark.Column++
	return out
}

// readLine copies the current line break into out, normalising CRLF,
// CR, LF, and NEL to a single '\n'. LS and PS are copied verbatim.
func (s *Scanner) readLine(out []byte) []byte {
	b, p := s.buf, s.pos
	switch {
	case isCRLF(b, p):
		out = append(out, '\n')
		s.pos += 2
		s.unread -= 2
		s.mark.Index += 2
	case b[p] == '\r' || b[p] == '\n':
		out = append(out, '\n')
		s.pos++
		s.unread--
		s.mark.Index++
	case b[p] == 0xC2 && b[p+1] == 0x85:
		out = append(out, '\n')
		s.pos += 2
		s.unread--
		s.mark.Index += 2
	case b[p] == 0xE2 && b[p+1] == 0x80 && (b[p+2] == 0xA8 || b[p+2] == 0xA9):
		out = append(out, b[p:p+3]...)
		s.pos += 3
		s.unread--
		s.mark.Index += 3
	default:
		return out
	}
	s.mark.Column = 0
	s.mark.Line++
	return out
}

// --- token queue -----------------------------------------------------

func (s *Scanner) pushToken(t token) {
	s.tokens = append(s.tokens, t)
}

// insertToken places t at position pos of the unconsumed queue, used
// for retro-inserting KEY and BLOCK-MAPPING-START at a saved simple
// key position.
func (s *Scanner) insertToken(pos int, t token) {
	i := s.tokensHead + pos
	s.tokens = append(s.tokens, token{})
	copy(s.tokens[i+1:], s.tokens[i:])
	s.tokens[i] = t
}

// peekToken returns the next token without consuming it, fetching more
// as required. Returns nil on error.
func (s *Scanner) peekToken() *token {
	if !s.tokenAvailable && !s.fetchMoreTokens() {
		return nil
	}
	return &s.tokens[s.tokensHead]
}

// skipToken consumes the token returned by peekToken.
func (s *Scanner) skipToken() {
	s.tokenAvailable = false
	s.tokensParsed++
	if s.tokens[s.tokensHead].typ == tokenStreamEnd {
		s.streamEndProduced = true
	}
	s.tokensHead++
	if s.tokensHead == len(s.tokens) {
		s.tokens = s.tokens[:0]
		s.tokensHead = 0
	}
}

// --- simple keys -----------------------------------------------------

// staleSimpleKeys expires candidates that can no longer be keys: a
// line break crossed them or the 1024-byte window ran out. Expiring a
// required candidate is an error.
func (s *Scanner) staleSimpleKeys() bool {
	for i := range s.simpleKeys {
		key := &s.simpleKeys[i]
		if key.possible && (key.mark.Line < s.mark.Line || key.mark.Index+1024 < s.mark.Index) {
			if key.required {
				return s.setScannerError("while scanning a simple key", key.mark,
					"could not find expected ':'")
			}
			key.possible = false
		}
	}
	return true
}

// saveSimpleKey records a candidate at the current position if one is
// allowed here. A key at the current block indent is required: the
// scanner must find its ':' or fail.
func (s *Scanner) saveSimpleKey() bool {
	required := s.flowLevel == 0 && s.indent == s.mark.Column
	if s.simpleKeyAllowed {
		key := simpleKey{
			possible:    true,
			required:    required,
			tokenNumber: s.tokensParsed + len(s.tokens) - s.tokensHead,
			mark:        s.mark,
		}
		if !s.removeSimpleKey() {
			return false
		}
		s.simpleKeys[len(s.simpleKeys)-1] = key
	}
	return true
}

// removeSimpleKey drops the current-level candidate.
func (s *Scanner) removeSimpleKey() bool {
	key := &s.simpleKeys[len(s.simpleKeys)-1]
	if key.possible && key.required {
		return s.setScannerError("while scanning a simple key", key.mark,
			"could not find expected ':'")
	}
	key.possible = false
	return true
}

func (s *Scanner) increaseFlowLevel() {
	s.simpleKeys = append(s.simpleKeys, simpleKey{})
	s.flowLevel++
}

func (s *Scanner) decreaseFlowLevel() {
	if s.flowLevel > 0 {
		s.flowLevel--
		s.simpleKeys = s.simpleKeys[:len(s.simpleKeys)-1]
	}
}

// --- indentation -----------------------------------------------------

// rollIndent pushes the current indentation level and opens a block
// collection token when the column increases it. number == -1 appends;
// otherwise the token is inserted at the saved queue position so the
// consumer sees it before the retro-fitted key.
func (s *Scanner) rollIndent(column, number int, typ tokenType, mark Mark) {
	if s.flowLevel > 0 {
		return
	}
	if s.indent < column {
		s.indents = append(s.indents, s.indent)
		s.indent = column
		t := token{typ: typ, start: mark, end: mark}
		if number == -1 {
			s.pushToken(t)
		} else {
			s.insertToken(number-s.tokensParsed, t)
		}
	}
}

// unrollIndent emits BLOCK-END while the current indentation exceeds
// the column. The -1 sentinel at the stack bottom stops the pops.
func (s *Scanner) unrollIndent(column int) {
	if s.flowLevel > 0 {
		return
	}
	for s.indent > column {
		s.pushToken(token{typ: tokenBlockEnd, start: s.mark, end: s.mark})
		s.indent = s.indents[len(s.indents)-1]
		s.indents = s.indents[:len(s.indents)-1]
	}
}

// --- fetch machinery -------------------------------------------------

// fetchMoreTokens guarantees at least one token is queued and that any
// still-possible simple key at the queue head has been resolved.
func (s *Scanner) fetchMoreTokens() bool {
	for {
		need := false
		if s.tokensHead == len(s.tokens) {
			need = true
		} else {
			if !s.staleSimpleKeys() {
				return false
			}
			for i := range s.simpleKeys {
				sk := &s.simpleKeys[i]
				if sk.possible && sk.tokenNumber == s.tokensParsed {
					need = true
					break
				}
			}
		}
		if !need {
			break
		}
		if !s.fetchNextToken() {
			return false
		}
	}
	s.tokenAvailable = true
	return true
}

// fetchNextToken produces the next token(s) from the input. The checks
// apply in order; the first match wins.
func (s *Scanner) fetchNextToken() bool {
	if !s.cache(1) {
		return false
	}

	if !s.streamStartProduced {
		s.fetchStreamStart()
		return true
	}

	if !s.scanToNextToken() {
		return false
	}
	if !s.staleSimpleKeys() {
		return false
	}

	s.unrollIndent(s.mark.Column)

	if !s.cache(4) {
		return false
	}

	buf, p := s.buf, s.pos

	if isZ(buf, p) {
		return s.fetchStreamEnd()
	}

	if s.mark.Column == 0 && buf[p] == '%' {
		return s.fetchDirective()
	}

	if s.mark.Column == 0 && buf[p] == '-' && buf[p+1] == '-' && buf[p+2] == '-' && isBlankZ(buf, p+3) {
		return s.fetchDocumentIndicator(tokenDocumentStart)
	}
	if s.mark.Column == 0 && buf[p] == '.' && buf[p+1] == '.' && buf[p+2] == '.' && isBlankZ(buf, p+3) {
		return s.fetchDocumentIndicator(tokenDocumentEnd)
	}

	switch buf[p] {
	case '[':
		return s.fetchFlowCollectionStart(tokenFlowSequenceStart)
	case '{':
		return s.fetchFlowCollectionStart(tokenFlowMappingStart)
	case ']':
		return s.fetchFlowCollectionEnd(tokenFlowSequenceEnd)
	case '}':
		return s.fetchFlowCollectionEnd(tokenFlowMappingEnd)
	case ',':
		return s.fetchFlowEntry()
	}

	if buf[p] == '-' && isBlankZ(buf, p+1) {
		return s.fetchBlockEntry()
	}
	if buf[p] == '?' && (s.flowLevel > 0 || isBlankZ(buf, p+1)) {
		return s.fetchKey()
	}
	if buf[p] == ':' && (s.flowLevel > 0 || isBlankZ(buf, p+1)) {
		return s.fetchValue()
	}

	switch buf[p] {
	case '*':
		return s.fetchAnchor(tokenAlias)
	case '&':
		return s.fetchAnchor(tokenAnchor)
	case '!':
		return s.fetchTag()
	}

	if buf[p] == '|' && s.flowLevel == 0 {
		return s.fetchBlockScalar(true)
	}
	if buf[p] == '>' && s.flowLevel == 0 {
		return s.fetchBlockScalar(false)
	}
	if buf[p] == '\'' {
		return s.fetchFlowScalar(true)
	}
	if buf[p] == '"' {
		return s.fetchFlowScalar(false)
	}

	// A plain scalar may start with any character that is not an
	// indicator, or with '-', '?', or ':' when followed by a non-blank
	// in the permitted context.
	startsPlain := !(isBlankZ(buf, p) ||
		buf[p] == '-' || buf[p] == '?' || buf[p] == ':' ||
		buf[p] == ',' || buf[p] == '[' || buf[p] == ']' ||
		buf[p] == '{' || buf[p] == '}' || buf[p] == '#' ||
		buf[p] == '&' || buf[p] == '*' || buf[p] == '!' ||
		buf[p] == '|' || buf[p] == '>' || buf[p] == '\'' ||
		buf[p] == '"' || buf[p] == '%' || buf[p] == '@' ||
		buf[p] == '`')
	if !startsPlain {
		if buf[p] == '-' && !isBlank(buf, p+1) {
			startsPlain = true
		} else if s.flowLevel == 0 && (buf[p] == '?' || buf[p] == ':') && !isBlankZ(buf, p+1) {
			startsPlain = true
		}
	}
	if startsPlain {
		return s.fetchPlainScalar()
	}

	return s.setScannerError("while scanning for the next token", s.mark,
		"found character that cannot start any token")
}

// scanToNextToken skips whitespace, comments, and line breaks up to
// the next token. Tabs are only skipped where a simple key cannot
// start.
func (s *Scanner) scanToNextToken() bool {
	for {
		if !s.cache(1) {
			return false
		}

		if s.mark.Column == 0 && isBOM(s.buf, s.pos) {
			s.skip()
		}

		for s.buf[s.pos] == ' ' ||
			(s.buf[s.pos] == '\t' && (s.flowLevel > 0 || !s.simpleKeyAllowed)) {
			s.skip()
			if !s.cache(1) {
				return false
			}
		}

		if s.buf[s.pos] == '#' {
			for !isBreakZ(s.buf, s.pos) {
				s.skip()
				if !s.cache(1) {
					return false
				}
			}
		}

		if isBreak(s.buf, s.pos) {
			if !s.cache(2) {
				return false
			}
			s.skipLine()
			if s.flowLevel == 0 {
				s.simpleKeyAllowed = true
			}
			continue
		}
		return true
	}
}

// --- token fetchers --------------------------------------------------

func (s *Scanner) fetchStreamStart() {
	s.indent = -1
	s.simpleKeys = append(s.simpleKeys, simpleKey{})
	s.simpleKeyAllowed = true
	s.streamStartProduced = true
	s.pushToken(token{
		typ:      tokenStreamStart,
		start:    s.mark,
		end:      s.mark,
		encoding: s.encoding,
	})
}

func (s *Scanner) fetchStreamEnd() bool {
	// Force a new line at the end of the stream.
	if s.mark.Column != 0 {
		s.mark.Column = 0
		s.mark.Line++
	}
	s.unrollIndent(-1)
	if !s.removeSimpleKey() {
		return false
	}
	s.simpleKeyAllowed = false
	s.pushToken(token{typ: tokenStreamEnd, start: s.mark, end: s.mark})
	return true
}

func (s *Scanner) fetchDirective() bool {
	s.unrollIndent(-1)
	if !s.removeSimpleKey() {
		return false
	}
	s.simpleKeyAllowed = false
	var t token
	if !s.scanDirective(&t) {
		return false
	}
	s.pushToken(t)
	return true
}

func (s *Scanner) fetchDocumentIndicator(typ tokenType) bool {
	s.unrollIndent(-1)
	if !s.removeSimpleKey() {
		return false
	}
	s.simpleKeyAllowed = false
	start := s.mark
	s.skip()
	s.skip()
	s.skip()
	s.pushToken(token{typ: typ, start: start, end: s.mark})
	return true
}

func (s *Scanner) fetchFlowCollectionStart(typ tokenType) bool {
	// '[' and '{' may themselves start a simple key (a flow collection
	// used as a mapping key).
	if !s.saveSimpleKey() {
		return false
	}
	s.increaseFlowLevel()
	s.simpleKeyAllowed = true
	start := s.mark
	s.skip()
	s.pushToken(token{typ: typ, start: start, end: s.mark})
	return true
}

func (s *Scanner) fetchFlowCollectionEnd(typ tokenType) bool {
	if !s.removeSimpleKey() {
		return false
	}
	s.decreaseFlowLevel()
	s.simpleKeyAllowed = false
	start := s.mark
	s.skip()
	s.pushToken(token{typ: typ, start: start, end: s.mark})
	return true
}

func (s *Scanner) fetchFlowEntry() bool {
	if !s.removeSimpleKey() {
		return false
	}
	s.simpleKeyAllowed = true
	start := s.mark
	s.skip()
	s.pushToken(token{typ: tokenFlowEntry, start: start, end: s.mark})
	return true
}

func (s *Scanner) fetchBlockEntry() bool {
	if s.flowLevel == 0 {
		if !s.simpleKeyAllowed {
			s.err = &Error{
				Kind:        ErrScanner,
				Problem:     "block sequence entries are not allowed in this context",
				ProblemMark: s.mark,
				Value:       -1,
			}
			return false
		}
		s.rollIndent(s.mark.Column, -1, tokenBlockSequenceStart, s.mark)
	}
	// A '-' inside flow context is left for the parser to reject,
	// where the grammar context makes for a better message.
	if !s.removeSimpleKey() {
		return false
	}
	s.simpleKeyAllowed = true
	start := s.mark
	s.skip()
	s.pushToken(token{typ: tokenBlockEntry, start: start, end: s.mark})
	return true
}

func (s *Scanner) fetchKey() bool {
	if s.flowLevel == 0 {
		if !s.simpleKeyAllowed {
			s.err = &Error{
				Kind:        ErrScanner,
				Problem:     "mapping keys are not allowed in this context",
				ProblemMark: s.mark,
				Value:       -1,
			}
			return false
		}
		s.rollIndent(s.mark.Column, -1, tokenBlockMappingStart, s.mark)
	}
	if !s.removeSimpleKey() {
		return false
	}
	s.simpleKeyAllowed = s.flowLevel == 0
	start := s.mark
	s.skip()
	s.pushToken(token{typ: tokenKey, start: start, end: s.mark})
	return true
}

func (s *Scanner) fetchValue() bool {
	key := &s.simpleKeys[len(s.simpleKeys)-1]
	if key.possible {
		// Retro-insert KEY at the saved queue position, and in block
		// context a BLOCK-MAPPING-START before it if this key opens
		// the mapping.
		s.insertToken(key.tokenNumber-s.tokensParsed,
			token{typ: tokenKey, start: key.mark, end: key.mark})
		s.rollIndent(key.mark.Column, key.tokenNumber, tokenBlockMappingStart, key.mark)
		key.possible = false
		s.simpleKeyAllowed = false
	} else {
		if s.flowLevel == 0 {
			if !s.simpleKeyAllowed {
				s.err = &Error{
					Kind:        ErrScanner,
					Problem:     "mapping values are not allowed in this context",
					ProblemMark: s.mark,
					Value:       -1,
				}
				return false
			}
			s.rollIndent(s.mark.Column, -1, tokenBlockMappingStart, s.mark)
		}
		s.simpleKeyAllowed = s.flowLevel == 0
	}
	start := s.mark
	s.skip()
	s.pushToken(token{typ: tokenValue, start: start, end: s.mark})
	return true
}

func (s *Scanner) fetchAnchor(typ tokenType) bool {
	if !s.saveSimpleKey() {
		return false
	}
	s.simpleKeyAllowed = false
	var t token
	if !s.scanAnchor(&t, typ) {
		return false
	}
	s.pushToken(t)
	return true
}

func (s *Scanner) fetchTag() bool {
	if !s.saveSimpleKey() {
		return false
	}
	s.simpleKeyAllowed = false
	var t token
	if !s.scanTag(&t) {
		return false
	}
	s.pushToken(t)
	return true
}

func (s *Scanner) fetchBlockScalar(literal bool) bool {
	if !s.removeSimpleKey() {
		return false
	}
	s.simpleKeyAllowed = true
	var t token
	if !s.scanBlockScalar(&t, literal) {
		return false
	}
	s.pushToken(t)
	return true
}

func (s *Scanner) fetchFlowScalar(single bool) bool {
	if !s.saveSimpleKey() {
		return false
	}
	s.simpleKeyAllowed = false
	var t token
	if !s.scanFlowScalar(&t, single) {
		return false
	}
	s.pushToken(t)
	return true
}

func (s *Scanner) fetchPlainScalar() bool {
	if !s.saveSimpleKey() {
		return false
	}
	s.simpleKeyAllowed = false
	var t token
	if !s.scanPlainScalar(&t) {
		return false
	}
	s.pushToken(t)
	return true
}
