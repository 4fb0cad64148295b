// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package yaml

import "io"

// parserState is the cursor of the event grammar state machine. Each
// state consumes zero or more tokens, emits exactly one event, and
// either replaces itself or pushes a continuation on the state stack.
type parserState int8

const (
	psStreamStart parserState = iota
	psImplicitDocumentStart
	psDocumentStart
	psDocumentContent
	psDocumentEnd
	psBlockNode
	psBlockNodeOrIndentlessSequence
	psFlowNode
	psBlockSequenceFirstEntry
	psBlockSequenceEntry
	psIndentlessSequenceEntry
	psBlockMappingFirstKey
	psBlockMappingKey
	psBlockMappingValue
	psFlowSequenceFirstEntry
	psFlowSequenceEntry
	psFlowSequenceEntryMappingKey
	psFlowSequenceEntryMappingValue
	psFlowSequenceEntryMappingEnd
	psFlowMappingFirstKey
	psFlowMappingKey
	psFlowMappingValue
	psFlowMappingEmptyValue
	psEnd
)

// Parser turns the scanner's token stream into an event stream.
type Parser struct {
	scanner *Scanner

	state  parserState
	states []parserState
	marks  []Mark

	tagDirectives []TagDirective
	err           *Error
}

// NewParser returns a parser reading from src.
func NewParser(src io.Reader) *Parser {
	return &Parser{
		scanner: NewScanner(src),
		states:  make([]parserState, 0, initialStackSize),
		marks:   make([]Mark, 0, initialStackSize),
	}
}

// Err returns the error that stopped the parser, if any.
func (p *Parser) Err() *Error {
	if p.err != nil {
		return p.err
	}
	return p.scanner.Err()
}

// Mark returns the scanner's current input position, for error
// reporting by consumers that detect problems at the event level.
func (p *Parser) Mark() Mark { return p.scanner.mark }

func (p *Parser) setParserError(problem string, mark Mark) bool {
	p.err = &Error{Kind: ErrParser, Problem: problem, ProblemMark: mark, Value: -1}
	return false
}

func (p *Parser) setParserErrorContext(context string, contextMark Mark, problem string, mark Mark) bool {
	p.err = &Error{
		Kind:        ErrParser,
		Problem:     problem,
		ProblemMark: mark,
		Context:     context,
		ContextMark: contextMark,
		Value:       -1,
	}
	return false
}

func (p *Parser) peek() *token {
	return p.scanner.peekToken()
}

func (p *Parser) pushState(s parserState) {
	p.states = append(p.states, s)
}

func (p *Parser) popState() parserState {
	s := p.states[len(p.states)-1]
	p.states = p.states[:len(p.states)-1]
	return s
}

func (p *Parser) pushMark(m Mark) {
	p.marks = append(p.marks, m)
}

func (p *Parser) popMark() Mark {
	m := p.marks[len(p.marks)-1]
	p.marks = p.marks[:len(p.marks)-1]
	return m
}

// Parse advances the state machine by one event. It reports false at
// the end of the stream or on error; check Err to tell them apart.
func (p *Parser) Parse(e *event) bool {
	*e = event{}
	if p.scanner.streamEndProduced || p.err != nil || p.scanner.err != nil || p.state == psEnd {
		return false
	}
	return p.stateMachine(e)
}

func (p *Parser) stateMachine(e *event) bool {
	switch p.state {
	case psStreamStart:
		return p.parseStreamStart(e)
	case psImplicitDocumentStart:
		return p.parseDocumentStart(e, true)
	case psDocumentStart:
		return p.parseDocumentStart(e, false)
	case psDocumentContent:
		return p.parseDocumentContent(e)
	case psDocumentEnd:
		return p.parseDocumentEnd(e)
	case psBlockNode:
		return p.parseNode(e, true, false)
	case psBlockNodeOrIndentlessSequence:
		return p.parseNode(e, true, true)
	case psFlowNode:
		return p.parseNode(e, false, false)
	case psBlockSequenceFirstEntry:
		return p.parseBlockSequenceEntry(e, true)
	case psBlockSequenceEntry:
		return p.parseBlockSequenceEntry(e, false)
	case psIndentlessSequenceEntry:
		return p.parseIndentlessSequenceEntry(e)
	case psBlockMappingFirstKey:
		return p.parseBlockMappingKey(e, true)
	case psBlockMappingKey:
		return p.parseBlockMappingKey(e, false)
	case psBlockMappingValue:
		return p.parseBlockMappingValue(e)
	case psFlowSequenceFirstEntry:
		return p.parseFlowSequenceEntry(e, true)
	case psFlowSequenceEntry:
		return p.parseFlowSequenceEntry(e, false)
	case psFlowSequenceEntryMappingKey:
		return p.parseFlowSequenceEntryMappingKey(e)
	case psFlowSequenceEntryMappingValue:
		return p.parseFlowSequenceEntryMappingValue(e)
	case psFlowSequenceEntryMappingEnd:
		return p.parseFlowSequenceEntryMappingEnd(e)
	case psFlowMappingFirstKey:
		return p.parseFlowMappingKey(e, true)
	case psFlowMappingKey:
		return p.parseFlowMappingKey(e, false)
	case psFlowMappingValue:
		return p.parseFlowMappingValue(e, false)
	case psFlowMappingEmptyValue:
		return p.parseFlowMappingValue(e, true)
	}
	return false
}

func (p *Parser) parseStreamStart(e *event) bool {
	t := p.peek()
	if t == nil {
		return false
	}
	if t.typ != tokenStreamStart {
		return p.setParserError("did not find expected <stream-start>", t.start)
	}
	p.state = psImplicitDocumentStart
	*e = event{typ: eventStreamStart, start: t.start, end: t.end, encoding: t.encoding}
	p.scanner.skipToken()
	return true
}

func (p *Parser) parseDocumentStart(e *event, implicit bool) bool {
	t := p.peek()
	if t == nil {
		return false
	}

	if !implicit {
		for t.typ == tokenDocumentEnd {
			p.scanner.skipToken()
			t = p.peek()
			if t == nil {
				return false
			}
		}
	}

	if implicit && t.typ != tokenVersionDirective && t.typ != tokenTagDirective &&
		t.typ != tokenDocumentStart && t.typ != tokenStreamEnd {
		// An implicit document: content with no '---' marker.
		if !p.processDirectives(nil, nil) {
			return false
		}
		p.pushState(psDocumentEnd)
		p.state = psBlockNode
		*e = event{typ: eventDocumentStart, start: t.start, end: t.end, implicit: true}
		return true
	}

	if t.typ != tokenStreamEnd {
		start := t.start
		var version *VersionDirective
		var tagDirectives []TagDirective
		if !p.processDirectives(&version, &tagDirectives) {
			return false
		}
		t = p.peek()
		if t == nil {
			return false
		}
		if t.typ != tokenDocumentStart {
			return p.setParserError("did not find expected <document start>", t.start)
		}
		p.pushState(psDocumentEnd)
		p.state = psDocumentContent
		*e = event{
			typ:           eventDocumentStart,
			start:         start,
			end:           t.end,
			version:       version,
			tagDirectives: tagDirectives,
		}
		p.scanner.skipToken()
		return true
	}

	p.state = psEnd
	*e = event{typ: eventStreamEnd, start: t.start, end: t.end}
	p.scanner.skipToken()
	return true
}

func (p *Parser) parseDocumentContent(e *event) bool {
	t := p.peek()
	if t == nil {
		return false
	}
	switch t.typ {
	case tokenVersionDirective, tokenTagDirective, tokenDocumentStart,
		tokenDocumentEnd, tokenStreamEnd:
		p.state = p.popState()
		return p.processEmptyScalar(e, t.start)
	}
	return p.parseNode(e, true, false)
}

func (p *Parser) parseDocumentEnd(e *event) bool {
	t := p.peek()
	if t == nil {
		return false
	}

	start, end := t.start, t.start
	implicit := true
	if t.typ == tokenDocumentEnd {
		end = t.end
		p.scanner.skipToken()
		implicit = false
	}

	// The directive table is cleared at each document boundary; the
	// defaults re-seed with the next document.
	p.tagDirectives = p.tagDirectives[:0]

	p.state = psDocumentStart
	*e = event{typ: eventDocumentEnd, start: start, end: end, implicit: implicit}
	return true
}

// processDirectives consumes directive tokens, validates them, and
// seeds the default tag handles.
func (p *Parser) processDirectives(version **VersionDirective, tagDirectives *[]TagDirective) bool {
	var versionDirective *VersionDirective
	var directives []TagDirective

	t := p.peek()
	if t == nil {
		return false
	}
	for t.typ == tokenVersionDirective || t.typ == tokenTagDirective {
		if t.typ == tokenVersionDirective {
			if versionDirective != nil {
				return p.setParserError("found duplicate %YAML directive", t.start)
			}
			if t.major != 1 || t.minor != 1 {
				return p.setParserError("found incompatible YAML document", t.start)
			}
			versionDirective = &VersionDirective{Major: t.major, Minor: t.minor}
		} else {
			d := TagDirective{Handle: string(t.value), Prefix: string(t.suffix)}
			if !p.appendTagDirective(d, false, t.start) {
				return false
			}
			directives = append(directives, d)
		}
		p.scanner.skipToken()
		t = p.peek()
		if t == nil {
			return false
		}
	}

	defaults := []TagDirective{
		{Handle: "!", Prefix: "!"},
		{Handle: "!!", Prefix: "tag:yaml.org,2002:"},
	}
	for _, d := range defaults {
		if !p.appendTagDirective(d, true, t.start) {
			return false
		}
	}

	if version != nil {
		*version = versionDirective
	}
	if tagDirectives != nil {
		*tagDirectives = directives
	}
	return true
}

func (p *Parser) appendTagDirective(d TagDirective, allowDuplicates bool, mark Mark) bool {
	for _, existing := range p.tagDirectives {
		if existing.Handle == d.Handle {
			if allowDuplicates {
				return true
			}
			return p.setParserError("found duplicate %TAG directive", mark)
		}
	}
	p.tagDirectives = append(p.tagDirectives, d)
	return true
}

// parseNode parses an alias, scalar, or collection start. block allows
// block collections; indentlessSequence allows a sequence whose '-'
// entries sit at the parent mapping's indent.
func (p *Parser) parseNode(e *event, block, indentlessSequence bool) bool {
	t := p.peek()
	if t == nil {
		return false
	}

	if t.typ == tokenAlias {
		p.state = p.popState()
		*e = event{typ: eventAlias, start: t.start, end: t.end, anchor: t.value}
		p.scanner.skipToken()
		return true
	}

	start, end := t.start, t.start
	var anchor []byte
	var tagHandle, tagSuffix []byte
	tagPresent := false
	var tagMark Mark

	if t.typ == tokenAnchor {
		anchor = t.value
		start, end = t.start, t.end
		p.scanner.skipToken()
		t = p.peek()
		if t == nil {
			return false
		}
		if t.typ == tokenTag {
			tagPresent = true
			tagHandle, tagSuffix = t.value, t.suffix
			tagMark = t.start
			end = t.end
			p.scanner.skipToken()
			t = p.peek()
			if t == nil {
				return false
			}
		}
	} else if t.typ == tokenTag {
		tagPresent = true
		tagHandle, tagSuffix = t.value, t.suffix
		start, tagMark = t.start, t.start
		end = t.end
		p.scanner.skipToken()
		t = p.peek()
		if t == nil {
			return false
		}
		if t.typ == tokenAnchor {
			anchor = t.value
			end = t.end
			p.scanner.skipToken()
			t = p.peek()
			if t == nil {
				return false
			}
		}
	}

	// Resolve the tag: the !<uri> form carries no handle and stands
	// alone; otherwise the handle's prefix from the directive table is
	// prepended to the suffix.
	var tag []byte
	if tagPresent {
		if len(tagHandle) == 0 {
			tag = tagSuffix
		} else {
			for _, d := range p.tagDirectives {
				if d.Handle == string(tagHandle) {
					tag = append(append([]byte{}, d.Prefix...), tagSuffix...)
					break
				}
			}
			if tag == nil {
				return p.setParserErrorContext("while parsing a node", start,
					"found undefined tag handle", tagMark)
			}
		}
	}

	implicit := len(tag) == 0

	if indentlessSequence && t.typ == tokenBlockEntry {
		p.state = psIndentlessSequenceEntry
		*e = event{
			typ: eventSequenceStart, start: start, end: t.end,
			anchor: anchor, tag: tag, implicit: implicit, style: StyleAny,
		}
		return true
	}

	switch {
	case t.typ == tokenScalar:
		plainImplicit, quotedImplicit := false, false
		if t.style == StylePlain && len(tag) == 0 || string(tag) == "!" {
			plainImplicit = true
		} else if len(tag) == 0 {
			quotedImplicit = true
		}
		p.state = p.popState()
		*e = event{
			typ: eventScalar, start: start, end: t.end,
			anchor: anchor, tag: tag, value: t.value,
			plainImplicit: plainImplicit, quotedImplicit: quotedImplicit,
			style: t.style,
		}
		p.scanner.skipToken()
		return true

	case t.typ == tokenFlowSequenceStart:
		p.state = psFlowSequenceFirstEntry
		*e = event{
			typ: eventSequenceStart, start: start, end: t.end,
			anchor: anchor, tag: tag, implicit: implicit, style: StyleAny,
		}
		return true

	case t.typ == tokenFlowMappingStart:
		p.state = psFlowMappingFirstKey
		*e = event{
			typ: eventMappingStart, start: start, end: t.end,
			anchor: anchor, tag: tag, implicit: implicit, style: StyleAny,
		}
		return true

	case block && t.typ == tokenBlockSequenceStart:
		p.state = psBlockSequenceFirstEntry
		*e = event{
			typ: eventSequenceStart, start: start, end: t.end,
			anchor: anchor, tag: tag, implicit: implicit, style: StyleAny,
		}
		return true

	case block && t.typ == tokenBlockMappingStart:
		p.state = psBlockMappingFirstKey
		*e = event{
			typ: eventMappingStart, start: start, end: t.end,
			anchor: anchor, tag: tag, implicit: implicit, style: StyleAny,
		}
		return true

	case len(anchor) > 0 || len(tag) > 0:
		// Node properties with no content: an empty scalar.
		p.state = p.popState()
		*e = event{
			typ: eventScalar, start: start, end: end,
			anchor: anchor, tag: tag, value: nil,
			implicit: implicit, quotedImplicit: false,
			style: StylePlain,
		}
		return true
	}

	context := "while parsing a flow node"
	if block {
		context = "while parsing a block node"
	}
	return p.setParserErrorContext(context, start, "did not find expected node content", t.start)
}

func (p *Parser) parseBlockSequenceEntry(e *event, first bool) bool {
	if first {
		t := p.peek()
		if t == nil {
			return false
		}
		p.pushMark(t.start)
		p.scanner.skipToken()
	}

	t := p.peek()
	if t == nil {
		return false
	}

	if t.typ == tokenBlockEntry {
		mark := t.end
		p.scanner.skipToken()
		t = p.peek()
		if t == nil {
			return false
		}
		if t.typ != tokenBlockEntry && t.typ != tokenBlockEnd {
			p.pushState(psBlockSequenceEntry)
			return p.parseNode(e, true, false)
		}
		p.state = psBlockSequenceEntry
		return p.processEmptyScalar(e, mark)
	}

	if t.typ == tokenBlockEnd {
		p.state = p.popState()
		p.popMark()
		*e = event{typ: eventSequenceEnd, start: t.start, end: t.end}
		p.scanner.skipToken()
		return true
	}

	return p.setParserErrorContext("while parsing a block collection", p.marks[len(p.marks)-1],
		"did not find expected '-' indicator", t.start)
}

func (p *Parser) parseIndentlessSequenceEntry(e *event) bool {
	t := p.peek()
	if t == nil {
		return false
	}

	if t.typ == tokenBlockEntry {
		mark := t.end
		p.scanner.skipToken()
		t = p.peek()
		if t == nil {
			return false
		}
		if t.typ != tokenBlockEntry && t.typ != tokenKey &&
			t.typ != tokenValue && t.typ != tokenBlockEnd {
			p.pushState(psIndentlessSequenceEntry)
			return p.parseNode(e, true, false)
		}
		p.state = psIndentlessSequenceEntry
		return p.processEmptyScalar(e, mark)
	}

	p.state = p.popState()
	*e = event{typ: eventSequenceEnd, start: t.start, end: t.start}
	return true
}

func (p *Parser) parseBlockMappingKey(e *event, first bool) bool {
	if first {
		t := p.peek()
		if t == nil {
			return false
		}
		p.pushMark(t.start)
		p.scanner.skipToken()
	}

	t := p.peek()
	if t == nil {
		return false
	}

	if t.typ == tokenKey {
		mark := t.end
		p.scanner.skipToken()
		t = p.peek()
		if t == nil {
			return false
		}
		if t.typ != tokenKey && t.typ != tokenValue && t.typ != tokenBlockEnd {
			p.pushState(psBlockMappingValue)
			return p.parseNode(e, true, true)
		}
		p.state = psBlockMappingValue
		return p.processEmptyScalar(e, mark)
	}

	if t.typ == tokenBlockEnd {
		p.state = p.popState()
		p.popMark()
		*e = event{typ: eventMappingEnd, start: t.start, end: t.end}
		p.scanner.skipToken()
		return true
	}

	return p.setParserErrorContext("while parsing a block mapping", p.marks[len(p.marks)-1],
		"did not find expected key", t.start)
}

func (p *Parser) parseBlockMappingValue(e *event) bool {
	t := p.peek()
	if t == nil {
		return false
	}

	if t.typ == tokenValue {
		mark := t.end
		p.scanner.skipToken()
		t = p.peek()
		if t == nil {
			return false
		}
		if t.typ != tokenKey && t.typ != tokenValue && t.typ != tokenBlockEnd {
			p.pushState(psBlockMappingKey)
			return p.parseNode(e, true, true)
		}
		p.state = psBlockMappingKey
		return p.processEmptyScalar(e, mark)
	}

	// KEY immediately followed by another KEY or BLOCK-END: the value
	// is a missing node, synthesised as an empty scalar.
	p.state = psBlockMappingKey
	return p.processEmptyScalar(e, t.start)
}

func (p *Parser) parseFlowSequenceEntry(e *event, first bool) bool {
	if first {
		t := p.peek()
		if t == nil {
			return false
		}
		p.pushMark(t.start)
		p.scanner.skipToken()
	}

	t := p.peek()
	if t == nil {
		return false
	}

	if t.typ != tokenFlowSequenceEnd {
		if !first {
			if t.typ == tokenFlowEntry {
				p.scanner.skipToken()
				t = p.peek()
				if t == nil {
					return false
				}
			} else {
				return p.setParserErrorContext("while parsing a flow sequence",
					p.marks[len(p.marks)-1],
					"did not find expected ',' or ']'", t.start)
			}
		}

		if t.typ == tokenKey {
			// A single-pair mapping inside a flow sequence.
			p.state = psFlowSequenceEntryMappingKey
			*e = event{typ: eventMappingStart, start: t.start, end: t.end,
				implicit: true, style: StyleAny}
			p.scanner.skipToken()
			return true
		}
		if t.typ != tokenFlowSequenceEnd {
			p.pushState(psFlowSequenceEntry)
			return p.parseNode(e, false, false)
		}
	}

	p.state = p.popState()
	p.popMark()
	*e = event{typ: eventSequenceEnd, start: t.start, end: t.end}
	p.scanner.skipToken()
	return true
}

func (p *Parser) parseFlowSequenceEntryMappingKey(e *event) bool {
	t := p.peek()
	if t == nil {
		return false
	}
	if t.typ != tokenValue && t.typ != tokenFlowEntry && t.typ != tokenFlowSequenceEnd {
		p.pushState(psFlowSequenceEntryMappingValue)
		return p.parseNode(e, false, false)
	}
	p.state = psFlowSequenceEntryMappingValue
	return p.processEmptyScalar(e, t.start)
}

func (p *Parser) parseFlowSequenceEntryMappingValue(e *event) bool {
	t := p.peek()
	if t == nil {
		return false
	}
	if t.typ == tokenValue {
		p.scanner.skipToken()
		t = p.peek()
		if t == nil {
			return false
		}
		if t.typ != tokenFlowEntry && t.typ != tokenFlowSequenceEnd {
			p.pushState(psFlowSequenceEntryMappingEnd)
			return p.parseNode(e, false, false)
		}
	}
	p.state = psFlowSequenceEntryMappingEnd
	return p.processEmptyScalar(e, t.start)
}

func (p *Parser) parseFlowSequenceEntryMappingEnd(e *event) bool {
	t := p.peek()
	if t == nil {
		return false
	}
	p.state = psFlowSequenceEntry
	*e = event{typ: eventMappingEnd, start: t.start, end: t.start}
	return true
}

func (p *Parser) parseFlowMappingKey(e *event, first bool) bool {
	if first {
		t := p.peek()
		if t == nil {
			return false
		}
		p.pushMark(t.start)
		p.scanner.skipToken()
	}

	t := p.peek()
	if t == nil {
		return false
	}

	if t.typ != tokenFlowMappingEnd {
		if !first {
			if t.typ == tokenFlowEntry {
				p.scanner.skipToken()
				t = p.peek()
				if t == nil {
					return false
				}
			} else {
				return p.setParserErrorContext("while parsing a flow mapping",
					p.marks[len(p.marks)-1],
					"did not find expected ',' or '}'", t.start)
			}
		}

		if t.typ == tokenKey {
			p.scanner.skipToken()
			t = p.peek()
			if t == nil {
				return false
			}
			if t.typ != tokenValue && t.typ != tokenFlowEntry && t.typ != tokenFlowMappingEnd {
				p.pushState(psFlowMappingValue)
				return p.parseNode(e, false, false)
			}
			p.state = psFlowMappingValue
			return p.processEmptyScalar(e, t.start)
		}
		if t.typ != tokenFlowMappingEnd {
			p.pushState(psFlowMappingEmptyValue)
			return p.parseNode(e, false, false)
		}
	}

	p.state = p.popState()
	p.popMark()
	*e = event{typ: eventMappingEnd, start: t.start, end: t.end}
	p.scanner.skipToken()
	return true
}

func (p *Parser) parseFlowMappingValue(e *event, empty bool) bool {
	t := p.peek()
	if t == nil {
		return false
	}
	if empty {
		p.state = psFlowMappingKey
		return p.processEmptyScalar(e, t.start)
	}
	if t.typ == tokenValue {
		p.scanner.skipToken()
		t = p.peek()
		if t == nil {
			return false
		}
		if t.typ != tokenFlowEntry && t.typ != tokenFlowMappingEnd {
			p.pushState(psFlowMappingKey)
			return p.parseNode(e, false, false)
		}
	}
	// A key with no ':' value in flow context yields null.
	p.state = psFlowMappingKey
	return p.processEmptyScalar(e, t.start)
}

// processEmptyScalar synthesises the empty plain scalar emitted for
// missing nodes.
func (p *Parser) processEmptyScalar(e *event, mark Mark) bool {
	*e = event{
		typ: eventScalar, start: mark, end: mark,
		value: nil, plainImplicit: true, style: StylePlain,
	}
	return true
}
