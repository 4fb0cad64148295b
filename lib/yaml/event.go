// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package yaml

type eventType int8

const (
	eventNone eventType = iota
	eventStreamStart
	eventStreamEnd
	eventDocumentStart
	eventDocumentEnd
	eventAlias
	eventScalar
	eventSequenceStart
	eventSequenceEnd
	eventMappingStart
	eventMappingEnd
)

// event is one unit of parser output.
type event struct {
	typ        eventType
	start, end Mark

	encoding Encoding // eventStreamStart

	version       *VersionDirective // eventDocumentStart
	tagDirectives []TagDirective    // eventDocumentStart
	implicit      bool              // document had no explicit markers

	anchor []byte // eventAlias, eventScalar, eventSequenceStart, eventMappingStart
	tag    []byte // eventScalar, eventSequenceStart, eventMappingStart
	value  []byte // eventScalar

	plainImplicit  bool // scalar may be resolved as plain
	quotedImplicit bool // scalar may be resolved as quoted
	style          Style
}
