// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package yaml

// Encoding identifies the byte encoding of the input stream.
type Encoding uint8

const (
	EncodingAny     Encoding = iota // let the reader detect from the BOM
	EncodingUTF8                    // UTF-8
	EncodingUTF16LE                 // UTF-16 little-endian
	EncodingUTF16BE                 // UTF-16 big-endian
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "utf-8"
	case EncodingUTF16LE:
		return "utf-16-le"
	case EncodingUTF16BE:
		return "utf-16-be"
	}
	return "any"
}

// Style is the presentation style of a scalar.
type Style uint8

const (
	StyleAny          Style = iota
	StylePlain              // unquoted
	StyleSingleQuoted       // 'text'
	StyleDoubleQuoted       // "text"
	StyleLiteral            // | block scalar
	StyleFolded             // > block scalar
)

type tokenType int8

const (
	tokenNone tokenType = iota
	tokenStreamStart
	tokenStreamEnd
	tokenVersionDirective
	tokenTagDirective
	tokenDocumentStart
	tokenDocumentEnd
	tokenBlockSequenceStart
	tokenBlockMappingStart
	tokenBlockEnd
	tokenFlowSequenceStart
	tokenFlowSequenceEnd
	tokenFlowMappingStart
	tokenFlowMappingEnd
	tokenBlockEntry
	tokenFlowEntry
	tokenKey
	tokenValue
	tokenAlias
	tokenAnchor
	tokenTag
	tokenScalar
)

func (t tokenType) String() string {
	switch t {
	case tokenStreamStart:
		return "<stream start>"
	case tokenStreamEnd:
		return "<stream end>"
	case tokenVersionDirective:
		return "<version directive>"
	case tokenTagDirective:
		return "<tag directive>"
	case tokenDocumentStart:
		return "<document start>"
	case tokenDocumentEnd:
		return "<document end>"
	case tokenBlockSequenceStart:
		return "<block sequence start>"
	case tokenBlockMappingStart:
		return "<block mapping start>"
	case tokenBlockEnd:
		return "<block end>"
	case tokenFlowSequenceStart:
		return "["
	case tokenFlowSequenceEnd:
		return "]"
	case tokenFlowMappingStart:
		return "{"
	case tokenFlowMappingEnd:
		return "}"
	case tokenBlockEntry:
		return "-"
	case tokenFlowEntry:
		return ","
	case tokenKey:
		return "?"
	case tokenValue:
		return ":"
	case tokenAlias:
		return "<alias>"
	case tokenAnchor:
		return "<anchor>"
	case tokenTag:
		return "<tag>"
	case tokenScalar:
		return "<scalar>"
	}
	return "<none>"
}

// token is one unit of scanner output.
type token struct {
	typ        tokenType
	start, end Mark

	value  []byte // scalar text, anchor/alias name, tag handle, directive handle
	suffix []byte // tag suffix, tag directive prefix

	style    Style    // tokenScalar
	encoding Encoding // tokenStreamStart

	major, minor int // tokenVersionDirective
}

// TagDirective is one %TAG handle→prefix binding.
type TagDirective struct {
	Handle string
	Prefix string
}

// VersionDirective is the %YAML version of a document.
type VersionDirective struct {
	Major, Minor int
}
