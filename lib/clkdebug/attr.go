// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

package clkdebug

import (
	"fmt"
	"strconv"
	"strings"
)

// Attr is one externally visible attribute: a named node whose content
// is newline-terminated decimal text. Read renders the full content;
// restartable multi-line attributes (list_rates) rebuild it on every
// call. Write, present only on writable attributes, receives the raw
// text the inspector wrote.
type Attr struct {
	Name     string
	Writable bool
	Read     func() ([]byte, error)
	Write    func(data []byte) error
}

// AttrGroup is the complete attribute set exposed for one clock under
// its lowercased name. Groups are built atomically by Debug.Add and
// immutable afterward.
type AttrGroup struct {
	// Name is the group's node name: the clock's name lowercased.
	Name string
	Attrs []Attr
}

// Attr returns the named attribute of the group.
func (g *AttrGroup) Attr(name string) (Attr, bool) {
	for _, attr := range g.Attrs {
		if attr.Name == name {
			return attr, true
		}
	}
	return Attr{}, false
}

// uintAttr is a read-only unsigned decimal scalar.
func uintAttr(name string, get func() (uint64, error)) Attr {
	return Attr{
		Name: name,
		Read: func() ([]byte, error) {
			value, err := get()
			if err != nil {
				return nil, err
			}
			return append(strconv.AppendUint(nil, value, 10), '\n'), nil
		},
	}
}

// writableUintAttr is a read-write unsigned decimal scalar. Writes
// parse decimal text; anything else is rejected.
func writableUintAttr(name string, get func() (uint64, error), set func(value uint64) error) Attr {
	attr := uintAttr(name, get)
	attr.Writable = true
	attr.Write = func(data []byte) error {
		value, err := parseScalar(data)
		if err != nil {
			return err
		}
		return set(value)
	}
	return attr
}

// intAttr is a read-only signed decimal scalar. Measurement uses it so
// a failure can surface as a negative sentinel where the host has no
// better channel.
func intAttr(name string, get func() (int64, error)) Attr {
	return Attr{
		Name: name,
		Read: func() ([]byte, error) {
			value, err := get()
			if err != nil {
				return nil, err
			}
			return append(strconv.AppendInt(nil, value, 10), '\n'), nil
		},
	}
}

// seqAttr is a read-only stream: one decimal integer per line,
// produced by querying next for index 0, 1, 2, ... until the negative
// end-of-enumeration sentinel. The sentinel stops the queries; nothing
// is emitted after it. Each Read restarts the enumeration.
func seqAttr(name string, next func(index int) int64) Attr {
	return Attr{
		Name: name,
		Read: func() ([]byte, error) {
			var buf []byte
			for i := 0; ; i++ {
				value := next(i)
				if value < 0 {
					break
				}
				buf = strconv.AppendInt(buf, value, 10)
				buf = append(buf, '\n')
			}
			return buf, nil
		},
	}
}

// parseScalar parses a written scalar: decimal text, surrounding
// whitespace (including the trailing newline shells append) ignored.
func parseScalar(data []byte) (uint64, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return 0, fmt.Errorf("empty scalar write")
	}
	value, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing scalar %q: %w", text, err)
	}
	return value, nil
}
