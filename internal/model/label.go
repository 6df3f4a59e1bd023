// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Label names a table or column. Legacy dialects always carry a plain
// string; the modern dialect always carries a 32-bit hash. A label parsed
// from the "<AABBCCDD>" bracket syntax is hashed even though it came in as
// text (see ParseLabel).
type Label struct {
	str    string
	hash   uint32
	isHash bool
}

// StringLabel builds a plain-text label.
func StringLabel(s string) Label {
	return Label{str: s}
}

// HashLabel builds a 32-bit hash label.
func HashLabel(h uint32) Label {
	return Label{hash: h, isHash: true}
}

// ParseLabel extracts a Label from text. The bracket syntax "<AABBCCDD>"
// (8 hex digits) always yields a hash label; otherwise the text is kept
// as-is unless forceHash requests that it be hashed immediately.
func ParseLabel(text string, forceHash bool) Label {
	if len(text) == 10 && text[0] == '<' && text[9] == '>' {
		if n, err := strconv.ParseUint(text[1:9], 16, 32); err == nil {
			return HashLabel(uint32(n))
		}
	}
	if forceHash {
		return HashLabel(MurmurLabel(text))
	}
	return StringLabel(text)
}

// IsHash reports whether the label is a 32-bit hash rather than a string.
func (l Label) IsHash() bool {
	return l.isHash
}

// Hash returns the label's hash value. It is only meaningful when IsHash
// is true.
func (l Label) Hash() uint32 {
	return l.hash
}

// String returns the label's text form: the plain name, or the bracket
// hex form for a hash label.
func (l Label) String() string {
	if l.isHash {
		return fmt.Sprintf("<%08X>", l.hash)
	}
	return l.str
}

// Equal reports whether two labels refer to the same name. A hash label
// and a string label are equal if the string hashes to the same value,
// so a table declared with plain names compares equal to the same table
// looked up by its hashed form.
func (l Label) Equal(other Label) bool {
	switch {
	case l.isHash && other.isHash:
		return l.hash == other.hash
	case !l.isHash && !other.isHash:
		return l.str == other.str
	case l.isHash:
		return l.hash == MurmurLabel(other.str)
	default:
		return MurmurLabel(l.str) == other.hash
	}
}

// Compare orders labels for the legacy dialect's lexicographic table sort.
// Unlike a typical total order, hash labels only compare equal to other
// hash labels with the same value (and otherwise sort after every string
// label); this mirrors the observed behavior of comparing values, not
// representations.
func (l Label) Compare(other Label) int {
	switch {
	case l.isHash && other.isHash:
		switch {
		case l.hash < other.hash:
			return -1
		case l.hash > other.hash:
			return 1
		default:
			return 0
		}
	case l.isHash:
		return 1
	case other.isHash:
		return -1
	default:
		return strings.Compare(l.str, other.str)
	}
}
