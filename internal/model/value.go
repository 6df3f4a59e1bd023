// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package model

import (
	"fmt"
	"math"
)

// ValueType is the on-wire type tag for a cell value. The numeric value
// matches spec §6: legacy dialects use tags 1-8, modern adds 9-13.
type ValueType uint8

const (
	Invalid ValueType = 0

	UByte  ValueType = 1
	UShort ValueType = 2
	UInt   ValueType = 3
	SByte  ValueType = 4
	SShort ValueType = 5
	SInt   ValueType = 6
	String ValueType = 7
	Float  ValueType = 8

	// Modern-only.
	Hash                ValueType = 9
	Percent             ValueType = 10
	DebugString         ValueType = 11
	Unknown1            ValueType = 12
	MessageStudioIndex  ValueType = 13
)

// Size returns the on-wire size in bytes of a single value of this type.
// String-like types store a 32-bit pool offset inline.
func (t ValueType) Size() int {
	switch t {
	case UByte, SByte, Unknown1:
		return 1
	case UShort, SShort, MessageStudioIndex:
		return 2
	case UInt, SInt, String, Float, Hash, DebugString:
		return 4
	case Percent:
		return 1
	default:
		return 0
	}
}

func (t ValueType) String() string {
	switch t {
	case UByte:
		return "UByte"
	case UShort:
		return "UShort"
	case UInt:
		return "UInt"
	case SByte:
		return "SByte"
	case SShort:
		return "SShort"
	case SInt:
		return "SInt"
	case String:
		return "String"
	case Float:
		return "Float"
	case Hash:
		return "Hash"
	case Percent:
		return "Percent"
	case DebugString:
		return "DebugString"
	case Unknown1:
		return "Unknown1"
	case MessageStudioIndex:
		return "MessageStudioIndex"
	default:
		return fmt.Sprintf("ValueType(%d)", uint8(t))
	}
}

// IsModernOnly reports whether t is only valid for the modern dialect.
func (t ValueType) IsModernOnly() bool {
	return t >= Hash
}

// Value is a tagged cell value. Numeric payloads (of every width, plus
// IEEE float bits and the raw percent byte) live in bits; String and
// DebugString carry their decoded text in str. The representation is
// dialect-agnostic: legacy's 20.12 fixed-point float is converted to a
// plain float32 at decode time and back at encode time (see
// internal/legacy's FixedToFloat32/Float32ToFixed), so Value itself never
// distinguishes fixed from floating.
type Value struct {
	Type ValueType
	bits uint64
	str  string
}

func NewUByte(v uint8) Value   { return Value{Type: UByte, bits: uint64(v)} }
func NewUShort(v uint16) Value { return Value{Type: UShort, bits: uint64(v)} }
func NewUInt(v uint32) Value   { return Value{Type: UInt, bits: uint64(v)} }
func NewSByte(v int8) Value    { return Value{Type: SByte, bits: uint64(uint8(v))} }
func NewSShort(v int16) Value  { return Value{Type: SShort, bits: uint64(uint16(v))} }
func NewSInt(v int32) Value    { return Value{Type: SInt, bits: uint64(uint32(v))} }
func NewString(s string) Value { return Value{Type: String, str: s} }
func NewFloat(v float32) Value { return Value{Type: Float, bits: uint64(math.Float32bits(v))} }
func NewHash(v uint32) Value   { return Value{Type: Hash, bits: uint64(v)} }

// NewPercent stores the raw on-wire byte; use Fraction to get the scaled
// value (raw * 0.01).
func NewPercent(raw uint8) Value           { return Value{Type: Percent, bits: uint64(raw)} }
func NewDebugString(s string) Value        { return Value{Type: DebugString, str: s} }
func NewUnknown1(raw uint8) Value          { return Value{Type: Unknown1, bits: uint64(raw)} }
func NewMessageStudioIndex(v uint16) Value { return Value{Type: MessageStudioIndex, bits: uint64(v)} }

func typeMismatch(have, want ValueType) error {
	return NewDecodeError(ErrTypeMismatch, fmt.Sprintf("want %s, have %s", want, have), 0)
}

func (v Value) UByte() (uint8, error) {
	if v.Type != UByte {
		return 0, typeMismatch(v.Type, UByte)
	}
	return uint8(v.bits), nil
}

func (v Value) UShort() (uint16, error) {
	if v.Type != UShort {
		return 0, typeMismatch(v.Type, UShort)
	}
	return uint16(v.bits), nil
}

func (v Value) UInt() (uint32, error) {
	if v.Type != UInt {
		return 0, typeMismatch(v.Type, UInt)
	}
	return uint32(v.bits), nil
}

func (v Value) SByte() (int8, error) {
	if v.Type != SByte {
		return 0, typeMismatch(v.Type, SByte)
	}
	return int8(v.bits), nil
}

func (v Value) SShort() (int16, error) {
	if v.Type != SShort {
		return 0, typeMismatch(v.Type, SShort)
	}
	return int16(v.bits), nil
}

func (v Value) SInt() (int32, error) {
	if v.Type != SInt {
		return 0, typeMismatch(v.Type, SInt)
	}
	return int32(v.bits), nil
}

func (v Value) AsString() (string, error) {
	if v.Type != String && v.Type != DebugString {
		return "", typeMismatch(v.Type, String)
	}
	return v.str, nil
}

func (v Value) Float32() (float32, error) {
	if v.Type != Float {
		return 0, typeMismatch(v.Type, Float)
	}
	return math.Float32frombits(uint32(v.bits)), nil
}

func (v Value) HashValue() (uint32, error) {
	if v.Type != Hash {
		return 0, typeMismatch(v.Type, Hash)
	}
	return uint32(v.bits), nil
}

// PercentRaw returns the on-wire byte (0-255).
func (v Value) PercentRaw() (uint8, error) {
	if v.Type != Percent {
		return 0, typeMismatch(v.Type, Percent)
	}
	return uint8(v.bits), nil
}

// Fraction scales PercentRaw by 0.01, per spec §3/§6.
func (v Value) Fraction() (float64, error) {
	raw, err := v.PercentRaw()
	if err != nil {
		return 0, err
	}
	return float64(raw) * 0.01, nil
}

func (v Value) Unknown1Raw() (uint8, error) {
	if v.Type != Unknown1 {
		return 0, typeMismatch(v.Type, Unknown1)
	}
	return uint8(v.bits), nil
}

func (v Value) MessageStudioIndexValue() (uint16, error) {
	if v.Type != MessageStudioIndex {
		return 0, typeMismatch(v.Type, MessageStudioIndex)
	}
	return uint16(v.bits), nil
}

// IsDebugString reports whether the value is the modern dialect's
// DebugString variant of a string cell, as opposed to a plain String.
func (v Value) IsDebugString() bool {
	return v.Type == DebugString
}

// AsInt64 widens any integer-kind value (signed, unsigned, hash, percent
// raw, unknown byte, or message-studio index) to an int64. It is used by
// flag cells to read their parent's stored value regardless of the
// parent's declared width.
func (v Value) AsInt64() (int64, error) {
	switch v.Type {
	case UByte, UShort, UInt, Hash, Percent, Unknown1, MessageStudioIndex:
		return int64(v.bits), nil
	case SByte:
		sb, _ := v.SByte()
		return int64(sb), nil
	case SShort:
		ss, _ := v.SShort()
		return int64(ss), nil
	case SInt:
		si, _ := v.SInt()
		return int64(si), nil
	default:
		return 0, NewDecodeError(ErrSchemaViolation, "flag parent is not an integer column", 0)
	}
}
