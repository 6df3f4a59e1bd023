// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bdat decodes and encodes BDAT tables: the binary table format
// used across the Xenoblade series, in both its legacy (Wii/3DS/XCX/XC2/
// Definitive Edition) and modern (XC3) forms.
package bdat

import "github.com/xb-tools/bdat/internal/model"

// Dialect discriminates which on-wire family and hardware variant a file
// or table belongs to.
type Dialect = model.Dialect

const (
	DialectModern    = model.DialectModern
	DialectLegacyWii = model.DialectLegacyWii
	DialectLegacy3DS = model.DialectLegacy3DS
	DialectLegacyXCX = model.DialectLegacyXCX
	DialectLegacyXC2 = model.DialectLegacyXC2
	DialectLegacyDE  = model.DialectLegacyDE
)

// Endianness is carried as a value alongside Dialect rather than baked
// into the dialect, since legacy titles ship in both orientations.
type Endianness = model.Endianness

const (
	LittleEndian = model.LittleEndian
	BigEndian    = model.BigEndian
)

// CellShape is the storage shape of a column's cells.
type CellShape = model.CellShape

const (
	Scalar = model.Scalar
	List   = model.List
	Flag   = model.Flag
)

// ValueType is the on-wire type tag for a cell value.
type ValueType = model.ValueType

const (
	UByte              = model.UByte
	UShort             = model.UShort
	UInt               = model.UInt
	SByte              = model.SByte
	SShort             = model.SShort
	SInt               = model.SInt
	String             = model.String
	Float              = model.Float
	Hash               = model.Hash
	Percent            = model.Percent
	DebugString        = model.DebugString
	Unknown1           = model.Unknown1
	MessageStudioIndex = model.MessageStudioIndex
)

// Label, Column, Schema, Cell, Row and Table are the dialect-agnostic
// decoded representation shared by both codecs.
type (
	Label  = model.Label
	Column = model.Column
	Schema = model.Schema
	Cell   = model.Cell
	Row    = model.Row
	Table  = model.Table
	Value  = model.Value
)

// StringLabel, HashLabel and ParseLabel construct Labels.
var (
	StringLabel = model.StringLabel
	HashLabel   = model.HashLabel
	ParseLabel  = model.ParseLabel
)

// Value constructors, re-exported for callers building tables to encode.
var (
	NewUByte              = model.NewUByte
	NewUShort             = model.NewUShort
	NewUInt               = model.NewUInt
	NewSByte              = model.NewSByte
	NewSShort             = model.NewSShort
	NewSInt               = model.NewSInt
	NewString             = model.NewString
	NewFloat              = model.NewFloat
	NewHash               = model.NewHash
	NewPercent            = model.NewPercent
	NewDebugString        = model.NewDebugString
	NewUnknown1           = model.NewUnknown1
	NewMessageStudioIndex = model.NewMessageStudioIndex
)
