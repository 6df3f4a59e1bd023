// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bdat

import "github.com/xb-tools/bdat/internal/model"

// Sentinel errors, matched with errors.Is against whatever Open, Decode
// or Encode return.
var (
	ErrTruncated          = model.ErrTruncated
	ErrInvalidFormat      = model.ErrInvalidFormat
	ErrUnsupportedDialect = model.ErrUnsupportedDialect
	ErrSchemaViolation    = model.ErrSchemaViolation
	ErrNoSuchTable        = model.ErrNoSuchTable
	ErrNoSuchRow          = model.ErrNoSuchRow
	ErrNoSuchColumn       = model.ErrNoSuchColumn
	ErrTypeMismatch       = model.ErrTypeMismatch
	ErrWouldRequireCopy   = model.ErrWouldRequireCopy
	ErrWriteOverflow      = model.ErrWriteOverflow
)

// DecodeError and EncodeError annotate a sentinel error with the byte
// offset and section where it occurred.
type (
	DecodeError = model.DecodeError
	EncodeError = model.EncodeError
)
