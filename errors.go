// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// errors.go — sentinel error variables and structured error types returned
// by the public reditio API, covering missing keys, records that no longer
// decode under their schema, and failures of the Redis connection.

// Package reditio maps typed Go records onto Redis keys, lists, sets,
// sorted sets and hashes.
package reditio

import (
	"errors"
	"fmt"

	"github.com/MatthewScholefield/Reditio/internal/redisconn"
)

// Data errors
var (
	ErrKeyNotFound    = errors.New("reditio: key not found")
	ErrSchemaMismatch = errors.New("reditio: stored value does not match schema")
	ErrEncodeFailed   = errors.New("reditio: failed to encode value for storage")
)

// Infrastructure errors
var (
	ErrStoreConnection = errors.New("reditio: store connection error")
	ErrWrongType       = errors.New("reditio: key holds the wrong kind of value")
	ErrClosed          = errors.New("reditio: store closed")
)

// Schema errors
var (
	ErrUnsupportedType = errors.New("reditio: unsupported record type")
)

// Config errors
var (
	ErrInvalidConfig = errors.New("reditio: invalid configuration")
)

// SchemaMismatchError reports bytes that do not decode as the record type.
// Field is empty when the failure is not specific to one field.
type SchemaMismatchError struct {
	Type   string
	Field  string
	Reason string
	Err    error
}

func (e *SchemaMismatchError) Error() string {
	msg := "reditio: " + e.Type
	if e.Field != "" {
		msg += "." + e.Field
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaMismatchError) Unwrap() error { return e.Err }

// Is matches ErrSchemaMismatch.
func (e *SchemaMismatchError) Is(target error) bool { return target == ErrSchemaMismatch }

// StoreError wraps an error returned by the Redis client. The client's error
// stays reachable through errors.Unwrap and errors.As.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("reditio: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is matches ErrStoreConnection, and ErrWrongType for WRONGTYPE replies.
func (e *StoreError) Is(target error) bool {
	switch target {
	case ErrStoreConnection:
		return true
	case ErrWrongType:
		return redisconn.IsWrongType(e.Err)
	}
	return false
}

// notFound builds the error for an absent key or hash field.
func notFound(key, field string) error {
	if field != "" {
		return fmt.Errorf("%w: %s[%s]", ErrKeyNotFound, key, field)
	}
	return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
}

// storeErr classifies an error from the connection adapter.
func storeErr(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Key: key, Err: err}
}
