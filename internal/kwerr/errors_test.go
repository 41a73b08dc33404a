package kwerr

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructionErrorMessages(t *testing.T) {
	dup := NewDuplicateKey("a", 97)
	assert.Equal(t, `DUPLICATE_KEY: duplicate key in record (key="a")`, dup.Error())

	anon := NewKeyNotAllowed("", 0x61)
	assert.Equal(t, "KEY_NOT_ALLOWED: key is not in the record's whitelist (key=0x61)", anon.Error())

	idx := NewIndexOutOfRange(-4, 3)
	assert.Equal(t, "INDEX_OUT_OF_RANGE: argument index out of range (index=-4, len=3)", idx.Error())
}

func TestConversionErrorMessages(t *testing.T) {
	e := NewConversion(CodeIncorrectConversion, "bool", "struct {}")
	assert.Equal(t, "INCORRECT_CONVERSION: cannot convert bool to struct {}", e.Error())

	m := NewMalformed("string", "int", "abc")
	assert.Equal(t, `MALFORMED_TEXT: cannot convert string to int (input="abc")`, m.Error())

	wrapped := &ConversionError{Code: CodeOutOfRange, From: "string", To: "float64", Input: "1e999", Err: strconv.ErrRange}
	assert.Contains(t, wrapped.Error(), "value out of range")
	assert.ErrorIs(t, wrapped, strconv.ErrRange)
}

func TestClassifiers(t *testing.T) {
	construct := fmt.Errorf("build: %w", NewDuplicateKey("x", 1))
	convert := fmt.Errorf("read: %w", NewMalformed("string", "int", "?"))
	plain := errors.New("plain")

	assert.True(t, IsConstructionError(construct))
	assert.False(t, IsConversionError(construct))
	assert.True(t, IsConversionError(convert))
	assert.False(t, IsConstructionError(convert))
	assert.False(t, IsConstructionError(plain))
	assert.False(t, IsConversionError(plain))

	assert.Equal(t, CodeDuplicateKey, CodeOf(construct))
	assert.Equal(t, CodeMalformedText, CodeOf(convert))
	assert.Equal(t, Code(""), CodeOf(plain))
	assert.True(t, HasCode(convert, CodeMalformedText))
	assert.False(t, HasCode(plain, CodeMalformedText))
}
