package domain

import (
	"strconv"
	"strings"

	dErrors "secreg/pkg/domain-errors"
)

// TaskID is the globally sequential verification-task identifier, starting at 0.
type TaskID uint64

// RegisterID is the per-company sequential site index, starting at 0.
type RegisterID uint64

// TokenID identifies a certificate. It always equals the TaskID it certifies.
type TokenID uint64

func (id TaskID) String() string     { return strconv.FormatUint(uint64(id), 10) }
func (id RegisterID) String() string { return strconv.FormatUint(uint64(id), 10) }
func (id TokenID) String() string    { return strconv.FormatUint(uint64(id), 10) }

// TokenFor returns the certificate identifier for a task.
func TokenFor(id TaskID) TokenID { return TokenID(id) }

// Task returns the task a certificate certifies.
func (id TokenID) Task() TaskID { return TaskID(id) }

func ParseTaskID(s string) (TaskID, error) {
	n, err := parseSequence(s, "task id")
	return TaskID(n), err
}

func ParseRegisterID(s string) (RegisterID, error) {
	n, err := parseSequence(s, "register id")
	return RegisterID(n), err
}

func ParseTokenID(s string) (TokenID, error) {
	n, err := parseSequence(s, "token id")
	return TokenID(n), err
}

// parseSequence accepts plain base-10 digits only: no sign, no whitespace, no hex.
func parseSequence(s, field string) (uint64, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeValidation, field+" is required")
	}
	if strings.TrimLeft(s, "0123456789") != "" {
		return 0, dErrors.New(dErrors.CodeValidation, field+" must be a non-negative integer")
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeValidation, field+" is out of range")
	}
	return n, nil
}
