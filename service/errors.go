package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrAccountNotFound = errors.New("points account not found")
	ErrDuplicateEvent  = errors.New("event already applied")
	ErrPersistence     = errors.New("persistence failure")
	ErrMilestoneAward  = errors.New("milestone award failed")
	ErrLogNotFound     = errors.New("daily log not found")
	errVersionConflict = errors.New("streak state version conflict")
)

func persistErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
