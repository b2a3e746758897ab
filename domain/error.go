package domain

import (
	"github.com/pkg/errors"
)

var (
	ErrEmptyCompletion = errors.New("completion contains no content")
)
