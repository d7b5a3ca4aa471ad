package v1alpha1

import "errors"

// ErrInvalidIPFamily is returned when an invalid IP family is specified.
var ErrInvalidIPFamily = errors.New("invalid IP family")

// ErrRepoRootEmpty is returned when no kind source checkout is configured.
var ErrRepoRootEmpty = errors.New("repo root is empty")

// ErrInvalidFilterExpression is returned when a focus or skip expression does not compile.
var ErrInvalidFilterExpression = errors.New("invalid filter expression")
