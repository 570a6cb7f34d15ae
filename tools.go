//go:build tools

package tools

// This file tracks versions of CLI tool dependencies.
// It is not compiled into the binary.
//
// - github.com/pressly/goose/v3/cmd/goose (go.mod tool directive)
// - github.com/matryer/moq: the hand-kept mocks in *_test.go follow its
//   layout and can be regenerated with it.
