package utils

import (
	"bytes"
	"fmt"
	"strings"
)

func ConvertPanicValueToError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}

	return fmt.Errorf("%#v", v)
}

// CombineErrors combines errors into a single error with a multiline message, nil errors are ignored.
// The returned error wraps all the non-nil errors, nil is returned if there are none.
func CombineErrors(errs ...error) error {
	nonNil := FilterSlice(errs, func(err error) bool { return err != nil })

	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	}

	finalErrBuff := bytes.NewBuffer(nil)

	for _, err := range nonNil {
		finalErrBuff.WriteString(err.Error())
		finalErrBuff.WriteRune('\n')
	}

	return &combinedError{
		message: strings.TrimRight(finalErrBuff.String(), "\n"),
		errs:    nonNil,
	}
}

// CombineErrorsWithPrefixMessage combines errors into a single error with a multiline message.
func CombineErrorsWithPrefixMessage(prefixMsg string, errs ...error) error {
	err := CombineErrors(errs...)
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", prefixMsg, err)
}

type combinedError struct {
	message string
	errs    []error
}

func (e *combinedError) Error() string {
	return e.message
}

func (e *combinedError) Unwrap() []error {
	return e.errs
}
