package cli

import (
	"errors"
	"fmt"
)

var errDoctorIssuesFound = errors.New("doctor: issues found")

type invalidArgError struct {
	kind  string
	value string
	want  string
}

func (e invalidArgError) Error() string {
	return fmt.Sprintf("invalid %s: %q (want %s)", e.kind, e.value, e.want)
}

func errInvalidArg(kind, value, want string) error {
	return invalidArgError{kind: kind, value: value, want: want}
}
