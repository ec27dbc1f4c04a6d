package errors_test

import (
	"fmt"
	"testing"

	"github.com/seekr-io/seekr/pkg/errors"
)

func TestIsNotFound(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"generic not found", errors.NotFound("x"), true},
		{"cluster not found", errors.New(errors.CodeClusterNotFound, "x"), true},
		{"subscription not found", errors.New(errors.CodeSubscriptionNotFound, "x"), true},
		{"conflict", errors.Conflict("x"), false},
		{"plain error", fmt.Errorf("boom"), false},
		{"wrapped not found", errors.Wrap(errors.NotFound("inner"), errors.CodeUnknown, "outer"), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := errors.IsNotFound(c.err); got != c.want {
				t.Errorf("IsNotFound(%v) = %v, want %v", c.err, got, c.want)
			}
		})
	}
}
