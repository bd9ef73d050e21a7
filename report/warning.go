package report

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Warning is a recovered failure: the report is complete except for the part named by Subject.
type Warning struct {
	Subject string
	Err     error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Subject, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}

// Summarize combines warnings into one error, nil when there are none.
func Summarize(warnings []Warning) error {
	var result *multierror.Error
	for _, w := range warnings {
		result = multierror.Append(result, w)
	}
	return result.ErrorOrNil()
}
