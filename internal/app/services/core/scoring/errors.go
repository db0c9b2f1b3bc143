package scoring

import (
	"fmt"
	"sort"
)

// IncompleteResponsesError lists the item numbers still unanswered when a
// complete (non-partial) score was requested.
type IncompleteResponsesError struct {
	MissingItems []int
}

func (e *IncompleteResponsesError) Error() string {
	sort.Ints(e.MissingItems)
	return fmt.Sprintf("responses incomplete, missing items %v", e.MissingItems)
}

// UnknownOptionError signals a submitted value with no entry in the item's
// response group. This usually means a stale client UI racing a template
// update; it is never silently scored as zero.
type UnknownOptionError struct {
	ItemNumber      int
	ResponseGroupID string
	Value           int
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("item %d: value %d is not an option of response group %q", e.ItemNumber, e.Value, e.ResponseGroupID)
}

// UnknownGroupError signals an item referencing a response group absent from
// the template. Load-time validation rejects such templates, so hitting this
// at scoring time means the template bypassed the store.
type UnknownGroupError struct {
	ItemNumber      int
	ResponseGroupID string
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("item %d: response group %q not defined on template", e.ItemNumber, e.ResponseGroupID)
}
