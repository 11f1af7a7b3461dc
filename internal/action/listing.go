package action

import (
	"fmt"
	"io"
	"iter"
)

// WriteListing writes entries grouped by scope.
//
// A "[id:name]" header opens every contiguous run of entries sharing a
// scope. Each entry is written as a right-aligned level and its command,
// with "(after N sec)" appended when it has a delay:
//
//	[0:Default]
//	        10 /usr/local/bin/lights on
//	       500 /usr/local/bin/lights off (after 30 sec)
//	[1:porch]
//	         5 /usr/local/bin/porch on
//
// It returns the number of entries written.
func WriteListing(w io.Writer, entries iter.Seq2[Entry, error]) (int, error) {
	n := 0
	prevScope := int64(-1)

	for e, err := range entries {
		if err != nil {
			return n, err
		}

		if n == 0 || e.ScopeID != prevScope {
			if _, err := fmt.Fprintln(w, Scope{ID: e.ScopeID, Name: e.Scope}); err != nil {
				return n, fmt.Errorf("writing listing: %w", err)
			}
			prevScope = e.ScopeID
		}

		if _, err := fmt.Fprintln(w, FormatEntry(e)); err != nil {
			return n, fmt.Errorf("writing listing: %w", err)
		}
		n++
	}

	return n, nil
}

// FormatEntry renders a single listing line without the scope header.
func FormatEntry(e Entry) string {
	if e.Delay > 0 {
		return fmt.Sprintf("%10d %s (after %d sec)", e.Level, e.Command, e.Delay)
	}
	return fmt.Sprintf("%10d %s", e.Level, e.Command)
}

// String renders the scope as a listing header.
func (s Scope) String() string {
	return fmt.Sprintf("[%d:%s]", s.ID, s.Name)
}
