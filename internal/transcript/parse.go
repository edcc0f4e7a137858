// Package transcript reads Claude session transcripts and renders them as the
// plain-text export format, and reads that export format back into
// conversation segments.
package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Transcript is the decoded content of one session file.
type Transcript struct {
	Records []Record
	// Malformed counts non-blank lines that were not a JSON object.
	Malformed int
}

// Parse reads line-delimited JSON records from r. Blank lines are skipped and
// lines that fail to decode are counted in Malformed and otherwise dropped.
// Uses bufio.Reader so a single line is not limited in length.
func Parse(r io.Reader) (*Transcript, error) {
	t := &Transcript{}
	reader := bufio.NewReader(r)

	for {
		lineBytes, err := reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read transcript: %w", err)
		}

		if line := bytes.TrimSpace(lineBytes); len(line) > 0 {
			var rec Record
			if decodeErr := json.Unmarshal(line, &rec); decodeErr == nil {
				t.Records = append(t.Records, rec)
			} else {
				t.Malformed++
			}
		}

		if err == io.EOF {
			break
		}
	}

	return t, nil
}
