// Package tickformat renders the per-tick, per-node status block that
// downstream dashboards parse from stdout: a header line, a VSI time
// line, then tab-indented Inputs/Outputs k=v pairs, terminated by a blank
// line. The exact field order and indentation reproduce
// original_source/ST5_QualityInspection.py and ST6_PackagingDispatch.py's
// print blocks; the buffered-writer style is grounded on the teacher's
// internal/command/uds_client.go bufio usage.
package tickformat

import (
	"bufio"
	"fmt"
	"io"
)

// KV is one key=value line within an Inputs or Outputs section. Value is
// formatted with %v, matching the original's plain Python print output for
// ints, bools (as 0/1 via the caller), and floats.
type KV struct {
	Key   string
	Value any
}

// WriteBlock writes one tick's status block for station to w.
func WriteBlock(w io.Writer, station string, timeNs uint64, inputs, outputs []KV) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "\n+=%s+=\n", station)
	fmt.Fprintf(bw, "  VSI time: %d ns\n", timeNs)

	fmt.Fprintln(bw, "  Inputs:")
	for _, kv := range inputs {
		fmt.Fprintf(bw, "\t%s = %v\n", kv.Key, kv.Value)
	}

	fmt.Fprintln(bw, "  Outputs:")
	for _, kv := range outputs {
		fmt.Fprintf(bw, "\t%s = %v\n", kv.Key, kv.Value)
	}

	fmt.Fprintln(bw) // blank line record terminator

	return bw.Flush()
}
