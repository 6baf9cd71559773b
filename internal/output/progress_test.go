package output

import (
	"bytes"
	"testing"
)

func TestSpinner_NonTTYIsSilent(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Querying associations")
	s.SetWriter(buf)

	s.Start()
	if s.Running() {
		t.Error("spinner should not animate on a non-TTY writer")
	}
	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("non-TTY spinner wrote output: %q", buf.String())
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	s := NewSpinner("idle")
	s.SetWriter(&bytes.Buffer{})

	// Must not panic or block.
	s.Stop()
	s.Stop()
}
