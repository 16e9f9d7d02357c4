package debug

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestDisabledIsNoop(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(false)

	Log("should not appear %d", 1)
	Event("nothing", map[string]any{"k": "v"})
	LogEnterExit("noop")()
	if Enabled() {
		t.Fatal("expected logging disabled")
	}
}

func TestSetOutputWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetEnabled(false)

	Log("fetched %d documents", 3)
	LogTiming("bulk_load", 25*time.Millisecond)
	Event("brief_applied", map[string]any{"topic": "Rust"})

	out := buf.String()
	for _, want := range []string{
		`"message":"fetched 3 documents"`,
		`"op":"bulk_load"`,
		`"message":"brief_applied"`,
		`"topic":"Rust"`,
		`"component":"trendscope"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}
