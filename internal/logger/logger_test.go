package logger

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

func capture(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	if IsVerbose() {
		t.Error("expected verbose to be false")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestLevels_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Debug("embedding %d passages", 4)
	Info("mode %s", "qa")
	Warn("retrieval returned %d passages", 0)
	Section("Answer Question")

	out := buf.String()
	for _, want := range []string{
		"[DEBUG] embedding 4 passages\n",
		"[INFO] mode qa\n",
		"[WARN] retrieval returned 0 passages\n",
		"\n=== Answer Question ===\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %q", want, out)
		}
	}
}

func TestLevels_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")
	Elapsed("hidden", time.Now())

	if buf.Len() != 0 {
		t.Errorf("expected no output when not verbose, got %q", buf.String())
	}
}

func TestError_AlwaysPrinted(t *testing.T) {
	buf := capture(t, false)

	Error("save chat log: %v", "disk full")

	if got := buf.String(); got != "[ERROR] save chat log: disk full\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestElapsed(t *testing.T) {
	buf := capture(t, true)

	Elapsed("build index", time.Now().Add(-time.Second))

	if !strings.HasPrefix(buf.String(), "[DEBUG] build index took 1") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, true)
	SetOutput(io.Discard)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			Debug("message %d", i)
		}(i)
		go func() {
			defer wg.Done()
			SetVerbose(IsVerbose())
		}()
	}
	wg.Wait()
}
