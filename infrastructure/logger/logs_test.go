package logger

import (
	"testing"
)

func TestParseAndSetLogLevels(t *testing.T) {
	first := RegisterSubSystem("TST1")
	second := RegisterSubSystem("TST2")

	if RegisterSubSystem("TST1") != first {
		t.Fatalf("RegisterSubSystem returned a different logger for the same tag")
	}

	tests := []struct {
		name           string
		logLevel       string
		expectedFirst  Level
		expectedSecond Level
		expectError    bool
	}{
		{name: "single level", logLevel: "debug", expectedFirst: LevelDebug, expectedSecond: LevelDebug},
		{name: "pairs", logLevel: "TST1=trace,TST2=warn", expectedFirst: LevelTrace, expectedSecond: LevelWarn},
		{name: "unknown subsystem", logLevel: "NOPE=trace,TST2=info", expectError: true},
		{name: "bad level", logLevel: "verbose", expectError: true},
		{name: "malformed pair", logLevel: "TST1,TST2=info", expectError: true},
	}

	for _, test := range tests {
		err := ParseAndSetLogLevels(test.logLevel)
		if test.expectError {
			if err == nil {
				t.Fatalf("%s: expected an error but got none", test.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: ParseAndSetLogLevels unexpectedly failed: %s", test.name, err)
		}
		if first.Level() != test.expectedFirst {
			t.Fatalf("%s: TST1 level is %s, expected %s", test.name, first.Level(), test.expectedFirst)
		}
		if second.Level() != test.expectedSecond {
			t.Fatalf("%s: TST2 level is %s, expected %s", test.name, second.Level(), test.expectedSecond)
		}
	}
}

func TestLevelFromString(t *testing.T) {
	for _, name := range []string{"trace", "DBG", "Info", "wrn", "error", "crt", "off"} {
		if _, ok := LevelFromString(name); !ok {
			t.Fatalf("LevelFromString(%s) was not recognized", name)
		}
	}
	level, ok := LevelFromString("loud")
	if ok || level != LevelInfo {
		t.Fatalf("LevelFromString(loud) = %s, %t; expected INF, false", level, ok)
	}
}
