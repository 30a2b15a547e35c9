package constants

import (
	"regexp"
	"strings"
	"testing"
)

func TestTimeFormat(t *testing.T) {
	// Check that the global regexp can match constant TimeFormatYearSeconds.
	re := regexp.MustCompile(TimeFormatYearSecondsRegex)
	if !re.MatchString(TimeFormatYearSeconds) {
		t.Fatal("Mismatch between TimeFormatYearSeconds and regexp in constant TimeFormatYearSecondsRegex.")
	}
}

func TestChoiceIndentIsNotTrimmable(t *testing.T) {
	// UIs trim plain whitespace from labels so the indent must survive strings.TrimSpace.
	if strings.TrimSpace(ChoiceIndent) == "" {
		t.Fatal("expected ChoiceIndent to survive whitespace trimming")
	}
}

func TestFileFormatSentinelIsNotQualified(t *testing.T) {
	if strings.Contains(FileFormatDefault, ".") {
		t.Fatalf("file format sentinel %q must not look like a qualified name", FileFormatDefault)
	}
}
