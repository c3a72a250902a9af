package transcript

import (
	"strings"
	"testing"

	apperrors "github.com/spec-kit/voice2ticket/pkg/util/errorutil"
)

func TestParse(t *testing.T) {
	doc := `{"jobName":"transcribe-1","results":{"transcripts":[{"transcript":"  Laptop won't boot. Need help ASAP  "}]}}`
	got, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Text != "Laptop won't boot. Need help ASAP" {
		t.Errorf("Text = %q", got.Text)
	}
	if got.JobName != "transcribe-1" {
		t.Errorf("JobName = %q", got.JobName)
	}
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]string{
		"invalid json":        `{"results":`,
		"missing results":     `{"jobName":"x"}`,
		"missing transcripts": `{"results":{}}`,
		"empty transcripts":   `{"results":{"transcripts":[]}}`,
		"blank text":          `{"results":{"transcripts":[{"transcript":"   "}]}}`,
		"missing text field":  `{"results":{"transcripts":[{}]}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			if !apperrors.HasCode(err, apperrors.CodeMalformedTranscript) {
				t.Errorf("expected malformed transcript error, got %v", err)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	long := strings.Repeat("a", 80) + ". rest"
	cases := []struct {
		name, text, want string
	}{
		{"first sentence", "Laptop won't boot. Need help ASAP", "Laptop won't boot"},
		{"no period", "Need help ASAP", "Need help ASAP"},
		{"truncated", long, strings.Repeat("a", 70) + "..."},
		{"exactly seventy", strings.Repeat("b", 70), strings.Repeat("b", 70)},
		{"leading period", ". something", DefaultTitle},
		{"multibyte safe", strings.Repeat("é", 75), strings.Repeat("é", 70) + "..."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Title(tc.text); got != tc.want {
				t.Errorf("Title = %q, want %q", got, tc.want)
			}
		})
	}
}
