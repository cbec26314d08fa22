package command

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		kind  Kind
		level string
	}{
		{"reset", "/reset", Reset, ""},
		{"reset padded", "  /RESET  ", Reset, ""},
		{"profile", "/profile", ShowProfile, ""},
		{"profile mixed case", "/Profile", ShowProfile, ""},
		{"level beginner", "/level beginner", SetLevel, "beginner"},
		{"level intermediate", "/level intermediate", SetLevel, "intermediate"},
		{"level advanced", "/level  advanced", SetLevel, "advanced"},
		{"level uppercase", "/LEVEL ADVANCED", SetLevel, "advanced"},
		{"level unknown tier", "/level extreme", None, ""},
		{"level missing arg", "/level", None, ""},
		{"level trailing text", "/level beginner please", None, ""},
		{"near-miss typo", "/rest", None, ""},
		{"plain text", "how do I install docker?", None, ""},
		{"command mid-sentence", "run /reset for me", None, ""},
		{"empty", "", None, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.in)
			if got.Kind != tc.kind {
				t.Errorf("Parse(%q).Kind = %v, want %v", tc.in, got.Kind, tc.kind)
			}
			if got.Level != tc.level {
				t.Errorf("Parse(%q).Level = %q, want %q", tc.in, got.Level, tc.level)
			}
		})
	}
}
