package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/generator"
)

type fakeChatter struct {
	response string
	err      error
	prompt   string
}

func (f *fakeChatter) Chat(_ context.Context, messages []generator.Message) (string, error) {
	if len(messages) > 0 {
		f.prompt = messages[len(messages)-1].Content
	}
	return f.response, f.err
}

func TestLLMParsesFields(t *testing.T) {
	chatter := &fakeChatter{response: `{"distro":"Fedora","distroVersion":"41","packageManager":"dnf","desktop":"Hyprland"}`}
	u := NewLLM(chatter).Extract(context.Background(), "I'm using Fedora 41 with Hyprland")

	if u.Distro == nil || *u.Distro != "fedora" {
		t.Errorf("distro = %v, want lower-cased fedora", u.Distro)
	}
	if u.Desktop == nil || *u.Desktop != "hyprland" {
		t.Errorf("desktop = %v", u.Desktop)
	}
	if u.DistroVersion == nil || *u.DistroVersion != "41" {
		t.Errorf("version = %v", u.DistroVersion)
	}
}

func TestLLMNestsHardwareFields(t *testing.T) {
	chatter := &fakeChatter{response: `{"gpuVendor":"NVIDIA","formFactor":"laptop"}`}
	u := NewLLM(chatter).Extract(context.Background(), "thinkpad with nvidia")

	if u.Hardware == nil {
		t.Fatal("hardware not nested")
	}
	if u.Hardware.GPUVendor == nil || *u.Hardware.GPUVendor != "nvidia" {
		t.Errorf("gpu = %v", u.Hardware.GPUVendor)
	}
	if u.Hardware.FormFactor == nil || *u.Hardware.FormFactor != "laptop" {
		t.Errorf("form factor = %v", u.Hardware.FormFactor)
	}
}

func TestLLMToleratesSurroundingProse(t *testing.T) {
	chatter := &fakeChatter{response: "Sure! Here is what I found:\n{\"distro\":\"arch\"}\nLet me know if you need more."}
	u := NewLLM(chatter).Extract(context.Background(), "arch btw")

	if u.Distro == nil || *u.Distro != "arch" {
		t.Errorf("distro = %v", u.Distro)
	}
}

func TestLLMFailuresYieldEmptyUpdate(t *testing.T) {
	cases := []struct {
		name    string
		chatter *fakeChatter
	}{
		{"transport error", &fakeChatter{err: errors.New("connection refused")}},
		{"no object in response", &fakeChatter{response: "I could not find anything."}},
		{"malformed object", &fakeChatter{response: `{"distro": }`}},
		{"unbalanced braces", &fakeChatter{response: `{"distro":"arch"`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := NewLLM(tc.chatter).Extract(context.Background(), "some text")
			if !u.IsZero() {
				t.Errorf("update = %#v, want empty", u)
			}
		})
	}
}

func TestLLMKeepsWellTypedFieldsNextToMistypedOnes(t *testing.T) {
	chatter := &fakeChatter{response: `{"distro":"fedora","distroVersion":41,"desktop":"hyprland"}`}
	u := NewLLM(chatter).Extract(context.Background(), "fedora 41 with hyprland")

	if u.Distro == nil || *u.Distro != "fedora" {
		t.Errorf("distro = %v, want fedora", u.Distro)
	}
	if u.Desktop == nil || *u.Desktop != "hyprland" {
		t.Errorf("desktop = %v, want hyprland", u.Desktop)
	}
	if u.DistroVersion != nil {
		t.Errorf("version = %q, want absent for mistyped field", *u.DistroVersion)
	}
}

func TestLLMEmptyObjectMeansNothingDetected(t *testing.T) {
	chatter := &fakeChatter{response: `{}`}
	u := NewLLM(chatter).Extract(context.Background(), "how do I install docker?")
	if !u.IsZero() {
		t.Errorf("update = %#v, want empty", u)
	}
}

func TestLLMSkipsEmptyInput(t *testing.T) {
	chatter := &fakeChatter{response: `{"distro":"arch"}`}
	u := NewLLM(chatter).Extract(context.Background(), "   ")
	if !u.IsZero() {
		t.Errorf("update = %#v, want empty", u)
	}
	if chatter.prompt != "" {
		t.Error("model was called for empty input")
	}
}

func TestFirstObjectSpanRespectsStrings(t *testing.T) {
	span := firstObjectSpan(`prefix {"note":"braces } in { strings"} suffix`)
	if span != `{"note":"braces } in { strings"}` {
		t.Errorf("span = %q", span)
	}
}
