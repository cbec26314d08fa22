package extract

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/generator"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/profile"
)

const extractionTimeout = 3 * time.Second

const extractionPrompt = `Extract Linux system information from the user's message. Return ONLY a valid JSON object with any detected fields. If nothing is detected, return {}.

Fields to extract (only include if mentioned):
- distro: Linux distribution name (e.g., "fedora", "arch", "ubuntu", "debian", "nixos", "gentoo")
- distroVersion: Version number if mentioned
- packageManager: Infer from distro (dnf=fedora, pacman=arch, apt=debian/ubuntu, zypper=opensuse, emerge=gentoo, nix=nixos)
- desktop: Desktop environment OR window manager OR compositor (e.g., "gnome", "kde", "hyprland", "sway", "niri", "i3", "bspwm")
- shell: Shell being used (bash, zsh, fish, nushell)
- bootType: "single", "dual-windows", "dual-macos", "wsl1", "wsl2", "vm-virtualbox", "vm-vmware", "vm-kvm"
- experienceLevel: "beginner", "intermediate", or "advanced"
- gpuVendor: "nvidia", "amd", or "intel"
- formFactor: "desktop", "laptop", or "server"

Examples:
User: "I'm using Fedora 41 with Hyprland"
Output: {"distro":"fedora","distroVersion":"41","packageManager":"dnf","desktop":"hyprland"}

User: "running arch on my thinkpad with nvidia"
Output: {"distro":"arch","packageManager":"pacman","formFactor":"laptop","gpuVendor":"nvidia"}

User: "I use niri on NixOS"
Output: {"distro":"nixos","packageManager":"nix","desktop":"niri"}

User: "how do I install docker?"
Output: {}

Now extract from this message:`

// Chatter is the single-shot completion interface the delegated strategy
// needs. Implemented by generator.Client.
type Chatter interface {
	Chat(ctx context.Context, messages []generator.Message) (string, error)
}

// LLM is the delegated extraction strategy: one model round-trip with a
// fixed instruction, the answer parsed leniently. Any failure — timeout,
// transport error, malformed output — degrades to an empty update with a
// logged warning.
type LLM struct {
	client Chatter
}

// NewLLM returns the delegated extractor.
func NewLLM(client Chatter) *LLM {
	return &LLM{client: client}
}

// wireUpdate is the flat shape the model answers with.
type wireUpdate struct {
	Distro          string `json:"distro"`
	DistroVersion   string `json:"distroVersion"`
	PackageManager  string `json:"packageManager"`
	Desktop         string `json:"desktop"`
	Shell           string `json:"shell"`
	BootType        string `json:"bootType"`
	ExperienceLevel string `json:"experienceLevel"`
	GPUVendor       string `json:"gpuVendor"`
	FormFactor      string `json:"formFactor"`
}

// Extract asks the model for the structured fields mentioned in text.
func (e *LLM) Extract(ctx context.Context, text string) profile.Update {
	if strings.TrimSpace(text) == "" {
		return profile.Update{}
	}

	ctx, cancel := context.WithTimeout(ctx, extractionTimeout)
	defer cancel()

	raw, err := e.client.Chat(ctx, []generator.Message{
		{Role: "user", Content: extractionPrompt + "\nUser: \"" + text + "\"\nOutput:"},
	})
	if err != nil {
		slog.Warn("delegated extraction failed", "error", err)
		return profile.Update{}
	}

	span := firstObjectSpan(raw)
	if span == "" {
		slog.Warn("no object found in extraction response", "response", raw)
		return profile.Update{}
	}

	var w wireUpdate
	if err := json.Unmarshal([]byte(span), &w); err != nil {
		// A mistyped field only invalidates itself; Unmarshal has already
		// filled the well-typed ones by the time it reports the mismatch.
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			slog.Warn("malformed extraction response", "error", err, "response", span)
			return profile.Update{}
		}
		slog.Warn("mistyped field in extraction response", "error", err, "response", span)
	}
	return w.toUpdate()
}

func (w wireUpdate) toUpdate() profile.Update {
	var u profile.Update
	setLower(&u.Distro, w.Distro)
	setLower(&u.DistroVersion, w.DistroVersion)
	setLower(&u.PackageManager, w.PackageManager)
	setLower(&u.Desktop, w.Desktop)
	setLower(&u.Shell, w.Shell)
	setLower(&u.BootType, w.BootType)
	setLower(&u.ExperienceLevel, w.ExperienceLevel)

	if w.GPUVendor != "" || w.FormFactor != "" {
		h := &profile.HardwareUpdate{}
		setLower(&h.GPUVendor, w.GPUVendor)
		setLower(&h.FormFactor, w.FormFactor)
		u.Hardware = h
	}
	return u
}

func setLower(dst **string, v string) {
	if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
		*dst = &v
	}
}

// firstObjectSpan returns the first balanced {...} span in s, tolerating
// prose around the object and braces inside JSON strings. Empty when no
// balanced object exists.
func firstObjectSpan(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
