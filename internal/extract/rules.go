package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/profile"
)

// Rules is the local extraction strategy: a fixed, ordered rule list run
// against lower-cased user text. Every matching rule contributes; when two
// rules set the same field the later rule wins, the same overlay semantics
// the profile merge uses.
type Rules struct{}

// NewRules returns the rule-based extractor.
func NewRules() *Rules { return &Rules{} }

type rule struct {
	name  string
	apply func(text string) profile.Update
}

// Distro names the distro rule recognizes, longest alternative first so
// "arch linux" beats "arch". An optional trailing number becomes the
// version.
var distroRe = regexp.MustCompile(`\b(arch linux|pop os|linux mint|opensuse tumbleweed|opensuse leap|kde neon|void linux|alpine linux|elementary os|rocky linux|fedora|ubuntu|debian|nixos|gentoo|opensuse|manjaro|endeavouros|garuda|artix|slackware|alpine|void|mint|kali|rocky|alma|almalinux|centos|rhel|zorin|elementary|solus|cachyos|bazzite|nobara|arch)\b(?:\s+(\d+(?:\.\d+)?))?`)

var desktopRe = regexp.MustCompile(`\b(gnome|plasma|kde|xfce|hyprland|sway|niri|i3|bspwm|cinnamon|mate|lxqt|lxde|budgie|openbox|awesome|qtile|dwm|river|cosmic|pantheon|deepin|enlightenment)\b`)

var gpuRe = regexp.MustCompile(`\b(nvidia|geforce|rtx|gtx|radeon|amdgpu|amd|intel arc|intel graphics)\b`)

var bootRe = regexp.MustCompile(`\b(dual[ -]?boot(?:ing)?|wsl2|wsl1|wsl|virtualbox|vmware|kvm|qemu|virtual machine|vm)\b`)

var shellRe = regexp.MustCompile(`\b(bash|zsh|fish|nushell|dash|tcsh|ksh)\b`)

var levelRe = regexp.MustCompile(`\b(beginner|newbie|new to linux|intermediate|advanced|expert|power user)\b`)

var laptopRe = regexp.MustCompile(`\b(laptop|notebook|thinkpad|macbook|chromebook|ultrabook|xps|zenbook|vivobook|ideapad)\b`)

var ruleList = []rule{
	{"distro", extractDistro},
	{"desktop", extractDesktop},
	{"gpu", extractGPU},
	{"boot", extractBoot},
	{"shell", extractShell},
	{"experience", extractExperience},
	{"form-factor", extractFormFactor},
}

// Extract runs every rule in order and overlays their outputs. The context
// is unused; the signature is shared with the delegated strategy.
func (r *Rules) Extract(_ context.Context, text string) profile.Update {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return profile.Update{}
	}

	var acc profile.Update
	for _, rl := range ruleList {
		acc = profile.Overlay(acc, rl.apply(lowered))
	}
	return acc
}

func extractDistro(text string) profile.Update {
	m := distroRe.FindStringSubmatch(text)
	if m == nil {
		return profile.Update{}
	}
	u := profile.InferFromDistro(m[1])
	if m[2] != "" {
		u.DistroVersion = ptr(m[2])
	}
	return u
}

func extractDesktop(text string) profile.Update {
	m := desktopRe.FindStringSubmatch(text)
	if m == nil {
		return profile.Update{}
	}
	name := m[1]
	if name == "plasma" {
		name = "kde"
	}
	return profile.Update{Desktop: ptr(name)}
}

func extractGPU(text string) profile.Update {
	m := gpuRe.FindStringSubmatch(text)
	if m == nil {
		return profile.Update{}
	}
	var vendor string
	switch m[1] {
	case "nvidia", "geforce", "rtx", "gtx":
		vendor = "nvidia"
	case "radeon", "amdgpu", "amd":
		vendor = "amd"
	default:
		vendor = "intel"
	}
	return profile.Update{Hardware: &profile.HardwareUpdate{GPUVendor: ptr(vendor)}}
}

func extractBoot(text string) profile.Update {
	m := bootRe.FindStringSubmatch(text)
	if m == nil {
		return profile.Update{}
	}
	var boot string
	switch m[1] {
	case "wsl1":
		boot = "wsl1"
	case "wsl2", "wsl":
		boot = "wsl2"
	case "virtualbox":
		boot = "vm-virtualbox"
	case "vmware":
		boot = "vm-vmware"
	case "kvm", "qemu":
		boot = "vm-kvm"
	case "virtual machine", "vm":
		// An unqualified VM mention folds to the most common hypervisor
		// tag rather than a generic one. Deliberate simplification.
		boot = "vm-virtualbox"
	default:
		boot = "dual-windows"
	}
	return profile.Update{BootType: ptr(boot)}
}

func extractShell(text string) profile.Update {
	m := shellRe.FindStringSubmatch(text)
	if m == nil {
		return profile.Update{}
	}
	return profile.Update{Shell: ptr(m[1])}
}

func extractExperience(text string) profile.Update {
	m := levelRe.FindStringSubmatch(text)
	if m == nil {
		return profile.Update{}
	}
	var level string
	switch m[1] {
	case "beginner", "newbie", "new to linux":
		level = profile.LevelBeginner
	case "intermediate":
		level = profile.LevelIntermediate
	default:
		level = profile.LevelAdvanced
	}
	return profile.Update{ExperienceLevel: ptr(level)}
}

func extractFormFactor(text string) profile.Update {
	if !laptopRe.MatchString(text) {
		return profile.Update{}
	}
	return profile.Update{Hardware: &profile.HardwareUpdate{FormFactor: ptr("laptop")}}
}

func ptr[T any](v T) *T { return &v }
