package extract

import (
	"context"
	"testing"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/profile"
)

func TestRulesDistroWithVersionAndDesktop(t *testing.T) {
	u := NewRules().Extract(context.Background(), "I'm using Fedora 41 with Hyprland")

	if u.Distro == nil || *u.Distro != "fedora" {
		t.Fatalf("distro = %v", u.Distro)
	}
	if u.DistroVersion == nil || *u.DistroVersion != "41" {
		t.Errorf("version = %v", u.DistroVersion)
	}
	if u.PackageManager == nil || *u.PackageManager != "dnf" {
		t.Errorf("package manager = %v", u.PackageManager)
	}
	// The desktop rule runs after the distro rule's table inference, so
	// the explicit mention wins over fedora's default gnome.
	if u.Desktop == nil || *u.Desktop != "hyprland" {
		t.Errorf("desktop = %v", u.Desktop)
	}
}

func TestRulesLaptopAndGPU(t *testing.T) {
	u := NewRules().Extract(context.Background(), "running arch on my thinkpad with nvidia")

	if u.Distro == nil || *u.Distro != "arch" {
		t.Fatalf("distro = %v", u.Distro)
	}
	if u.PackageManager == nil || *u.PackageManager != "pacman" {
		t.Errorf("package manager = %v", u.PackageManager)
	}
	if u.Hardware == nil {
		t.Fatal("hardware update missing")
	}
	if u.Hardware.GPUVendor == nil || *u.Hardware.GPUVendor != "nvidia" {
		t.Errorf("gpu vendor = %v", u.Hardware.GPUVendor)
	}
	if u.Hardware.FormFactor == nil || *u.Hardware.FormFactor != "laptop" {
		t.Errorf("form factor = %v", u.Hardware.FormFactor)
	}
}

func TestRulesNoMatchYieldsEmptyUpdate(t *testing.T) {
	cases := []string{
		"how do I install docker?",
		"",
		"what's the weather like",
	}
	for _, text := range cases {
		u := NewRules().Extract(context.Background(), text)
		if !u.IsZero() {
			t.Errorf("Extract(%q) = %#v, want empty", text, u)
		}
	}
}

func TestRulesSynonymFolding(t *testing.T) {
	r := NewRules()
	ctx := context.Background()

	cases := []struct {
		name  string
		text  string
		check func(t *testing.T, u profile.Update)
	}{
		{"plasma folds to kde", "just switched to Plasma", func(t *testing.T, u profile.Update) {
			if u.Desktop == nil || *u.Desktop != "kde" {
				t.Errorf("desktop = %v", u.Desktop)
			}
		}},
		{"radeon folds to amd", "my radeon card glitches", func(t *testing.T, u profile.Update) {
			if u.Hardware == nil || u.Hardware.GPUVendor == nil || *u.Hardware.GPUVendor != "amd" {
				t.Errorf("hardware = %#v", u.Hardware)
			}
		}},
		{"dual boot folds to windows", "I dual boot with windows", func(t *testing.T, u profile.Update) {
			if u.BootType == nil || *u.BootType != "dual-windows" {
				t.Errorf("boot = %v", u.BootType)
			}
		}},
		{"bare vm folds to virtualbox", "running linux in a vm", func(t *testing.T, u profile.Update) {
			if u.BootType == nil || *u.BootType != "vm-virtualbox" {
				t.Errorf("boot = %v", u.BootType)
			}
		}},
		{"named hypervisor", "ubuntu under kvm", func(t *testing.T, u profile.Update) {
			if u.BootType == nil || *u.BootType != "vm-kvm" {
				t.Errorf("boot = %v", u.BootType)
			}
		}},
		{"wsl", "I'm on WSL", func(t *testing.T, u profile.Update) {
			if u.BootType == nil || *u.BootType != "wsl2" {
				t.Errorf("boot = %v", u.BootType)
			}
		}},
		{"newbie folds to beginner", "I'm a total newbie", func(t *testing.T, u profile.Update) {
			if u.ExperienceLevel == nil || *u.ExperienceLevel != profile.LevelBeginner {
				t.Errorf("level = %v", u.ExperienceLevel)
			}
		}},
		{"expert folds to advanced", "I'm an expert user", func(t *testing.T, u profile.Update) {
			if u.ExperienceLevel == nil || *u.ExperienceLevel != profile.LevelAdvanced {
				t.Errorf("level = %v", u.ExperienceLevel)
			}
		}},
		{"shell mention", "my zsh config broke", func(t *testing.T, u profile.Update) {
			if u.Shell == nil || *u.Shell != "zsh" {
				t.Errorf("shell = %v", u.Shell)
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, r.Extract(ctx, tc.text))
		})
	}
}

func TestRulesUnmappedDistroKeepsSentinels(t *testing.T) {
	u := NewRules().Extract(context.Background(), "I run slackware at home")

	if u.Distro == nil || *u.Distro != "slackware" {
		t.Fatalf("distro = %v", u.Distro)
	}
	// slackware is absent from the desktop table; each table resolves
	// independently.
	if u.Desktop == nil || *u.Desktop != profile.Unknown {
		t.Errorf("desktop = %v", u.Desktop)
	}
	if u.InitSystem == nil || *u.InitSystem != "sysvinit" {
		t.Errorf("init = %v", u.InitSystem)
	}
}
