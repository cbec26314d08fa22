package profile

import (
	"reflect"
	"testing"
	"time"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestDefaultSentinels(t *testing.T) {
	p := Default(t0)

	if p.Distro != Unknown || p.PackageManager != Unknown || p.Desktop != Unknown {
		t.Errorf("expected sentinel fields, got distro=%q pm=%q desktop=%q", p.Distro, p.PackageManager, p.Desktop)
	}
	if p.ExperienceLevel != LevelBeginner {
		t.Errorf("expected beginner default, got %q", p.ExperienceLevel)
	}
	if p.PrimaryUseCase != "desktop-general" {
		t.Errorf("expected desktop-general default, got %q", p.PrimaryUseCase)
	}
	if p.CreatedAt != t0 || p.UpdatedAt != t0 {
		t.Errorf("expected both timestamps at %v, got created=%v updated=%v", t0, p.CreatedAt, p.UpdatedAt)
	}
	if p.SecondaryPackageManagers == nil || len(p.SecondaryPackageManagers) != 0 {
		t.Errorf("expected empty slice, got %#v", p.SecondaryPackageManagers)
	}
}

func TestMergeEmptyUpdateIsIdentity(t *testing.T) {
	p := Default(t0)
	later := t0.Add(time.Hour)

	got := Merge(p, Update{}, later)
	if !reflect.DeepEqual(got, p) {
		t.Errorf("merge with empty update changed the profile:\ngot  %#v\nwant %#v", got, p)
	}
}

func TestMergeScalarLastWriterWins(t *testing.T) {
	p := Default(t0)
	later := t0.Add(time.Hour)

	got := Merge(p, Update{Distro: ptr("fedora"), DistroVersion: ptr("41")}, later)
	if got.Distro != "fedora" || got.DistroVersion != "41" {
		t.Errorf("got distro=%q version=%q", got.Distro, got.DistroVersion)
	}
	if got.UpdatedAt != later {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, later)
	}
	if got.CreatedAt != t0 {
		t.Errorf("CreatedAt moved to %v", got.CreatedAt)
	}
	// Unset fields keep their sentinels.
	if got.Desktop != Unknown {
		t.Errorf("desktop = %q, want sentinel", got.Desktop)
	}
}

func TestMergeDoesNotModifyInput(t *testing.T) {
	p := Default(t0)
	p.SecondaryPackageManagers = []string{"flatpak"}
	before := clone(p)

	Merge(p, Update{
		Distro:                   ptr("arch"),
		SecondaryPackageManagers: ptr([]string{"snap", "flatpak"}),
	}, t0.Add(time.Minute))

	if !reflect.DeepEqual(p, before) {
		t.Errorf("input profile was mutated:\ngot  %#v\nwant %#v", p, before)
	}
}

func TestMergeHardwareKeyByKey(t *testing.T) {
	p := Default(t0)
	p.Hardware.GPUVendor = "nvidia"
	p.Hardware.RAMGB = 32

	got := Merge(p, Update{
		Hardware: &HardwareUpdate{CPUVendor: ptr("amd"), FormFactor: ptr("laptop")},
	}, t0.Add(time.Hour))

	if got.Hardware.GPUVendor != "nvidia" {
		t.Errorf("gpu vendor clobbered: %q", got.Hardware.GPUVendor)
	}
	if got.Hardware.RAMGB != 32 {
		t.Errorf("ram clobbered: %d", got.Hardware.RAMGB)
	}
	if got.Hardware.CPUVendor != "amd" || got.Hardware.FormFactor != "laptop" {
		t.Errorf("new hardware fields not applied: %#v", got.Hardware)
	}
}

func TestMergeSliceReplacedWholesale(t *testing.T) {
	p := Default(t0)
	p.PreferredEditors = []string{"vim", "nano"}

	got := Merge(p, Update{PreferredEditors: ptr([]string{"helix"})}, t0.Add(time.Hour))
	if !reflect.DeepEqual(got.PreferredEditors, []string{"helix"}) {
		t.Errorf("editors = %#v, want [helix]", got.PreferredEditors)
	}

	// Absent slice field keeps the current value.
	got2 := Merge(p, Update{Shell: ptr("zsh")}, t0.Add(time.Hour))
	if !reflect.DeepEqual(got2.PreferredEditors, []string{"vim", "nano"}) {
		t.Errorf("editors = %#v, want unchanged", got2.PreferredEditors)
	}
}

func TestMergeIdempotentOnEqualValues(t *testing.T) {
	p := Default(t0)
	u := Update{Distro: ptr("debian"), Shell: ptr("bash")}

	first := Merge(p, u, t0.Add(time.Hour))
	second := Merge(first, u, t0.Add(time.Hour))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second merge with identical update diverged:\nfirst  %#v\nsecond %#v", first, second)
	}
}

func TestUpdateIsZero(t *testing.T) {
	cases := []struct {
		name string
		u    Update
		want bool
	}{
		{"empty", Update{}, true},
		{"empty hardware pointer", Update{Hardware: &HardwareUpdate{}}, true},
		{"scalar set", Update{Distro: ptr("arch")}, false},
		{"hardware field set", Update{Hardware: &HardwareUpdate{RAMGB: ptr(16)}}, false},
		{"slice set", Update{PreferredEditors: ptr([]string{})}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.u.IsZero(); got != tc.want {
				t.Errorf("IsZero() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestInferFromDistro(t *testing.T) {
	cases := []struct {
		distro  string
		base    string
		pm      string
		init    string
		desktop string
	}{
		{"fedora", "fedora", "dnf", "systemd", "gnome"},
		{"Arch", "arch", "pacman", "systemd", Unknown},
		{"ubuntu", "ubuntu", "apt", "systemd", "gnome"},
		{"void", "void", "xbps", "runit", Unknown},
		{"gentoo", "gentoo", "emerge", "openrc", Unknown},
		{"definitely-not-a-distro", Unknown, Unknown, Unknown, Unknown},
	}
	for _, tc := range cases {
		t.Run(tc.distro, func(t *testing.T) {
			u := InferFromDistro(tc.distro)
			if *u.DistroBase != tc.base {
				t.Errorf("base = %q, want %q", *u.DistroBase, tc.base)
			}
			if *u.PackageManager != tc.pm {
				t.Errorf("pm = %q, want %q", *u.PackageManager, tc.pm)
			}
			if *u.InitSystem != tc.init {
				t.Errorf("init = %q, want %q", *u.InitSystem, tc.init)
			}
			if *u.Desktop != tc.desktop {
				t.Errorf("desktop = %q, want %q", *u.Desktop, tc.desktop)
			}
		})
	}
}
