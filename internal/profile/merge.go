package profile

import "time"

// Default returns a fresh profile with every categorical field at the
// Unknown sentinel, the experience level at beginner, empty slices for the
// ordered-set fields, and both timestamps set to now.
func Default(now time.Time) Profile {
	return Profile{
		Distro:         Unknown,
		DistroVersion:  Unknown,
		DistroCodename: Unknown,
		DistroBase:     Unknown,
		ReleaseType:    Unknown,

		PackageManager:           Unknown,
		SecondaryPackageManagers: []string{},
		AURHelper:                Unknown,

		Desktop:        Unknown,
		DisplayServer:  Unknown,
		DisplayManager: Unknown,

		InitSystem: Unknown,
		Filesystem: Unknown,

		BootType:   Unknown,
		BootMode:   Unknown,
		Bootloader: Unknown,

		Hardware: Hardware{
			GPUVendor:   Unknown,
			GPUDriver:   Unknown,
			CPUVendor:   Unknown,
			CPUArch:     Unknown,
			FormFactor:  Unknown,
			StorageType: Unknown,
		},

		Shell:    Unknown,
		Terminal: Unknown,

		AudioSystem:    Unknown,
		NetworkManager: Unknown,
		Firewall:       Unknown,

		ContainerRuntime: Unknown,

		ExperienceLevel:  LevelBeginner,
		PrimaryUseCase:   "desktop-general",
		PreferredEditors: []string{},

		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Merge applies the non-nil fields of u onto p and returns the result as a
// new value; p is never modified. Scalar fields are last-writer-wins, the
// hardware sub-record is merged key-by-key, and slice fields are replaced
// wholesale when present in the update. UpdatedAt is set to now whenever u
// carries at least one field; CreatedAt is never touched. A zero update
// returns p unchanged.
func Merge(p Profile, u Update, now time.Time) Profile {
	if u.IsZero() {
		return clone(p)
	}
	out := clone(p)

	apply(&out.Distro, u.Distro)
	apply(&out.DistroVersion, u.DistroVersion)
	apply(&out.DistroCodename, u.DistroCodename)
	apply(&out.DistroBase, u.DistroBase)
	apply(&out.ReleaseType, u.ReleaseType)

	apply(&out.PackageManager, u.PackageManager)
	applySlice(&out.SecondaryPackageManagers, u.SecondaryPackageManagers)
	apply(&out.AURHelper, u.AURHelper)

	apply(&out.Desktop, u.Desktop)
	apply(&out.DisplayServer, u.DisplayServer)
	apply(&out.DisplayManager, u.DisplayManager)

	apply(&out.InitSystem, u.InitSystem)
	apply(&out.Filesystem, u.Filesystem)

	apply(&out.BootType, u.BootType)
	apply(&out.BootMode, u.BootMode)
	apply(&out.Bootloader, u.Bootloader)

	if h := u.Hardware; !h.IsZero() {
		apply(&out.Hardware.GPUVendor, h.GPUVendor)
		apply(&out.Hardware.GPUDriver, h.GPUDriver)
		apply(&out.Hardware.CPUVendor, h.CPUVendor)
		apply(&out.Hardware.CPUArch, h.CPUArch)
		apply(&out.Hardware.FormFactor, h.FormFactor)
		apply(&out.Hardware.HasTouchscreen, h.HasTouchscreen)
		apply(&out.Hardware.HasSecureBoot, h.HasSecureBoot)
		apply(&out.Hardware.HasTPM, h.HasTPM)
		apply(&out.Hardware.RAMGB, h.RAMGB)
		apply(&out.Hardware.StorageType, h.StorageType)
	}

	apply(&out.Shell, u.Shell)
	apply(&out.Terminal, u.Terminal)

	apply(&out.AudioSystem, u.AudioSystem)
	apply(&out.NetworkManager, u.NetworkManager)
	apply(&out.Firewall, u.Firewall)

	apply(&out.ContainerRuntime, u.ContainerRuntime)

	apply(&out.ExperienceLevel, u.ExperienceLevel)
	apply(&out.PrimaryUseCase, u.PrimaryUseCase)
	applySlice(&out.PreferredEditors, u.PreferredEditors)

	out.UpdatedAt = now
	return out
}

func apply[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func applySlice(dst *[]string, src *[]string) {
	if src != nil {
		*dst = append([]string{}, *src...)
	}
}

// clone returns a deep copy of p so callers can hand out profiles without
// sharing slice backing arrays.
func clone(p Profile) Profile {
	c := p
	c.SecondaryPackageManagers = append([]string{}, p.SecondaryPackageManagers...)
	c.PreferredEditors = append([]string{}, p.PreferredEditors...)
	return c
}
