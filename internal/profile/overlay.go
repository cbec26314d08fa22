package profile

// Overlay merges the set fields of src on top of dst and returns the
// result, using the same field-level semantics as Merge: a field src
// carries overrides the one dst carries, fields src omits keep dst's
// value, and hardware is combined key-by-key. Extraction rules use this
// to accumulate their per-rule outputs into one Update.
func Overlay(dst, src Update) Update {
	out := dst

	pick(&out.Distro, src.Distro)
	pick(&out.DistroVersion, src.DistroVersion)
	pick(&out.DistroCodename, src.DistroCodename)
	pick(&out.DistroBase, src.DistroBase)
	pick(&out.ReleaseType, src.ReleaseType)

	pick(&out.PackageManager, src.PackageManager)
	pick(&out.SecondaryPackageManagers, src.SecondaryPackageManagers)
	pick(&out.AURHelper, src.AURHelper)

	pick(&out.Desktop, src.Desktop)
	pick(&out.DisplayServer, src.DisplayServer)
	pick(&out.DisplayManager, src.DisplayManager)

	pick(&out.InitSystem, src.InitSystem)
	pick(&out.Filesystem, src.Filesystem)

	pick(&out.BootType, src.BootType)
	pick(&out.BootMode, src.BootMode)
	pick(&out.Bootloader, src.Bootloader)

	if !src.Hardware.IsZero() {
		if out.Hardware == nil {
			h := *src.Hardware
			out.Hardware = &h
		} else {
			h := *out.Hardware
			pick(&h.GPUVendor, src.Hardware.GPUVendor)
			pick(&h.GPUDriver, src.Hardware.GPUDriver)
			pick(&h.CPUVendor, src.Hardware.CPUVendor)
			pick(&h.CPUArch, src.Hardware.CPUArch)
			pick(&h.FormFactor, src.Hardware.FormFactor)
			pick(&h.HasTouchscreen, src.Hardware.HasTouchscreen)
			pick(&h.HasSecureBoot, src.Hardware.HasSecureBoot)
			pick(&h.HasTPM, src.Hardware.HasTPM)
			pick(&h.RAMGB, src.Hardware.RAMGB)
			pick(&h.StorageType, src.Hardware.StorageType)
			out.Hardware = &h
		}
	}

	pick(&out.Shell, src.Shell)
	pick(&out.Terminal, src.Terminal)

	pick(&out.AudioSystem, src.AudioSystem)
	pick(&out.NetworkManager, src.NetworkManager)
	pick(&out.Firewall, src.Firewall)

	pick(&out.ContainerRuntime, src.ContainerRuntime)

	pick(&out.ExperienceLevel, src.ExperienceLevel)
	pick(&out.PrimaryUseCase, src.PrimaryUseCase)
	pick(&out.PreferredEditors, src.PreferredEditors)

	return out
}

func pick[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}
