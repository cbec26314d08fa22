package profile

import (
	"fmt"
	"strings"
)

// ForPrompt renders the profile as the system-context block handed to the
// model. Fields still at their sentinel are omitted so the model never sees
// "unknown" values it might echo back.
func (p Profile) ForPrompt() string {
	lines := []string{"User's Linux System Context:"}

	if p.Distro != Unknown {
		l := "- Distribution: " + p.Distro
		if p.DistroVersion != Unknown {
			l += " " + p.DistroVersion
		}
		l += fmt.Sprintf(" (%s family)", p.DistroBase)
		lines = append(lines, l)
	}
	if p.PackageManager != Unknown {
		l := "- Package Manager: " + p.PackageManager
		if p.AURHelper != Unknown && p.AURHelper != "" {
			l += " with AUR helper: " + p.AURHelper
		}
		lines = append(lines, l)
	}
	if len(p.SecondaryPackageManagers) > 0 {
		lines = append(lines, "- Also uses: "+strings.Join(p.SecondaryPackageManagers, ", "))
	}
	if p.Desktop != Unknown {
		server := p.DisplayServer
		if server == Unknown {
			server = "unknown display server"
		}
		lines = append(lines, fmt.Sprintf("- Desktop: %s on %s", p.Desktop, server))
	}
	if p.InitSystem != Unknown {
		lines = append(lines, "- Init System: "+p.InitSystem)
	}
	if p.BootType != Unknown {
		l := "- Boot Type: " + p.BootType
		if p.BootMode != Unknown {
			l += fmt.Sprintf(" (%s)", p.BootMode)
		}
		lines = append(lines, l)
	}
	if p.Hardware.GPUVendor != Unknown {
		l := "- GPU: " + p.Hardware.GPUVendor
		if p.Hardware.GPUDriver != Unknown {
			l += fmt.Sprintf(" (%s driver)", p.Hardware.GPUDriver)
		}
		lines = append(lines, l)
	}
	if p.Hardware.CPUVendor != Unknown {
		l := "- CPU: " + p.Hardware.CPUVendor
		if p.Hardware.CPUArch != Unknown {
			l += " " + p.Hardware.CPUArch
		}
		lines = append(lines, l)
	}
	if p.Hardware.FormFactor != Unknown {
		l := "- Form Factor: " + p.Hardware.FormFactor
		if p.Hardware.HasTouchscreen {
			l += " with touchscreen"
		}
		lines = append(lines, l)
	}
	if p.Shell != Unknown {
		l := "- Shell: " + p.Shell
		if p.Terminal != Unknown {
			l += " in " + p.Terminal
		}
		lines = append(lines, l)
	}
	if p.AudioSystem != Unknown {
		lines = append(lines, "- Audio: "+p.AudioSystem)
	}
	if p.ContainerRuntime != Unknown && p.ContainerRuntime != "none" {
		lines = append(lines, "- Containers: "+p.ContainerRuntime)
	}
	lines = append(lines, "- Experience Level: "+p.ExperienceLevel)
	lines = append(lines, "- Primary Use Case: "+p.PrimaryUseCase)
	if len(p.PreferredEditors) > 0 {
		lines = append(lines, "- Preferred Editors: "+strings.Join(p.PreferredEditors, ", "))
	}

	return strings.Join(lines, "\n")
}

// ForDisplay renders the profile as the markdown card shown to the user by
// the //profile command.
func (p Profile) ForDisplay() string {
	var parts []string

	if p.Distro != Unknown {
		s := p.Distro
		if p.DistroVersion != Unknown {
			s += " " + p.DistroVersion
		}
		if p.DistroCodename != Unknown {
			s += fmt.Sprintf(" (%s)", p.DistroCodename)
		}
		parts = append(parts, "**Distro:** "+s)
	}
	if p.PackageManager != Unknown {
		s := p.PackageManager
		if len(p.SecondaryPackageManagers) > 0 {
			s += " + " + strings.Join(p.SecondaryPackageManagers, ", ")
		}
		parts = append(parts, "**Package Manager:** "+s)
	}
	if p.Desktop != Unknown {
		s := strings.ToUpper(p.Desktop)
		if p.DisplayServer != Unknown {
			s += fmt.Sprintf(" (%s)", p.DisplayServer)
		}
		parts = append(parts, "**Desktop:** "+s)
	}
	if p.BootType != Unknown {
		s := p.BootType
		if p.BootMode != Unknown {
			s += " / " + p.BootMode
		}
		parts = append(parts, "**Boot:** "+s)
	}
	if p.Hardware.GPUVendor != Unknown {
		s := "GPU: " + strings.ToUpper(p.Hardware.GPUVendor)
		if p.Hardware.CPUVendor != Unknown {
			s += ", CPU: " + strings.ToUpper(p.Hardware.CPUVendor)
		}
		if p.Hardware.FormFactor != Unknown {
			s += fmt.Sprintf(" (%s)", p.Hardware.FormFactor)
		}
		parts = append(parts, "**Hardware:** "+s)
	}
	if p.Shell != Unknown {
		parts = append(parts, "**Shell:** "+p.Shell)
	}
	if p.InitSystem != Unknown {
		parts = append(parts, "**Init:** "+p.InitSystem)
	}
	parts = append(parts, "**Level:** "+p.ExperienceLevel)
	if p.PrimaryUseCase != "desktop-general" {
		parts = append(parts, "**Use:** "+p.PrimaryUseCase)
	}

	return strings.Join(parts, "\n")
}

// Compact renders a one-line summary suitable for headers and status output.
func (p Profile) Compact() string {
	var parts []string
	if p.Distro != Unknown {
		s := p.Distro
		if p.DistroVersion != Unknown {
			s += " " + p.DistroVersion
		}
		parts = append(parts, s)
	}
	if p.PackageManager != Unknown {
		parts = append(parts, p.PackageManager)
	}
	if p.Desktop != Unknown && p.Desktop != "none" {
		parts = append(parts, p.Desktop)
	}
	if p.Hardware.GPUVendor != Unknown {
		parts = append(parts, p.Hardware.GPUVendor)
	}
	parts = append(parts, p.ExperienceLevel)
	return strings.Join(parts, " • ")
}
