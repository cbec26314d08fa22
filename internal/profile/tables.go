package profile

import "strings"

// Static distro knowledge. Keys are normalized (lower-cased, trimmed)
// distribution names as users tend to write them, including common aliases.
// Names missing from a map resolve to Unknown for that field independently.

var distroPackageManager = map[string]string{
	// Debian family
	"debian": "apt", "ubuntu": "apt", "linux mint": "apt", "mint": "apt",
	"lmde": "apt", "pop!_os": "apt", "pop os": "apt", "popos": "apt", "pop": "apt",
	"elementary": "apt", "elementary os": "apt", "zorin": "apt", "zorin os": "apt",
	"kali": "apt", "kali linux": "apt", "parrot": "apt", "parrot os": "apt",
	"mx": "apt", "mx linux": "apt", "antix": "apt", "deepin": "apt",
	"devuan": "apt", "sparky": "apt", "sparkylinux": "apt", "peppermint": "apt",
	"bodhi": "apt", "q4os": "apt", "knoppix": "apt", "tails": "apt",
	"pureos": "apt", "raspberry pi os": "apt", "raspbian": "apt",
	"armbian": "apt", "dietpi": "apt", "proxmox": "apt",
	"kubuntu": "apt", "xubuntu": "apt", "lubuntu": "apt",
	"ubuntu mate": "apt", "ubuntu budgie": "apt", "ubuntu studio": "apt",
	"ubuntu unity": "apt", "ubuntu cinnamon": "apt", "ubuntu server": "apt",
	"neon": "apt", "kde neon": "apt", "regolith": "apt",
	"feren": "apt", "feren os": "apt", "nitrux": "apt",
	"spiral": "apt", "spiral linux": "apt",

	// Fedora / RHEL family
	"fedora": "dnf", "fedora workstation": "dnf", "fedora server": "dnf",
	"fedora kde": "dnf", "fedora silverblue": "rpm-ostree", "silverblue": "rpm-ostree",
	"fedora kinoite": "dnf", "kinoite": "rpm-ostree", "fedora coreos": "rpm-ostree",
	"rhel": "dnf", "red hat": "dnf", "red hat enterprise linux": "dnf",
	"centos": "dnf", "centos stream": "dnf", "rocky": "dnf", "rocky linux": "dnf",
	"alma": "dnf", "almalinux": "dnf", "oracle": "dnf", "oracle linux": "dnf",
	"scientific": "dnf", "amazon linux": "dnf", "nobara": "dnf",
	"ultramarine": "dnf", "qubes": "dnf", "qubes os": "dnf",
	"mageia": "urpmi", "openmandriva": "dnf", "pclinuxos": "apt", "rosa": "urpmi",

	// Arch family
	"arch": "pacman", "arch linux": "pacman", "archlinux": "pacman",
	"manjaro": "pacman", "endeavouros": "pacman", "endeavour": "pacman",
	"garuda": "pacman", "garuda linux": "pacman", "arcolinux": "pacman",
	"arco": "pacman", "artix": "pacman", "artix linux": "pacman",
	"parabola": "pacman", "hyperbola": "pacman", "archcraft": "pacman",
	"rebornos": "pacman", "cachyos": "pacman", "xerolinux": "pacman",
	"mabox": "pacman", "steamos": "pacman", "steam os": "pacman",
	"steamdeck": "pacman", "steam deck": "pacman",

	// SUSE family
	"opensuse": "zypper", "suse": "zypper",
	"opensuse tumbleweed": "zypper", "tumbleweed": "zypper",
	"opensuse leap": "zypper", "leap": "zypper",
	"opensuse microos": "transactional-update", "microos": "transactional-update",
	"sles": "zypper", "geckolinux": "zypper",

	// Gentoo family
	"gentoo": "emerge", "funtoo": "emerge", "calculate": "emerge",
	"calculate linux": "emerge", "sabayon": "equo", "mocaccino": "emerge",
	"redcore": "emerge", "pentoo": "emerge",

	// Slackware family
	"slackware": "slackpkg", "salix": "slapt-get", "slackel": "slapt-get",
	"zenwalk": "slapt-get", "porteus": "slackpkg", "slax": "slackpkg",

	// Independent
	"void": "xbps", "void linux": "xbps",
	"alpine": "apk", "alpine linux": "apk", "postmarketos": "apk",
	"nixos": "nix", "nix": "nix", "guix": "guix", "gnu guix": "guix",
	"solus": "eopkg", "clear": "swupd", "clear linux": "swupd",
	"puppy": "petget", "puppy linux": "petget", "tinycore": "tce-load",
	"crux": "prt-get", "kiss": "kiss", "chimera": "apk", "chimera linux": "apk",

	// Immutable
	"vanilla": "abroot", "vanilla os": "abroot", "blendos": "blend",
	"endless": "flatpak", "endless os": "flatpak",

	// Special purpose
	"termux": "apt", "wsl": "apt", "wsl2": "apt",
}

var distroBase = map[string]string{
	// Debian family
	"debian": "debian", "ubuntu": "ubuntu", "linux mint": "ubuntu", "mint": "ubuntu",
	"lmde": "debian", "pop!_os": "ubuntu", "pop os": "ubuntu", "popos": "ubuntu",
	"pop": "ubuntu", "elementary": "ubuntu", "elementary os": "ubuntu",
	"zorin": "ubuntu", "zorin os": "ubuntu", "kali": "debian", "kali linux": "debian",
	"parrot": "debian", "parrot os": "debian", "mx": "debian", "mx linux": "debian",
	"antix": "debian", "deepin": "debian", "devuan": "debian",
	"sparky": "debian", "sparkylinux": "debian", "peppermint": "debian",
	"bodhi": "ubuntu", "q4os": "debian", "knoppix": "debian", "tails": "debian",
	"pureos": "debian", "raspberry pi os": "debian", "raspbian": "debian",
	"armbian": "debian", "dietpi": "debian", "proxmox": "debian",
	"kubuntu": "ubuntu", "xubuntu": "ubuntu", "lubuntu": "ubuntu",
	"ubuntu mate": "ubuntu", "ubuntu budgie": "ubuntu", "ubuntu studio": "ubuntu",
	"ubuntu unity": "ubuntu", "neon": "ubuntu", "kde neon": "ubuntu",
	"regolith": "ubuntu", "feren": "ubuntu", "feren os": "ubuntu",
	"nitrux": "ubuntu", "spiral": "debian", "spiral linux": "debian",

	// Fedora / RHEL family
	"fedora": "fedora", "fedora workstation": "fedora", "fedora server": "fedora",
	"fedora silverblue": "immutable", "silverblue": "immutable",
	"fedora kinoite": "immutable", "kinoite": "immutable",
	"rhel": "rhel", "red hat": "rhel", "red hat enterprise linux": "rhel",
	"centos": "rhel", "centos stream": "rhel", "rocky": "rhel", "rocky linux": "rhel",
	"alma": "rhel", "almalinux": "rhel", "oracle": "rhel", "oracle linux": "rhel",
	"scientific": "rhel", "amazon linux": "rhel", "nobara": "fedora",
	"ultramarine": "fedora", "qubes": "fedora", "qubes os": "fedora",
	"mageia": "mageia", "openmandriva": "fedora",

	// Arch family
	"arch": "arch", "arch linux": "arch", "archlinux": "arch",
	"manjaro": "arch", "endeavouros": "arch", "endeavour": "arch",
	"garuda": "arch", "garuda linux": "arch", "arcolinux": "arch", "arco": "arch",
	"artix": "arch", "artix linux": "arch", "parabola": "arch", "hyperbola": "arch",
	"archcraft": "arch", "rebornos": "arch", "cachyos": "arch", "xerolinux": "arch",
	"steamos": "steamdeck", "steam os": "steamdeck",
	"steamdeck": "steamdeck", "steam deck": "steamdeck",

	// SUSE family
	"opensuse": "suse", "suse": "suse",
	"opensuse tumbleweed": "suse", "tumbleweed": "suse",
	"opensuse leap": "suse", "leap": "suse",
	"opensuse microos": "immutable", "microos": "immutable",
	"sles": "suse", "geckolinux": "suse",

	// Gentoo family
	"gentoo": "gentoo", "funtoo": "gentoo", "calculate": "gentoo",
	"calculate linux": "gentoo", "sabayon": "gentoo", "mocaccino": "gentoo",
	"redcore": "gentoo", "pentoo": "gentoo",

	// Slackware family
	"slackware": "slackware", "salix": "slackware", "slackel": "slackware",
	"zenwalk": "slackware", "porteus": "slackware", "slax": "slackware",

	// Independent
	"void": "void", "void linux": "void",
	"alpine": "alpine", "alpine linux": "alpine", "postmarketos": "alpine",
	"nixos": "nixos", "nix": "nixos", "guix": "guix", "gnu guix": "guix",
	"solus": "solus", "clear": "clear", "clear linux": "clear",
	"puppy": "puppy", "puppy linux": "puppy", "tinycore": "tinycore",
	"chimera": "alpine", "chimera linux": "alpine",

	// Immutable
	"vanilla": "immutable", "vanilla os": "immutable", "blendos": "immutable",
	"endless": "immutable", "endless os": "immutable",
}

var distroInit = map[string]string{
	"ubuntu": "systemd", "debian": "systemd", "fedora": "systemd",
	"arch": "systemd", "manjaro": "systemd", "opensuse": "systemd",
	"rhel": "systemd", "centos": "systemd", "mint": "systemd",
	"pop os": "systemd", "elementary": "systemd", "zorin": "systemd",
	"kali": "systemd", "mx linux": "systemd", "endeavouros": "systemd",
	"garuda": "systemd", "solus": "systemd", "nixos": "systemd",

	"gentoo": "openrc", "alpine": "openrc", "artix": "openrc",
	"calculate": "openrc", "postmarketos": "openrc",

	"void": "runit", "void linux": "runit",

	"devuan": "sysvinit", "antix": "sysvinit", "slackware": "sysvinit",

	"guix": "shepherd", "gnu guix": "shepherd",
}

var distroDefaultDesktop = map[string]string{
	"ubuntu": "gnome", "fedora": "gnome", "fedora workstation": "gnome",
	"pop os": "gnome", "pop!_os": "gnome", "debian": "gnome",
	"rhel": "gnome", "centos": "gnome", "rocky": "gnome", "alma": "gnome",
	"zorin": "gnome",
	"elementary": "pantheon", "elementary os": "pantheon",
	"linux mint": "cinnamon", "mint": "cinnamon", "ubuntu cinnamon": "cinnamon",
	"kubuntu": "kde", "kde neon": "kde", "fedora kde": "kde",
	"opensuse": "kde", "garuda": "kde",
	"manjaro": "xfce", "xubuntu": "xfce", "mx linux": "xfce",
	"endeavouros": "xfce", "arcolinux": "xfce",
	"lubuntu": "lxqt",
	"solus": "budgie", "ubuntu budgie": "budgie",
	"ubuntu mate": "mate",
	"deepin": "deepin",
	"archcraft": "openbox", "mabox": "openbox",
	"regolith": "i3",
}

// PackageManagerFor returns the default package manager for a distro name,
// or Unknown when the name is not in the table.
func PackageManagerFor(distro string) string {
	return lookup(distroPackageManager, distro)
}

// BaseFor returns the base family a distro derives from.
func BaseFor(distro string) string {
	return lookup(distroBase, distro)
}

// InitSystemFor returns the init system a distro ships with.
func InitSystemFor(distro string) string {
	return lookup(distroInit, distro)
}

// DefaultDesktopFor returns the desktop environment a distro installs by
// default. Many distros offer several editions; the table records the
// flagship one.
func DefaultDesktopFor(distro string) string {
	return lookup(distroDefaultDesktop, distro)
}

func lookup(m map[string]string, distro string) string {
	if v, ok := m[strings.ToLower(strings.TrimSpace(distro))]; ok {
		return v
	}
	return Unknown
}

// InferFromDistro builds an update that sets the distro name plus every
// field the lookup tables can fill in from it. Each table is consulted
// independently, so a distro known to one table and not another yields a
// mix of concrete values and Unknown.
func InferFromDistro(distro string) Update {
	name := strings.ToLower(strings.TrimSpace(distro))
	return Update{
		Distro:         ptr(name),
		DistroBase:     ptr(BaseFor(name)),
		PackageManager: ptr(PackageManagerFor(name)),
		InitSystem:     ptr(InitSystemFor(name)),
		Desktop:        ptr(DefaultDesktopFor(name)),
	}
}

func ptr[T any](v T) *T { return &v }
