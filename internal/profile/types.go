// Package profile holds the persistent record of a user's Linux environment
// and the pure merge semantics applied to it on every conversation turn.
package profile

import "time"

// Unknown is the sentinel value for fields that have not been observed yet.
// Extraction does not validate against known vocabularies, so any normalized
// string may replace it.
const Unknown = "unknown"

// Experience levels. New profiles start at the most cautious tier.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Profile is the long-lived per-conversation record of the user's Linux
// setup. String fields are stored lower-cased; slice fields keep their
// extraction order and contain no duplicates.
type Profile struct {
	Distro         string `json:"distro"`
	DistroVersion  string `json:"distroVersion"`
	DistroCodename string `json:"distroCodename"`
	DistroBase     string `json:"distroBase"`
	ReleaseType    string `json:"releaseType"`

	PackageManager           string   `json:"packageManager"`
	SecondaryPackageManagers []string `json:"secondaryPackageManagers"`
	AURHelper                string   `json:"aurHelper"`

	Desktop        string `json:"desktop"`
	DisplayServer  string `json:"displayServer"`
	DisplayManager string `json:"displayManager"`

	InitSystem string `json:"initSystem"`
	Filesystem string `json:"filesystem"`

	BootType   string `json:"bootType"`
	BootMode   string `json:"bootMode"`
	Bootloader string `json:"bootloader"`

	Hardware Hardware `json:"hardware"`

	Shell    string `json:"shell"`
	Terminal string `json:"terminal"`

	AudioSystem    string `json:"audioSystem"`
	NetworkManager string `json:"networkManager"`
	Firewall       string `json:"firewall"`

	ContainerRuntime string `json:"containerRuntime"`

	ExperienceLevel  string   `json:"experienceLevel"`
	PrimaryUseCase   string   `json:"primaryUseCase"`
	PreferredEditors []string `json:"preferredEditors"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Hardware is the nested hardware sub-record. Merge applies it key-by-key,
// never wholesale.
type Hardware struct {
	GPUVendor      string `json:"gpuVendor"`
	GPUDriver      string `json:"gpuDriver"`
	CPUVendor      string `json:"cpuVendor"`
	CPUArch        string `json:"cpuArch"`
	FormFactor     string `json:"formFactor"`
	HasTouchscreen bool   `json:"hasTouchscreen"`
	HasSecureBoot  bool   `json:"hasSecureBoot"`
	HasTPM         bool   `json:"hasTpm"`
	RAMGB          int    `json:"ramGB"`
	StorageType    string `json:"storageType"`
}

// Update is a partial Profile: Merge applies only the non-nil fields.
// Updates never carry timestamps; Merge owns those.
type Update struct {
	Distro         *string
	DistroVersion  *string
	DistroCodename *string
	DistroBase     *string
	ReleaseType    *string

	PackageManager           *string
	SecondaryPackageManagers *[]string
	AURHelper                *string

	Desktop        *string
	DisplayServer  *string
	DisplayManager *string

	InitSystem *string
	Filesystem *string

	BootType   *string
	BootMode   *string
	Bootloader *string

	Hardware *HardwareUpdate

	Shell    *string
	Terminal *string

	AudioSystem    *string
	NetworkManager *string
	Firewall       *string

	ContainerRuntime *string

	ExperienceLevel  *string
	PrimaryUseCase   *string
	PreferredEditors *[]string
}

// HardwareUpdate is a partial Hardware record.
type HardwareUpdate struct {
	GPUVendor      *string
	GPUDriver      *string
	CPUVendor      *string
	CPUArch        *string
	FormFactor     *string
	HasTouchscreen *bool
	HasSecureBoot  *bool
	HasTPM         *bool
	RAMGB          *int
	StorageType    *string
}

// IsZero reports whether the update carries no field at all. Callers skip
// the merge for zero updates so UpdatedAt is never bumped spuriously.
func (u *Update) IsZero() bool {
	if u == nil {
		return true
	}
	if !u.Hardware.IsZero() {
		return false
	}
	c := *u
	c.Hardware = nil
	return c == (Update{})
}

// IsZero reports whether the hardware update carries no field.
func (h *HardwareUpdate) IsZero() bool {
	return h == nil || *h == (HardwareUpdate{})
}
