// Package module implements the per-target module specification (C6):
// the artifact list, vars, opaque workflows, and localize settings for
// one {arch, os, runtime} target of a named module.
package module

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Arch is the CPU architecture axis of a target Model.
type Arch string

const (
	ArchX86 Arch = "x86"
	ArchARM Arch = "arm"
)

// OS is the operating-system axis of a target Model.
type OS string

const (
	OSMac14  OS = "mac14"
	OSUbt22  OS = "ubt22"
)

// Runtime is the execution-environment axis of a target Model.
type Runtime string

const (
	RuntimeHost Runtime = "host"
	RuntimeK8s  Runtime = "k8s"
)

// Model is the triple {arch, os, runtime} identifying a module variant,
// serialized as "<arch>-<os>-<runtime>" and used directly as the
// on-disk directory name under mod/ (spec.md §3).
type Model struct {
	Arch    Arch
	OS      OS
	Runtime Runtime
}

func (m Model) String() string {
	return fmt.Sprintf("%s-%s-%s", m.Arch, m.OS, m.Runtime)
}

// ParseModel parses a "<arch>-<os>-<runtime>" directory name back into
// a Model.
func ParseModel(s string) (Model, error) {
	parts := strings.SplitN(s, "-", 3)
	if len(parts) != 3 {
		return Model{}, fmt.Errorf("invalid target model %q: want <arch>-<os>-<runtime>", s)
	}
	return Model{Arch: Arch(parts[0]), OS: OS(parts[1]), Runtime: Runtime(parts[2])}, nil
}

// MarshalJSON encodes a Model as its "<arch>-<os>-<runtime>" string, so
// a mods.yml entry's model field reads the same as a mod/ directory
// name.
func (m Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON parses a Model from its string form.
func (m *Model) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseModel(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
