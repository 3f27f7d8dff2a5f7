// Package project implements operations-project orchestration (C8):
// the workspace root that imports system packages, holds operator
// values, and drives update/localize across everything beneath it.
package project

import (
	"github.com/galaxy-sec/galaxy-ops/pkg/depend"
	"github.com/galaxy-sec/galaxy-ops/pkg/system"
)

// Conf is the on-disk project config: {name, system-refs, work-env
// deps} — ops-prj.yml's shape (spec.md §3 Project).
type Conf struct {
	Name     string        `json:"name"`
	Systems  []*system.Ref `json:"systems"`
	WorkEnvs depend.Set    `json:"work_envs"`
}

// NewConf returns a project config named name with no systems and an
// empty work-env dependency set.
func NewConf(name string) Conf {
	return Conf{Name: name}
}
