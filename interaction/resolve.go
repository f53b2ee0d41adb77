// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package interaction

import "strings"

// secondarySuffix is appended to the base asset id to address the
// crystal board in the fleet API.
const secondarySuffix = "-crystal"

// BaseAssetID strips the secondary-machine suffix from an asset id,
// yielding the id the primary machine is addressed at.
func BaseAssetID(assetID string) string {
	return strings.TrimSuffix(assetID, secondarySuffix)
}

// ResolveTargets derives the ordered list of machine targets for one
// submitted form. A requested machine produces a target only when the
// asset actually carries it. When no requested machine survives, a
// single MachineNone target addressed at the asset's own id is
// emitted so every submission results in at least one outbound call.
// Targets whose resolved id is empty are dropped.
//
// Zero-capability assets are not an error: the caller observes the
// fallback target and the fleet API decides what to do with it.
func ResolveTargets(asset Asset, primaryRequested, secondaryRequested bool) []MachineTarget {
	baseID := BaseAssetID(asset.ID)

	var targets []MachineTarget
	if primaryRequested && asset.Primary {
		targets = append(targets, MachineTarget{AssetID: baseID, Machine: MachinePrimary})
	}
	if secondaryRequested && asset.Secondary {
		targets = append(targets, MachineTarget{AssetID: baseID + secondarySuffix, Machine: MachineSecondary})
	}
	if len(targets) == 0 {
		targets = append(targets, MachineTarget{AssetID: asset.ID, Machine: MachineNone})
	}

	resolved := targets[:0]
	for _, target := range targets {
		if target.AssetID == "" || target.AssetID == secondarySuffix {
			continue
		}
		resolved = append(resolved, target)
	}
	return resolved
}
