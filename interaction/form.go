// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package interaction

// FormAvailability describes the machine checkbox group for one
// selected asset: which options are selectable, which start selected,
// and the explanatory note shown when capabilities are missing.
type FormAvailability struct {
	// Options are the selectable machines, primary first. Empty when
	// the asset has no machine capabilities; the form renders Note
	// in place of the checkbox group.
	Options []Machine

	// Initial is the starting selection. Prior selections survive
	// only while still valid for the asset; otherwise every
	// available option is selected.
	Initial []Machine

	// Note explains missing capabilities, or is empty when both
	// machines are available.
	Note string
}

// MachineOptions computes form availability for an asset, carrying
// over any still-valid prior selection from a reopened form. This is
// the whole state machine behind the machine checkbox group: changing
// the selected asset recomputes availability and resets selections
// that the new asset cannot honor.
func MachineOptions(asset Asset, prior []Machine) FormAvailability {
	var availability FormAvailability

	if asset.Primary {
		availability.Options = append(availability.Options, MachinePrimary)
	}
	if asset.Secondary {
		availability.Options = append(availability.Options, MachineSecondary)
	}

	for _, machine := range prior {
		if containsMachine(availability.Options, machine) {
			availability.Initial = append(availability.Initial, machine)
		}
	}
	if len(availability.Initial) == 0 {
		availability.Initial = availability.Options
	}

	switch {
	case !asset.Primary && !asset.Secondary:
		availability.Note = "crystal / imx8 not available for this asset."
	case !asset.Primary:
		availability.Note = "imx8 not available for this asset."
	case !asset.Secondary:
		availability.Note = "crystal not available for this asset."
	}

	return availability
}

func containsMachine(machines []Machine, machine Machine) bool {
	for _, candidate := range machines {
		if candidate == machine {
			return true
		}
	}
	return false
}
