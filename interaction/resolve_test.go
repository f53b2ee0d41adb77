// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package interaction

import (
	"reflect"
	"testing"
)

func TestResolveTargets(t *testing.T) {
	bothCapable := Asset{ID: "sg-101", Label: "sg-101", Primary: true, Secondary: true}

	tests := []struct {
		name      string
		asset     Asset
		primary   bool
		secondary bool
		want      []MachineTarget
	}{
		{
			name:      "both_requested_both_capable",
			asset:     bothCapable,
			primary:   true,
			secondary: true,
			want: []MachineTarget{
				{AssetID: "sg-101", Machine: MachinePrimary},
				{AssetID: "sg-101-crystal", Machine: MachineSecondary},
			},
		},
		{
			name:    "primary_only",
			asset:   bothCapable,
			primary: true,
			want:    []MachineTarget{{AssetID: "sg-101", Machine: MachinePrimary}},
		},
		{
			name:      "secondary_only",
			asset:     bothCapable,
			secondary: true,
			want:      []MachineTarget{{AssetID: "sg-101-crystal", Machine: MachineSecondary}},
		},
		{
			name:  "nothing_requested_falls_back",
			asset: bothCapable,
			want:  []MachineTarget{{AssetID: "sg-101", Machine: MachineNone}},
		},
		{
			name:      "requested_but_not_capable",
			asset:     Asset{ID: "by-7", Label: "by-7"},
			primary:   true,
			secondary: true,
			want:      []MachineTarget{{AssetID: "by-7", Machine: MachineNone}},
		},
		{
			name:      "secondary_suffix_already_present",
			asset:     Asset{ID: "sg-101-crystal", Primary: true, Secondary: true},
			primary:   true,
			secondary: true,
			want: []MachineTarget{
				{AssetID: "sg-101", Machine: MachinePrimary},
				{AssetID: "sg-101-crystal", Machine: MachineSecondary},
			},
		},
		{
			name:  "empty_asset_id_drops_everything",
			asset: Asset{},
			want:  []MachineTarget{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := ResolveTargets(test.asset, test.primary, test.secondary)
			if len(got) == 0 && len(test.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("ResolveTargets() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestBaseAssetID(t *testing.T) {
	if got := BaseAssetID("sg-101-crystal"); got != "sg-101" {
		t.Errorf("BaseAssetID(sg-101-crystal) = %q, want sg-101", got)
	}
	if got := BaseAssetID("sg-101"); got != "sg-101" {
		t.Errorf("BaseAssetID(sg-101) = %q, want sg-101", got)
	}
}
