// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"encoding/json"
	"fmt"

	"github.com/seagrove-marine/dockbot/interaction"
	"github.com/seagrove-marine/dockbot/workspace"
)

// Form identifiers shared with the bot's view handlers. Like the
// message identifiers these are wire values.
const (
	SubmissionCallbackID = "uplogd-modal"
	GarageCallbackID     = "garage-mode-modal"

	AssetBlockID     = "asset_block"
	AssetActionID    = "asset_select"
	MachinesBlockID  = "machines_block"
	MachinesActionID = "machines_checkbox"
	OperationBlockID = "operation_block"
	OperationAction  = "operation_radio"

	// NoAssetValue is the placeholder option value rendered when the
	// inventory returned no assets. Submissions carrying it are
	// abandoned.
	NoAssetValue = "__no_asset__"
)

// Platform limits on select options and plain-text option labels.
const (
	maxSelectOptions = 100
	maxOptionText    = 75
)

// ModalParams carries everything a modal build needs. Prior selections
// come from the view state of a reopened or re-rendered form and
// survive only while still valid.
type ModalParams struct {
	OpenedBy        string
	Assets          []interaction.Asset
	SelectedAssetID string
	PriorMachines   []interaction.Machine
	PriorOperation  string
}

// ModalMetadata is the private metadata stored on an open view so a
// later submission or re-render knows who opened it and what was
// selected.
type ModalMetadata struct {
	OpenedBy string `json:"openedBy"`
	AssetID  string `json:"selectedAssetId,omitempty"`
}

// EncodeMetadata serializes view metadata.
func EncodeMetadata(meta ModalMetadata) string {
	data, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodeMetadata parses view metadata, tolerating absence.
func DecodeMetadata(raw string) ModalMetadata {
	var meta ModalMetadata
	if raw == "" {
		return meta
	}
	_ = json.Unmarshal([]byte(raw), &meta)
	return meta
}

// SubmissionModal builds the uplogd control form: asset select,
// machine checkboxes scoped to the selected asset's capabilities, and
// the operation radio group. Selecting an asset dispatches an action
// so the machine group can be recomputed.
func SubmissionModal(params ModalParams) workspace.View {
	view := workspace.View{
		Type:            "modal",
		CallbackID:      SubmissionCallbackID,
		Title:           plainPtr("uplogd Control"),
		Submit:          plainPtr("Submit"),
		Close:           plainPtr("Cancel"),
		PrivateMetadata: EncodeMetadata(ModalMetadata{OpenedBy: params.OpenedBy, AssetID: params.SelectedAssetID}),
	}

	view.Blocks = append(view.Blocks, assetSelectBlock(params))
	view.Blocks = append(view.Blocks, machineBlocks(params)...)
	view.Blocks = append(view.Blocks, operationBlock("Operation", params.PriorOperation,
		workspace.Option{Text: workspace.PlainText("Start"), Value: "start"},
		workspace.Option{Text: workspace.PlainText("Stop"), Value: "stop"},
		workspace.Option{Text: workspace.PlainText("Restart"), Value: "restart"},
	))
	return view
}

// GarageModal builds the garage mode form. Garage operations address
// the asset itself, so there is no machine group.
func GarageModal(params ModalParams) workspace.View {
	view := workspace.View{
		Type:            "modal",
		CallbackID:      GarageCallbackID,
		Title:           plainPtr("Garage Mode"),
		Submit:          plainPtr("Submit"),
		Close:           plainPtr("Cancel"),
		PrivateMetadata: EncodeMetadata(ModalMetadata{OpenedBy: params.OpenedBy, AssetID: params.SelectedAssetID}),
	}

	view.Blocks = append(view.Blocks, assetSelectBlock(params))
	view.Blocks = append(view.Blocks, operationBlock("Action", params.PriorOperation,
		workspace.Option{Text: workspace.PlainText("Enter Garage Mode"), Value: "enter"},
		workspace.Option{Text: workspace.PlainText("Exit Garage Mode"), Value: "exit"},
		workspace.Option{Text: workspace.PlainText("Status Check"), Value: "status"},
	))
	return view
}

// ErrorModal builds the modal shown when a flow cannot start.
func ErrorModal(message string) workspace.View {
	return workspace.View{
		Type:   "modal",
		Title:  plainPtr("Error"),
		Close:  plainPtr("Close"),
		Blocks: []workspace.Block{workspace.Section(":warning: " + message)},
	}
}

func assetSelectBlock(params ModalParams) workspace.Block {
	options := assetOptions(params.Assets)
	placeholder := workspace.PlainText("Select an asset")
	element := workspace.Element{
		Type:        "static_select",
		ActionID:    AssetActionID,
		Placeholder: &placeholder,
		Options:     options,
	}
	for i, option := range options {
		if params.SelectedAssetID != "" && option.Value == params.SelectedAssetID {
			element.InitialOption = &options[i]
			break
		}
	}

	label := workspace.PlainText("Asset")
	return workspace.Block{
		Type:           "input",
		BlockID:        AssetBlockID,
		Label:          &label,
		Element:        &element,
		DispatchAction: true,
	}
}

// assetOptions renders the inventory as select options. An empty
// inventory still produces one placeholder option so the form stays
// valid and the submission handler can abandon cleanly.
func assetOptions(assets []interaction.Asset) []workspace.Option {
	if len(assets) == 0 {
		return []workspace.Option{{
			Text:  workspace.PlainText("No assets available"),
			Value: NoAssetValue,
		}}
	}

	if len(assets) > maxSelectOptions {
		assets = assets[:maxSelectOptions]
	}
	options := make([]workspace.Option, 0, len(assets))
	for _, asset := range assets {
		options = append(options, workspace.Option{
			Text:  workspace.PlainText(assetOptionText(asset)),
			Value: asset.ID,
		})
	}
	return options
}

func assetOptionText(asset interaction.Asset) string {
	text := asset.Label
	if text == "" {
		text = asset.ID
	}
	if asset.LastAuto != "" {
		text = fmt.Sprintf("%s | %s", text, asset.LastAuto)
	}
	if len(text) > maxOptionText {
		text = text[:maxOptionText-3] + "..."
	}
	return text
}

// machineBlocks renders the machine checkbox group for the selected
// asset, or the availability note when the asset carries no machines.
// No asset selected yet means no machine group at all.
func machineBlocks(params ModalParams) []workspace.Block {
	asset, ok := findAsset(params.Assets, params.SelectedAssetID)
	if !ok {
		return nil
	}

	availability := interaction.MachineOptions(asset, params.PriorMachines)
	if len(availability.Options) == 0 {
		return []workspace.Block{workspace.ContextNote("_" + availability.Note + "_")}
	}

	options := make([]workspace.Option, 0, len(availability.Options))
	for _, machine := range availability.Options {
		options = append(options, machineOption(machine))
	}
	initial := make([]workspace.Option, 0, len(availability.Initial))
	for _, machine := range availability.Initial {
		initial = append(initial, machineOption(machine))
	}

	label := workspace.PlainText("Machines")
	blocks := []workspace.Block{{
		Type:     "input",
		BlockID:  MachinesBlockID,
		Label:    &label,
		Optional: true,
		Element: &workspace.Element{
			Type:           "checkboxes",
			ActionID:       MachinesActionID,
			Options:        options,
			InitialOptions: initial,
		},
	}}
	if availability.Note != "" {
		blocks = append(blocks, workspace.ContextNote("_"+availability.Note+"_"))
	}
	return blocks
}

func machineOption(machine interaction.Machine) workspace.Option {
	return workspace.Option{
		Text:  workspace.PlainText(string(machine)),
		Value: string(machine),
	}
}

func operationBlock(label, prior string, options ...workspace.Option) workspace.Block {
	element := workspace.Element{
		Type:     "radio_buttons",
		ActionID: OperationAction,
		Options:  options,
	}
	for i, option := range options {
		if prior != "" && option.Value == prior {
			element.InitialOption = &options[i]
			break
		}
	}

	text := workspace.PlainText(label)
	return workspace.Block{
		Type:    "input",
		BlockID: OperationBlockID,
		Label:   &text,
		Element: &element,
	}
}

func findAsset(assets []interaction.Asset, id string) (interaction.Asset, bool) {
	for _, asset := range assets {
		if asset.ID == id {
			return asset, true
		}
	}
	return interaction.Asset{}, false
}

func plainPtr(text string) *workspace.TextObject {
	object := workspace.PlainText(text)
	return &object
}
