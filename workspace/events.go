// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

// Interaction payload types delivered to the interactivity webhook.
const (
	InteractionShortcut       = "shortcut"
	InteractionBlockActions   = "block_actions"
	InteractionViewSubmission = "view_submission"
)

// InteractionPayload is the decoded form of one interactivity event.
// Only the fields dockbot consumes are modeled; unknown fields are
// ignored at decode time.
type InteractionPayload struct {
	Type       string      `json:"type"`
	CallbackID string      `json:"callback_id,omitempty"` // shortcuts only
	TriggerID  string      `json:"trigger_id,omitempty"`
	User       EventUser   `json:"user"`
	Team       EventTeam   `json:"team"`
	View       *ViewInfo   `json:"view,omitempty"`
	Actions    []ActionRef `json:"actions,omitempty"`
	Container  Container   `json:"container,omitempty"`
	Channel    ChannelRef  `json:"channel,omitempty"`
	MessageRef *MessageRef `json:"message,omitempty"`

	// ResponseURL allows replying to the interaction without the Web
	// API. Pre-authenticated and short-lived.
	ResponseURL string `json:"response_url,omitempty"`
}

// EventUser identifies the interacting user.
type EventUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	RealName string `json:"real_name"`
}

// EventTeam identifies the workspace.
type EventTeam struct {
	ID string `json:"id"`
}

// ActionRef is one activated interactive element.
type ActionRef struct {
	ActionID       string  `json:"action_id"`
	BlockID        string  `json:"block_id"`
	Value          string  `json:"value,omitempty"`
	SelectedOption *Option `json:"selected_option,omitempty"`
}

// Container locates the surface an interaction originated from.
type Container struct {
	ChannelID string `json:"channel_id,omitempty"`
	MessageTS string `json:"message_ts,omitempty"`
}

// ChannelRef identifies a channel.
type ChannelRef struct {
	ID string `json:"id"`
}

// MessageRef identifies the message a block action was attached to.
type MessageRef struct {
	TS string `json:"ts"`
}

// ViewInfo is the modal view attached to a block action or view
// submission.
type ViewInfo struct {
	ID              string    `json:"id"`
	Hash            string    `json:"hash"`
	CallbackID      string    `json:"callback_id"`
	PrivateMetadata string    `json:"private_metadata"`
	State           ViewState `json:"state"`
}

// ViewState holds the current values of a view's input blocks,
// indexed by block ID then action ID.
type ViewState struct {
	Values map[string]map[string]ValueState `json:"values"`
}

// ValueState is the value of one input element.
type ValueState struct {
	SelectedOption  *Option  `json:"selected_option,omitempty"`
	SelectedOptions []Option `json:"selected_options,omitempty"`
	Value           string   `json:"value,omitempty"`
}

// SelectedOption returns the chosen option of a select or radio
// element, or nil when nothing is selected.
func (s ViewState) SelectedOption(blockID, actionID string) *Option {
	return s.Values[blockID][actionID].SelectedOption
}

// SelectedValues returns the chosen values of a checkbox element.
func (s ViewState) SelectedValues(blockID, actionID string) []string {
	options := s.Values[blockID][actionID].SelectedOptions
	values := make([]string, 0, len(options))
	for _, option := range options {
		values = append(values, option.Value)
	}
	return values
}

// SlashCommand is one decoded slash-command invocation.
type SlashCommand struct {
	Command     string
	Text        string
	ChannelID   string
	UserID      string
	ResponseURL string
}
