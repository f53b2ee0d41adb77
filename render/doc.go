// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

// Package render turns interaction contexts and forecast reports into
// workspace messages and modal views. Every function here is pure: no
// I/O, no mutation of inputs, and identical inputs produce identical
// output. The bot package decides where a rendered message goes.
package render
