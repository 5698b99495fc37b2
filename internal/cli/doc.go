// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the trackbets command tree.
//
// Commands:
//
//	trackbets                 full-screen interface (line mode without a TTY)
//	trackbets analyze TICKER  one analysis in line mode, then the analyst chat
//	trackbets config ...      show, path, get, set, keys
//	trackbets version         print the version
//
// Bootstrap wires configuration, logging, storage and the remote clients into
// a Runtime shared by every command.
package cli
