// Package session implements the interactive process browser.
//
// # Architecture
//
// The browser is a Bubble Tea program. State holds everything the operator
// can change (current tab, filter, mode, pending action) and is mutated only
// from Model.Update, so there is a single owner.
//
//   - State: hosts, current tab, filter, last snapshot, mode, status line
//   - Model: key handling, prompts, refresh and action commands
//   - View: header, host line, key hints, process table, status
//
// # Refresh cycle
//
// There is no timer. Every return to Browsing starts a refresh of the
// current host:
//
//  1. A key is handled (unrecognised keys first wait a short idle pause)
//  2. refreshCmd lists processes on hosts[Current] off the UI goroutine
//  3. snapshotMsg replaces the snapshot, unless the operator switched tabs
//     or a newer refresh started in the meantime
//
// Control actions run the same way: the PID prompt is submitted, actionCmd
// runs the signal or restart, actionDoneMsg sets the status and refreshes.
//
// # Keyboard Shortcuts
//
//	F1, ?                  - Help overlay
//	F2, Tab, →             - Next host
//	F3, Shift+Tab, ←       - Previous host
//	F4, /                  - Set the command filter
//	F5, p                  - Pause a process (SIGSTOP)
//	F6, s                  - Stop a process (SIGTERM)
//	F7, k                  - Kill a process (SIGKILL)
//	F8, r                  - Restart a process
//	c                      - Continue a paused process (SIGCONT)
//	q, Q, Ctrl+C           - Quit
package session
