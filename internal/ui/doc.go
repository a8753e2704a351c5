// Package ui provides the plain terminal output used outside the interactive
// browser: the dry-run access check and the resolved host table.
//
// # Color Scheme
//
// Colors are ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Reachable hosts
//	ColorError     (red)    - Access failures
//	ColorWarning   (yellow) - Warnings
//	ColorMuted     (gray)   - Secondary text, timing info
//
// ConfigureColors picks the profile for the output stream; piped output and
// NO_COLOR get plain text.
//
// # Spinner Usage
//
//	s := ui.NewSpinner("[db1] listing processes")
//	s.Start()
//	// ... do work ...
//	s.SetLabel("[db1] 42 processes reachable")
//	s.Success() // or s.Fail()
package ui
