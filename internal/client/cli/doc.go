// Package cli provides the interactive QR generator.
//
// One App is one generator screen: the user type (student or helper) is fixed
// by configuration. The user enters an identity or picks a saved one, and the
// current code is drawn in the terminal. Expired codes are announced as they
// expire; with auto-renewal on the code is refreshed in the background and
// never expires. When a display address is configured the same code is also
// served over HTTP for a kiosk screen.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
