// Package host plays the part of the browser extension's background worker:
// it tracks open tabs, reacts to the toolbar action by injecting the player
// into a tab or toggling an existing one, and routes runtime messages.
package host
