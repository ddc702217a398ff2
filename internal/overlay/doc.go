// Package overlay is the in-page summary player.
//
// Widget holds everything the player shows: header, status line, the active
// point's words, the time display and the control states. It implements
// playback.View and renders itself as a text frame. Controller owns one page's
// lifecycle: it creates the widget, extracts the article, asks the provider
// for a summary, and routes user controls to the playback scheduler.
//
// Locks are taken in the order Controller, then Scheduler, then Widget or
// Highlighter. Timer callbacks start at the Scheduler and never reach back
// into the Controller.
package overlay
