// Package pack drives the pack-managing conversations: adding a clip from a
// link, removing a published clip, posting the management panel, updating the
// pack link and showing the in-game commands for a clip.
//
// Each conversation is a Session running sequentially in its own goroutine.
// Every UI step waits on a single-resolution prompt; downloads and audio
// processing run on the worker pool and are observed by polling the
// session's own job handles.
package pack
