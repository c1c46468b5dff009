// Package shoutcast reads the ICY headers a Shoutcast/Icecast server sends
// with a response and parses .pls and .m3u playlists. Media bytes are never
// read.
package shoutcast
