// Package snapstream recovers show metadata embedded in SnapStream Beyond TV
// recordings and writes it as JSON sidecars next to converted MKV files.
//
// Beyond TV appends a block of NUL-terminated key/value pairs near the end
// of each recording, preceded by a little-endian pair count:
//
//	<uint32 count> SS-Actors \0 <value> \0 SS-Channel \0 <value> \0 ...
//
// AVI files wrap the block in an ATTR chunk; MPEG files store it bare.
// SS-Actors is always the first key, so the parser anchors on it. Strings
// are Latin-1.
package snapstream
