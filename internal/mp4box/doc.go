// Package mp4box extracts tracks from MPEG-4 files with GPAC's MP4Box.
//
// Track metadata still comes from mkvmerge identification; MP4Box is only
// invoked once per selected track. Timed-text tracks are converted to SRT on
// stdout and written by mkvsplit, everything else is dumped raw by MP4Box.
package mp4box
