// Package extract pulls an embedded subtitle stream out of the playing media
// with ffmpeg so it can serve as a sync reference.
//
// Output always goes to one fixed file in the temp directory, guarded by a
// flock so two players syncing at once cannot clobber each other. The
// returned Extraction must be cleaned up by the caller.
package extract
