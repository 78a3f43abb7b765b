// Package media implements the marketing-asset synchronization engine:
// scanning the local screenshot/preview tree, resolving remote asset sets,
// uploading in presigned chunks, downloading renditions, and verifying or
// repairing delivery state.
//
// The local layout is <root>/<locale>/<displayType>/<files>, where a file's
// alphabetical position inside its directory is its display position on the
// store page.
package media
