// Package pipeline walks an image tree and drives the encode path
// (recompress → archive → encrypt) and the decode path (decrypt → unpack).
//
// Every run works in two phases: Discover snapshots the qualifying files
// grouped by directory, then the runner processes that snapshot. Files the
// run itself creates are never picked up again in the same pass.
//
// Batching:
//   - directory: one archive and one encrypted artifact per directory, named
//     after the directory's first qualifying file.
//   - per-file: one artifact per qualifying file, each bundling every
//     qualifying file of the directory.
package pipeline
