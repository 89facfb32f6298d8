// Package ffmpeg builds and executes ffmpeg commands.
//
// The argument builders assemble one canonical option set per invocation via
// an explicit ordered merge (container defaults < segment params < hardware
// profile) so key collisions resolve deterministically. The executor runs
// exactly one subprocess per call and never retries; transient engine errors
// surface as that invocation's failure.
package ffmpeg
