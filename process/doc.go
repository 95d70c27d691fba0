// Package process runs local binaries, such as whisper.cpp, with output
// capture and process-group cancellation.
package process
