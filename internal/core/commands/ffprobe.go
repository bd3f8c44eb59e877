// Copyright 2025 Reel Archive Works, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// command that probes the duration of the source footage with ffprobe.
//
// Logic Flow:
// The clip selection policy needs the video duration for filler spacing and
// candidate clamping, but a probe failure must never kill the workflow; a
// video with unknown duration still gets analyzed, it just yields no filler
// clips.
//
//  1. Take the local path of the downloaded footage from the context.
//  2. Run ffprobe asking only for the container duration.
//  3. Parse the result, truncating fractional seconds.
//  4. On any failure record a duration of zero and keep going.
//  5. Store the duration under a well-known key and pass the file path
//     through to the next command.
package commands

import (
	"log"
	"os/exec"
	"strconv"
	"strings"

	"github.com/reelarchive/footage-synthesis/internal/core/cor"
)

// ffprobeArgs asks for the container duration alone, one plain number on
// stdout.
const ffprobeArgs = "-v error -show_entries format=duration -of default=noprint_wrappers=1:nokey=1"

// GetVideoDurationParamName returns the context key under which the probed
// duration of the source footage, in whole seconds, is stored.
func GetVideoDurationParamName() string {
	return "__VIDEO_DURATION__"
}

// FFProbeCommand determines the duration of a local video file.
type FFProbeCommand struct {
	cor.BaseCommand
	commandPath string // The path to the ffprobe executable (e.g., "/usr/bin/ffprobe").
}

// NewFFProbeCommand is the constructor for creating a new FFProbeCommand.
//
// Inputs:
//   - name: A string name for this command instance.
//   - commandPath: The file system path to the ffprobe executable.
//
// Outputs:
//   - *FFProbeCommand: A pointer to the newly instantiated command.
func NewFFProbeCommand(name string, commandPath string) *FFProbeCommand {
	return &FFProbeCommand{BaseCommand: *cor.NewBaseCommand(name), commandPath: commandPath}
}

// Execute probes the input file and records its duration. Probe failures
// are logged and produce a duration of zero; they never fail the chain.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *FFProbeCommand) Execute(context cor.Context) {
	path := context.Get(c.GetInputParam()).(string)

	durationSeconds := 0
	args := append(strings.Split(ffprobeArgs, " "), path)
	out, err := exec.Command(c.commandPath, args...).Output()
	if err != nil {
		log.Printf("ffprobe failed for %s, continuing with zero duration: %v\n", path, err)
	} else {
		seconds, perr := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
		if perr != nil {
			log.Printf("ffprobe returned unparseable duration %q for %s: %v\n", strings.TrimSpace(string(out)), path, perr)
		} else {
			durationSeconds = int(seconds)
		}
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetVideoDurationParamName(), durationSeconds)
	// The file path pipes through untouched for the next command.
	context.Add(c.GetOutputParam(), path)
}
