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
// command that cuts the planned highlight clips out of the source footage
// with FFmpeg.
//
// Logic Flow:
// Clip extraction is pure container surgery: a stream copy needs no
// re-encode, so each clip takes a fraction of a second regardless of
// resolution. The clips are still cut in a worker pool because a video can
// plan a dozen of them and the workflow should not serialize on process
// startup latency.
//
//  1. It receives the `model.AnalysisRecord` (with its clip plan) from the
//     context and the local source path from the well-known key.
//  2. It sniffs the source file type as a sanity check; a file that is not
//     recognizable video fails the workflow here rather than producing a
//     dozen broken clips.
//  3. Worker pool: each worker runs one ffmpeg stream-copy per clip,
//     writing to a temp file named after the clip's sequence and slug.
//  4. The resulting artifacts (local path plus destination object name) are
//     collected, ordered by sequence, and piped to the upload command. Temp
//     files are tracked for cleanup after the upload.
package commands

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"

	"github.com/reelarchive/footage-synthesis/internal/core/cor"
	"github.com/reelarchive/footage-synthesis/internal/core/model"
)

// clipFfmpegArgs is the format string for one stream-copy extraction.
// -ss/-t before -i seeks on the demuxer, so ffmpeg never decodes the
// skipped footage. -c copy keeps the original streams untouched.
const clipFfmpegArgs = "-y -hide_banner -ss %d -t %d -i %s -c copy -f mp4 %s"

// GetClipArtifactsParamName returns the context key under which the
// extracted clip artifacts are stored.
func GetClipArtifactsParamName() string {
	return "__CLIP_ARTIFACTS__"
}

// ClipArtifact pairs one extracted clip file on local disk with its
// destination object name and the candidate it came from.
type ClipArtifact struct {
	LocalPath  string
	ObjectName string
	Candidate  *model.ClipCandidate
}

// ClipExtractor is a command that cuts the planned clips from the local
// source file in parallel.
type ClipExtractor struct {
	cor.BaseCommand
	commandPath     string // The path to the ffmpeg executable.
	numberOfWorkers int    // The number of concurrent extraction workers.
}

// NewClipExtractor is the constructor for the ClipExtractor command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - commandPath: The file system path to the ffmpeg executable.
//   - numberOfWorkers: The size of the worker pool.
//
// Outputs:
//   - *ClipExtractor: A pointer to the newly instantiated command.
func NewClipExtractor(name string, commandPath string, numberOfWorkers int) *ClipExtractor {
	return &ClipExtractor{BaseCommand: *cor.NewBaseCommand(name), commandPath: commandPath, numberOfWorkers: numberOfWorkers}
}

// IsExecutable requires the record and the local source file.
func (c *ClipExtractor) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(c.GetInputParam()) != nil &&
		context.Get(GetLocalVideoPathParamName()) != nil
}

// Execute runs the parallel extraction.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *ClipExtractor) Execute(context cor.Context) {
	record := context.Get(c.GetInputParam()).(*model.AnalysisRecord)
	sourcePath := context.Get(GetLocalVideoPathParamName()).(string)

	if len(record.Clips) == 0 {
		c.GetSuccessCounter().Add(context.GetContext(), 1)
		context.Add(GetClipArtifactsParamName(), []*ClipArtifact{})
		context.Add(c.GetOutputParam(), record)
		return
	}

	kind, err := filetype.MatchFile(sourcePath)
	if err != nil || kind.MIME.Type != matchers.TypeMp4.MIME.Type {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("source file %s is not recognizable video (detected %s): %v", sourcePath, kind.MIME.Value, err))
		return
	}

	type clipResult struct {
		artifact *ClipArtifact
		err      error
	}

	var wg sync.WaitGroup
	jobs := make(chan int, len(record.Clips))
	results := make(chan *clipResult, len(record.Clips))

	// The clip prefix groups every clip of one video under its record ID in
	// the output bucket.
	prefix := record.Id

	for w := 0; w < c.numberOfWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				candidate := record.Clips[i]
				fileName := candidate.FileName(i + 1)
				outPath := filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s", prefix, fileName))

				args := fmt.Sprintf(clipFfmpegArgs, candidate.StartSeconds, candidate.DurationSeconds, sourcePath, outPath)
				cmd := exec.Command(c.commandPath, strings.Split(args, " ")...)
				cmd.Stderr = os.Stderr
				if err := cmd.Run(); err != nil {
					results <- &clipResult{err: fmt.Errorf("ffmpeg failed for clip %s: %w", fileName, err)}
					continue
				}

				results <- &clipResult{artifact: &ClipArtifact{
					LocalPath:  outPath,
					ObjectName: fmt.Sprintf("%s/%s", prefix, fileName),
					Candidate:  candidate,
				}}
			}
		}()
	}

	for i := range record.Clips {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(results)

	artifacts := make([]*ClipArtifact, 0, len(record.Clips))
	for r := range results {
		if r.err != nil {
			c.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(c.GetName(), r.err)
			continue
		}
		context.AddTempFile(r.artifact.LocalPath)
		artifacts = append(artifacts, r.artifact)
	}

	// Workers finish out of order; restore the sequence order.
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].ObjectName < artifacts[j].ObjectName
	})

	if !context.HasErrors() {
		c.GetSuccessCounter().Add(context.GetContext(), 1)
	}

	context.Add(GetClipArtifactsParamName(), artifacts)
	context.Add(c.GetOutputParam(), record)
	context.Add(cor.CtxOut, record)
}
