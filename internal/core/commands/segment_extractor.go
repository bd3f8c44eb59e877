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
// command that collects low-level per-window analysis of the footage.
//
// Logic Flow:
// Beyond the single whole-video analysis, the pipeline records what the
// model sees in each fixed time window of the footage. These raw segments
// are the fallback evidence for clip selection on videos whose structured
// analysis turns out thin, and they are archived with the record.
//
//  1. It receives the in-progress `model.AnalysisRecord` and the footage
//     reference from the context.
//  2. Worker pool: a `jobs` channel feeds window-processing tasks to a
//     configurable number of goroutines; a `results` channel collects the
//     generated segments.
//  3. The windows are cut from the probed duration. A video with unknown
//     duration yields no windows and passes through unchanged.
//  4. Each worker prompts the model for one window, under its own trace
//     span, and returns a `model.RawSegment`.
//  5. The segments are attached to the record's document, ordered by window
//     start, and the record pipes on to the clip planner.
package commands

import (
	"bytes"
	goctx "context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/reelarchive/footage-synthesis/internal/cloud"
	"github.com/reelarchive/footage-synthesis/internal/core/cor"
	"github.com/reelarchive/footage-synthesis/internal/core/model"
	"github.com/reelarchive/footage-synthesis/internal/core/timecode"
)

// SegmentExtractor is a command that analyzes fixed time windows of the
// footage in parallel.
type SegmentExtractor struct {
	cor.BaseCommand
	generativeAIModel        *cloud.QuotaAwareGenerativeAIModel // The rate-limited generative model client.
	promptTemplate           *template.Template                 // The Go template for the per-window prompt.
	numberOfWorkers          int                                // The number of concurrent workers to spawn.
	windowSeconds            int                                // The length of each analysis window in seconds.
	geminiInputTokenCounter  metric.Int64Counter                // OTel counter for input tokens.
	geminiOutputTokenCounter metric.Int64Counter                // OTel counter for output tokens.
	geminiRetryCounter       metric.Int64Counter                // OTel counter for retries.
}

// NewSegmentExtractor is the constructor for the SegmentExtractor command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - model: The client for the generative AI model.
//   - prompt: The parsed Go template for the per-window prompt.
//   - numberOfWorkers: The size of the worker pool.
//   - windowSeconds: The analysis window length in seconds.
//
// Outputs:
//   - *SegmentExtractor: A pointer to the newly instantiated command.
func NewSegmentExtractor(
	name string,
	model *cloud.QuotaAwareGenerativeAIModel,
	prompt *template.Template,
	numberOfWorkers int,
	windowSeconds int) *SegmentExtractor {
	out := &SegmentExtractor{
		BaseCommand:       *cor.NewBaseCommand(name),
		generativeAIModel: model,
		promptTemplate:    prompt,
		numberOfWorkers:   numberOfWorkers,
		windowSeconds:     windowSeconds}

	out.geminiInputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", out.GetName()))
	out.geminiOutputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", out.GetName()))
	out.geminiRetryCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.retry", out.GetName()))

	return out
}

// IsExecutable checks that both the analysis record and the footage
// reference are present in the context.
func (s *SegmentExtractor) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(s.GetInputParam()) != nil &&
		context.Get(GetVideoFileParameterName()) != nil
}

// Execute orchestrates the parallel window analysis.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (s *SegmentExtractor) Execute(context cor.Context) {
	record := context.Get(s.GetInputParam()).(*model.AnalysisRecord)
	videoFile := context.Get(GetVideoFileParameterName()).(*genai.FileData)

	windows := cutWindows(record.DurationSeconds, s.windowSeconds)
	if len(windows) == 0 {
		// Unknown or tiny duration. Nothing to analyze window by window.
		s.GetSuccessCounter().Add(context.GetContext(), 1)
		context.Add(s.GetOutputParam(), record)
		return
	}

	// A short context document grounds each window prompt in the video.
	summaryText := fmt.Sprintf("Title: %s\nSummary:\n\n%s\n", record.Document.VideoAnalysis.Title, record.Document.VideoAnalysis.Summary)

	var wg sync.WaitGroup

	// Buffered to the window count so all jobs queue without blocking.
	jobs := make(chan *SegmentJob, len(windows))
	results := make(chan *SegmentResponse, len(windows))

	for w := 1; w <= s.numberOfWorkers; w++ {
		wg.Add(1)
		go segmentWorker(jobs, results, &wg)
	}

	for i, win := range windows {
		job := CreateSegmentJob(context.GetContext(), s.Tracer, s.geminiInputTokenCounter, s.geminiOutputTokenCounter, s.geminiRetryCounter, i, s.GetName(), summaryText, *s.promptTemplate, videoFile, s.generativeAIModel, win)
		jobs <- job
	}

	// No more work is coming; workers drain the channel and exit.
	close(jobs)
	wg.Wait()
	close(results)

	segments := make([]*model.RawSegment, 0, len(windows))
	for r := range results {
		if r.err != nil {
			s.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(s.GetName(), r.err)
		} else {
			segments = append(segments, r.segment)
		}
	}

	// Workers finish out of order; restore the window order.
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].TimestampRange < segments[j].TimestampRange
	})

	if !context.HasErrors() {
		s.GetSuccessCounter().Add(context.GetContext(), 1)
	}

	record.Document.RawSegments = append(record.Document.RawSegments, segments...)
	if record.Document.ProcessingMetadata == nil {
		record.Document.ProcessingMetadata = &model.ProcessingMetadata{}
	}
	record.Document.ProcessingMetadata.SegmentCount = len(record.Document.RawSegments)

	context.Add(s.GetOutputParam(), record)
	context.Add(cor.CtxOut, record)
}

// segmentWindow is one fixed analysis window in timecode form.
type segmentWindow struct {
	start string
	end   string
}

// cutWindows slices the video duration into consecutive windows of
// windowSeconds, with a shorter final window covering the remainder.
func cutWindows(durationSeconds int, windowSeconds int) []segmentWindow {
	if durationSeconds <= 0 || windowSeconds <= 0 {
		return nil
	}
	windows := make([]segmentWindow, 0, durationSeconds/windowSeconds+1)
	for start := 0; start < durationSeconds; start += windowSeconds {
		end := start + windowSeconds
		if end > durationSeconds {
			end = durationSeconds
		}
		windows = append(windows, segmentWindow{
			start: timecode.FormatSeconds(start),
			end:   timecode.FormatSeconds(end),
		})
	}
	return windows
}

// SegmentResponse passes one result or error back from a worker.
type SegmentResponse struct {
	segment *model.RawSegment
	err     error
}

// SegmentJob encapsulates all the data one worker needs to process one
// window.
type SegmentJob struct {
	workerId                 int
	ctx                      goctx.Context
	geminiInputTokenCounter  metric.Int64Counter
	geminiOutputTokenCounter metric.Int64Counter
	geminiRetryCounter       metric.Int64Counter
	window                   segmentWindow
	span                     trace.Span
	contents                 []*genai.Content
	model                    *cloud.QuotaAwareGenerativeAIModel
	err                      error
}

// Close ends the OpenTelemetry span associated with this job.
func (s *SegmentJob) Close(status codes.Code, description string) {
	s.span.SetStatus(status, description)
	s.span.End()
}

// CreateSegmentJob constructs a SegmentJob, including its trace span and
// the rendered prompt.
func CreateSegmentJob(
	ctx goctx.Context,
	tracer trace.Tracer,
	geminiInputTokenCounter metric.Int64Counter,
	geminiOutputTokenCounter metric.Int64Counter,
	geminiRetryCounter metric.Int64Counter,
	workerId int,
	commandName string,
	summaryText string,
	template template.Template,
	videoFile *genai.FileData,
	model *cloud.QuotaAwareGenerativeAIModel,
	window segmentWindow,
) *SegmentJob {
	segmentCtx, segmentSpan := tracer.Start(ctx, fmt.Sprintf("%s_genai_segment_%d", commandName, workerId))
	segmentSpan.SetAttributes(
		attribute.Int("sequence", workerId),
		attribute.String("start", window.start),
		attribute.String("end", window.end),
	)

	vocabulary := make(map[string]string)
	vocabulary["SEQUENCE"] = fmt.Sprintf("%d", workerId+1)
	vocabulary["SUMMARY_DOCUMENT"] = summaryText
	vocabulary["TIME_START"] = window.start
	vocabulary["TIME_END"] = window.end

	var doc bytes.Buffer
	err := template.Execute(&doc, vocabulary)
	if err != nil {
		return &SegmentJob{err: err}
	}

	contents := []*genai.Content{
		{Parts: []*genai.Part{
			{Text: doc.String()},
			{FileData: &genai.FileData{
				FileURI:  videoFile.FileURI,
				MIMEType: videoFile.MIMEType,
			}},
		},
			Role: "user"},
	}

	return &SegmentJob{
		workerId:                 workerId,
		ctx:                      segmentCtx,
		geminiInputTokenCounter:  geminiInputTokenCounter,
		geminiOutputTokenCounter: geminiOutputTokenCounter,
		geminiRetryCounter:       geminiRetryCounter,
		window:                   window,
		span:                     segmentSpan,
		contents:                 contents,
		model:                    model,
	}
}

// segmentWorker runs in each pool goroutine: it pulls jobs until the jobs
// channel closes, calls the model, and sends back segments or errors.
func segmentWorker(jobs <-chan *SegmentJob, results chan<- *SegmentResponse, wg *sync.WaitGroup) {
	defer wg.Done()

	for j := range jobs {
		if j.err != nil {
			results <- &SegmentResponse{err: j.err}
			continue
		}

		out, err := cloud.GenerateMultiModalResponse(j.ctx, j.geminiInputTokenCounter, j.geminiOutputTokenCounter, j.geminiRetryCounter, 0, j.model, j.contents)
		if err != nil {
			j.Close(codes.Error, "segment analysis failed")
			results <- &SegmentResponse{err: err}
			continue
		}

		// Empty windows (black frames, silence) come back blank; skip them.
		if len(strings.TrimSpace(out)) > 0 && out != "{}" {
			results <- &SegmentResponse{
				segment: &model.RawSegment{
					TimestampRange:     fmt.Sprintf("%s - %s", j.window.start, j.window.end),
					MultimodalAnalysis: out,
				},
			}
		}

		j.Close(codes.Ok, "completed segment")
	}
}
