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

// Package cloud provides components for interacting with Google Cloud services.
// This file wraps the Generative AI model handle with rate limiting and a
// retry mechanism. Vertex AI enforces per-model request quotas; the wrapper
// keeps the analysis worker pool from exceeding them, and transient request
// failures are retried instead of failing a whole video.
//
// Structs:
//   - QuotaAwareGenerativeAIModel: Bundles a model name, its generation
//     config, the shared model handle, and a rate limiter.
//
// Functions:
//   - NewQuotaAwareModel: Constructor for the wrapped model.
//   - GenerateContent: Intercepts calls to the AI model to enforce rate
//     limiting and retries.
package cloud

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// QuotaAwareGenerativeAIModel decorates the genai model handle with a rate
// limiter. Calls go through GenerateContent below rather than the handle
// directly.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig // Sampling settings, system instructions, and safety settings for this agent.
	ModelName               string
	ModelHandle             *genai.Models
	RateLimit               rate.Limiter // Controls request frequency against the model's quota.
}

// NewQuotaAwareModel creates a new QuotaAwareGenerativeAIModel from the
// generation config, the model name, the shared model handle, and a rate
// limit in requests per second.
func NewQuotaAwareModel(wrapped *genai.GenerateContentConfig, name string, modelHandle *genai.Models, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	return &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: wrapped,
		ModelName:               name,
		ModelHandle:             modelHandle,
		// Allows a burst of requestsPerSecond and replenishes one token per
		// second.
		RateLimit: *rate.NewLimiter(rate.Every(time.Second/1), requestsPerSecond),
	}
}

// GenerateContent runs one generation request through the rate limiter.
//
// Logic Flow:
//  1. Check the rate limiter.
//  2. If a request is allowed, call the underlying model. On failure, read
//     the retry count from the context; if retries remain, wait and try
//     again, otherwise return the error.
//  3. If the rate limiter denies the request, wait briefly and re-queue.
//
// Inputs:
//   - ctx: The context for the request; it also carries the retry state.
//   - content: The content blocks of the multi-modal prompt.
//
// Outputs:
//   - *genai.GenerateContentResponse: The model response on success.
//   - error: An error once retries are exhausted.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (resp *genai.GenerateContentResponse, err error) {
	if q.RateLimit.Allow() {
		resp, err = q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerativeContentConfig)
		if err != nil {
			retryCount, ok := ctx.Value("retry").(int)
			if !ok {
				retryCount = 0
			}
			if retryCount > 3 {
				return nil, errors.New("failed generation on max retries")
			}
			errCtx := context.WithValue(ctx, "retry", retryCount+1)
			// Back off a full minute to let the service recover.
			time.Sleep(time.Minute * 1)
			return q.ModelHandle.GenerateContent(errCtx, q.ModelName, content, q.GenerativeContentConfig)
		}
		return resp, err
	} else {
		// Denied by the limiter. Pause this request, then try for a token
		// again.
		time.Sleep(time.Second * 5)
		return q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerativeContentConfig)
	}
}
