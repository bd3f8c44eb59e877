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

// Package api contains the API route definitions for the server. This file
// defines the dashboard statistics endpoint.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reelarchive/footage-synthesis/internal/core/services"
)

// Dashboard configures the API routes for the statistics endpoint.
// It creates a new route group "/stats" nested under the main API router
// group and serves archive-wide figures (record count, total footage
// duration) from the archive service.
//
// Inputs:
//   - r: A *gin.RouterGroup to which the new "/stats" route group will be added.
//   - archive: The archive service backing the statistics queries.
func Dashboard(r *gin.RouterGroup, archive *services.ArchiveService) {
	// Create a new router group for any statistics-related endpoints, prefixed with "/stats".
	stats := r.Group("/stats")
	{
		// Register a handler for a GET request to the "/stats" endpoint.
		stats.GET("", func(c *gin.Context) {
			out, err := archive.Stats(c)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read archive statistics"})
				return
			}
			c.JSON(http.StatusOK, out)
		})
	}
}
