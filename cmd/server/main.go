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

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/reelarchive/footage-synthesis/internal/api"
	"github.com/reelarchive/footage-synthesis/internal/core/cor"
	"github.com/reelarchive/footage-synthesis/internal/core/workflow"
	"github.com/reelarchive/footage-synthesis/internal/telemetry"
)

func main() {
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := GetConfig()

	_, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

	InitState(ctx)
	slog.Info("Initialized State")

	r := gin.Default()

	// Add OpenTelemetry middleware
	r.Use(otelgin.Middleware("footage-synthesis-server"))

	// Use a default, permissive CORS configuration. This allows all origins,
	// methods, and headers, which is safe for local development and keeps the
	// dashboard frontend and backend talking.
	r.Use(cors.Default())

	// Create the "/api/v1" group
	apiV1 := r.Group("/api/v1")
	{
		// Register the archive, synthesis, upload, and dashboard routes.
		ArchiveRouter(apiV1)
		SynthesisRouter(apiV1)
		FileUpload(apiV1)
		api.Dashboard(apiV1, state.archiveService)
	}

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// Start the server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to listen: ", "error", err)
		}
	}()
	slog.Info("Server Ready on port 8080")

	// Wait for an interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed:", "error", err)
	}

	log.Println("Server exiting")
}

// ArchiveRouter sets up the routes for browsing the analyzed footage archive.
func ArchiveRouter(r *gin.RouterGroup) {
	archive := r.Group("/archive")
	{
		// List the archive catalog, newest record first.
		archive.GET("", func(c *gin.Context) {
			count, err := strconv.Atoi(c.DefaultQuery("count", "25"))
			if err != nil {
				count = 25
			}
			records, err := state.archiveService.List(c, count)
			if err != nil {
				log.Printf("Error listing archive records: %v\n", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, records)
		})

		// Fetch one complete analysis record.
		archive.GET("/:id", func(c *gin.Context) {
			id := c.Param("id")
			out, err := state.archiveService.Get(c, id)
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		// Fetch the clip plan for one record, in playback order.
		archive.GET("/:id/clips", func(c *gin.Context) {
			id := c.Param("id")
			out, err := state.archiveService.GetClips(c, id)
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		// Generate a signed URL for streaming one extracted clip.
		archive.GET("/:id/clips/:sequence/stream", func(c *gin.Context) {
			id := c.Param("id")
			sequence, err := strconv.Atoi(c.Param("sequence"))
			if err != nil || sequence < 1 {
				c.Status(http.StatusBadRequest)
				return
			}
			clips, err := state.archiveService.GetClips(c, id)
			if err != nil || sequence > len(clips) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Clip not found"})
				return
			}

			// The clip objects live under the record ID, named by sequence
			// and description slug, exactly as the extractor wrote them.
			objectName := fmt.Sprintf("%s/%s", id, clips[sequence-1].FileName(sequence))

			// Generate a signed URL that is valid for 15 minutes.
			signedURL, err := state.archiveService.GenerateClipSignedURL(c, objectName, 15*time.Minute)
			if err != nil {
				log.Printf("Error signing clip URL for %s: %v\n", objectName, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate streaming URL"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"url": signedURL})
		})
	}
}

// SynthesisRouter sets up the routes for the cross-video synthesis surface.
func SynthesisRouter(r *gin.RouterGroup) {
	syn := r.Group("/synthesis")
	{
		// Run the aggregation on demand and return the full JSON result.
		syn.GET("", func(c *gin.Context) {
			result, err := state.synthesisService.Synthesize(c)
			if err != nil {
				log.Printf("Error running synthesis: %v\n", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, result)
		})

		// Render the Markdown report on demand.
		syn.GET("/report", func(c *gin.Context) {
			report, err := state.synthesisService.RenderReport(c)
			if err != nil {
				log.Printf("Error rendering synthesis report: %v\n", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report))
		})

		// Serve the cached report artifact the background refresh last wrote.
		// Unlike the on-demand paths, the cached report includes the
		// generated narrative.
		syn.GET("/report/cached", func(c *gin.Context) {
			data, err := state.synthesisService.GetCachedArtifact(c, workflow.ReportObjectName)
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "No cached report available"})
				return
			}
			c.Data(http.StatusOK, "text/markdown; charset=utf-8", data)
		})

		// Trigger an immediate refresh of the synthesis artifacts.
		syn.POST("/refresh", func(c *gin.Context) {
			chainCtx := cor.NewBaseContext()
			chainCtx.SetContext(c.Request.Context())
			state.refreshWorkflow.Execute(chainCtx)
			if chainCtx.HasErrors() {
				for k, err := range chainCtx.GetErrors() {
					log.Printf("Error refreshing synthesis (%s): %v\n", k, err)
				}
				c.Status(http.StatusInternalServerError)
				return
			}
			c.Status(http.StatusAccepted)
		})
	}
}

// FileUpload sets up the route for uploading new footage into the input
// bucket. Landing the file in the bucket fires the GCS notification that
// triggers the analysis workflow.
func FileUpload(r *gin.RouterGroup) {
	upload := r.Group("/uploads")
	{
		upload.POST("", func(c *gin.Context) {
			form, err := c.MultipartForm()
			if err != nil {
				c.String(http.StatusBadRequest, "get form err: %s", err.Error())
				return
			}
			files := form.File["files"]
			bucket := state.cloud.StorageClient.Bucket(state.config.Storage.FootageInputBucket)

			for _, file := range files {
				localPath := filepath.Join(os.TempDir(), file.Filename)
				if err := c.SaveUploadedFile(file, localPath); err != nil {
					c.String(http.StatusBadRequest, "upload file err: %s", err.Error())
					return
				}

				content, err := os.ReadFile(localPath)
				if err != nil {
					log.Println(err)
					c.Status(http.StatusInternalServerError)
					return
				}
				wc := bucket.Object(file.Filename).NewWriter(c)
				wc.ContentType = "video/mp4"
				if _, err = wc.Write(content); err != nil {
					c.String(http.StatusInternalServerError, "write file to bucket err: %s", err.Error())
					return
				}
				if err := wc.Close(); err != nil {
					log.Printf("failed to close bucket handle: %v\n", err)
				}
				if err := os.Remove(localPath); err != nil {
					log.Printf("failed to remove file from server: %v\n", err)
				}
			}
			c.String(http.StatusOK, "Uploaded successfully %d files.", len(files))
		})
	}
}
