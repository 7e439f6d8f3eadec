package main

import (
	"bytes"
	"errors"
	"image"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"easybus/models"
	"easybus/pkg/app"
	"easybus/pkg/classifier"
	"easybus/pkg/intake"
	"easybus/pkg/ocr"
	"easybus/pkg/pipeline"
)

var (
	analyzer *pipeline.Analyzer
	uploads  *intake.Intake
	model    *classifier.Model
)

func useApp(a *app.App) {
	analyzer = a.Analyzer
	uploads = a.Intake
	model = a.Model
}

func setupRoutes(r *gin.Engine) {
	r.Use(corsMiddleware())
	r.GET("/healthz", healthHandler)
	r.POST("/analyze", analyzeHandler)
	r.POST("/preprocess", preprocessHandler)
}

// corsMiddleware lets the browser front-end call the API from any origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func healthHandler(c *gin.Context) {
	state := classifier.StateNotLoaded
	if model != nil {
		state = model.State()
	}
	code := http.StatusOK
	if state != classifier.StateReady {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"model": state.String()})
}

// analyzeHandler classifies the uploaded photo and extracts the route number.
func analyzeHandler(c *gin.Context) {
	img, ok := readUpload(c)
	if !ok {
		return
	}
	res, err := analyzer.AnalyzeDetailed(c.Request.Context(), img)
	if err != nil {
		kind := pipeline.KindOf(err)
		c.JSON(statusForKind(kind), gin.H{"request_id": res.Report.RequestID, "error": kind.String(), "details": err.Error()})
		return
	}
	out := res.Outcome
	c.JSON(http.StatusOK, gin.H{
		"request_id":     res.Report.RequestID,
		"label":          out.Label.String(),
		"digits":         out.Digits,
		"message":        out.Label.Message(),
		"digits_message": "Номер: " + out.DigitsOr(models.NoDigitsMessage),
	})
}

// preprocessHandler returns the canonical OCR raster of the upload as a PNG download.
func preprocessHandler(c *gin.Context) {
	img, ok := readUpload(c)
	if !ok {
		return
	}
	raster, err := ocr.Preprocess(img, analyzer.Options().Preprocess)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": pipeline.KindPreprocess.String(), "details": err.Error()})
		return
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, raster, imaging.PNG); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="preprocessed.png"`)
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// readUpload pulls the "file" form field and decodes it. On failure it writes
// the error response and returns false.
func readUpload(c *gin.Context) (image.Image, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open upload"})
		return nil, false
	}
	defer f.Close()

	img, mime, err := uploads.Read(f)
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, intake.ErrTooLarge) {
			code = http.StatusRequestEntityTooLarge
		}
		c.JSON(code, gin.H{"error": "invalid image", "details": err.Error(), "mime": mime})
		return nil, false
	}
	return img, true
}

func statusForKind(k pipeline.Kind) int {
	switch k {
	case pipeline.KindModelNotLoaded:
		return http.StatusServiceUnavailable
	case pipeline.KindPreprocess:
		return http.StatusUnprocessableEntity
	case pipeline.KindClassification:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
