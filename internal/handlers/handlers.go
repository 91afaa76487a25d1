package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Brownie44l1/ser-api/internal/classifier"
	"github.com/Brownie44l1/ser-api/internal/metrics"
	"github.com/Brownie44l1/ser-api/internal/middleware"
	"github.com/Brownie44l1/ser-api/internal/render"
)

// FileField is the multipart field carrying the clip.
const FileField = "file"

// ErrorResponse is the body of every 4xx/5xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	classifier *classifier.Classifier
	logger     *zap.Logger
	maxUpload  int64
}

func NewHandler(c *classifier.Classifier, logger *zap.Logger, maxUploadBytes int64) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		classifier: c,
		logger:     logger,
		maxUpload:  maxUploadBytes,
	}
}

// NewRouter mounts every endpoint behind the middleware chain. m may be nil,
// in which case /metrics is not served.
func NewRouter(h *Handler, logger *zap.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	middleware.Setup(r, logger, m)

	r.GET("/health", h.Health)
	r.POST("/predict", h.Predict)
	r.POST("/spectrogram", h.Spectrogram)
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
	return r
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"model":   h.classifier.Model(),
		"classes": h.classifier.Labels(),
	})
}

// Predict classifies the uploaded clip.
func (h *Handler) Predict(c *gin.Context) {
	data, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.classifier.Classify(data)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Spectrogram returns the feature matrix of the uploaded clip as a PNG.
// Optional width and height query parameters rescale the image.
func (h *Handler) Spectrogram(c *gin.Context) {
	width, err := dimension(c, "width")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	height, err := dimension(c, "height")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	data, ok := h.readUpload(c)
	if !ok {
		return
	}

	spec, err := h.classifier.Spectrogram(data)
	if err != nil {
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := render.PNG(&buf, spec, width, height); err != nil {
		h.fail(c, err)
		return
	}

	st := spec.Stats()
	c.Header("X-Spectrogram-Frames", strconv.Itoa(spec.Valid))
	c.Header("X-Spectrogram-Min-DB", strconv.FormatFloat(st.MinDB, 'f', 2, 64))
	c.Header("X-Spectrogram-Max-DB", strconv.FormatFloat(st.MaxDB, 'f', 2, 64))
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// readUpload writes a 400 and returns false when the request carries no
// usable file. A part named "file" without a filename parameter is a plain
// value, not a missing selection.
func (h *Handler) readUpload(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+(1<<20))

	mr, err := c.Request.MultipartReader()
	if err != nil {
		h.reject(c, "No file part")
		return nil, false
	}

	selected := false
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			h.rejectRead(c, err)
			return nil, false
		}

		filename, isFile := dispositionFilename(part)
		if part.FormName() != FileField || !isFile {
			part.Close()
			continue
		}
		if filename == "" {
			selected = true
			part.Close()
			continue
		}

		data, err := io.ReadAll(io.LimitReader(part, h.maxUpload+1))
		part.Close()
		if err != nil {
			h.rejectRead(c, err)
			return nil, false
		}
		if int64(len(data)) > h.maxUpload {
			h.reject(c, h.tooLarge())
			return nil, false
		}

		h.logger.Debug("received file",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("filename", filename),
			zap.Int("size", len(data)),
		)
		return data, true
	}

	if selected {
		h.reject(c, "No selected file")
	} else {
		h.reject(c, "No file part")
	}
	return nil, false
}

// dispositionFilename returns the raw filename parameter and whether the
// part declared one at all.
func dispositionFilename(part *multipart.Part) (string, bool) {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return "", false
	}
	filename, ok := params["filename"]
	return filename, ok
}

func (h *Handler) rejectRead(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.reject(c, h.tooLarge())
		return
	}
	h.reject(c, "Failed to parse form")
}

func (h *Handler) tooLarge() string {
	return fmt.Sprintf("File too large. Maximum size is %d bytes", h.maxUpload)
}

func (h *Handler) reject(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.logger.Error("error during prediction",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Error(err),
	)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}

// MaxPreviewSize bounds each side of a rescaled spectrogram preview.
const MaxPreviewSize = 2048

func dimension(c *gin.Context, name string) (uint, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	if n > MaxPreviewSize {
		return 0, fmt.Errorf("%s %d exceeds maximum of %d", name, n, MaxPreviewSize)
	}
	return uint(n), nil
}
