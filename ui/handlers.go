package ui

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"gowoa/adapters/export"
	"gowoa/app"
	"gowoa/internal/errors"
)

const maxPayloadBytes = 64 << 20

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"python":  s.cfg.Runner.Python,
		"workdir": s.cfg.Runner.Workdir,
	})
}

func (s *Server) handlePredict(c *gin.Context) {
	name, body, cleanup, ok := s.imageUpload(c)
	if !ok {
		return
	}
	defer cleanup()

	rep, err := s.services.Prediction.PredictUpload(c.Request.Context(), name, body)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) handleCompare(c *gin.Context) {
	name, body, cleanup, ok := s.imageUpload(c)
	if !ok {
		return
	}
	defer cleanup()

	rep, err := s.services.Comparison.CompareUpload(c.Request.Context(), name, body)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) handleBenchmark(c *gin.Context) {
	var overrides app.BenchmarkOverrides
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&overrides); err != nil && err != io.EOF {
			s.respondError(c, errors.InvalidInput("invalid benchmark parameters: "+err.Error()))
			return
		}
	}

	rep, err := s.services.Benchmark.Run(c.Request.Context(), overrides)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) handleExport(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	doc, ok := s.document(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, string(doc.Kind), doc.Rows); err != nil {
		s.respondError(c, err)
		return
	}
	filename := export.FileName(string(doc.Kind), format, s.now())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (s *Server) handleReport(c *gin.Context) {
	doc, ok := s.document(c)
	if !ok {
		return
	}
	if strings.EqualFold(c.Query("format"), "markdown") {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(doc.Markdown))
		return
	}
	s.renderHTML(c, doc.Title, doc.Markdown)
}

// document assembles the report named by the :kind parameter from the body.
func (s *Server) document(c *gin.Context) (*app.Document, bool) {
	kind, err := app.ParseKind(c.Param("kind"))
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxPayloadBytes))
	if err != nil {
		s.respondError(c, errors.InvalidInput("cannot read request body: "+err.Error()))
		return nil, false
	}

	opts := app.DocumentOptions{}
	if fns := c.Query("functions"); fns != "" {
		opts.Functions = strings.Split(fns, ",")
	}
	if bs := c.Query("block_size"); bs != "" {
		size, err := strconv.Atoi(bs)
		if err != nil {
			s.respondError(c, errors.InvalidInput("block_size must be an integer"))
			return nil, false
		}
		opts.BlockSize = size
	}

	doc, err := s.documents().Build(kind, payload, opts)
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	return doc, true
}

func (s *Server) documents() *app.Documents {
	return app.NewDocuments(s.services.Prediction, s.services.Comparison, s.services.Benchmark)
}

// imageUpload opens the multipart "image" field. The caller must invoke
// cleanup when done with body.
func (s *Server) imageUpload(c *gin.Context) (name string, body io.Reader, cleanup func(), ok bool) {
	limit := s.cfg.Upload.MaxBytes
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+1<<20)
	}

	header, err := c.FormFile("image")
	if err != nil {
		s.respondError(c, errors.InvalidInput("multipart field \"image\" is required"))
		return "", nil, nil, false
	}
	if limit > 0 && header.Size > limit {
		s.respondError(c, errors.InvalidInput("uploaded file exceeds "+strconv.FormatInt(limit, 10)+" bytes"))
		return "", nil, nil, false
	}
	file, err := header.Open()
	if err != nil {
		s.respondError(c, errors.UploadFailed("cannot open uploaded file", err))
		return "", nil, nil, false
	}
	return header.Filename, file, func() { file.Close() }, true
}
