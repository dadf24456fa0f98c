package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/mobisniff/internal/batch"
	"github.com/samcharles93/mobisniff/internal/logger"
	"github.com/samcharles93/mobisniff/internal/unpack"
	"github.com/samcharles93/mobisniff/pkg/mobi"
	"github.com/samcharles93/mobisniff/pkg/pdb"
)

// DefaultMaxUpload bounds the body of a classify request.
const DefaultMaxUpload int64 = 64 << 20

// Config wires the server to its collaborators.
type Config struct {
	MaxUploadBytes int64
	Workers        int
	Options        unpack.Options
	Unpacker       unpack.Unpacker
	// OutDir is used by extraction batches that do not name one.
	OutDir string
	Log    logger.Logger
}

type Server struct {
	store *BatchStore
	cfg   Config
}

func NewServer(store *BatchStore, cfg Config) *Server {
	if store == nil {
		store = NewBatchStore()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUpload
	}
	if cfg.Log == nil {
		cfg.Log = logger.Discard()
	}
	return &Server{store: store, cfg: cfg}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/classify", s.handleClassify)

	e.POST("/v1/batches", s.handleCreateBatch)
	e.GET("/v1/batches/:id", s.handleGetBatch)
	e.GET("/v1/batches/:id/report", s.handleBatchReport)
	e.DELETE("/v1/batches/:id", s.handleDeleteBatch)
}

func (s *Server) handleClassify(c *echo.Context) error {
	data, err := readLimited(c.Request().Body, s.cfg.MaxUploadBytes)
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			return writeError(c, http.StatusRequestEntityTooLarge, "invalid_request_error", err.Error())
		}
		return writeBadRequest(c, err.Error())
	}

	f, err := pdb.Parse(data)
	if err != nil {
		return writeClassifyError(c, err)
	}
	cls, err := mobi.Classify(f)
	if err != nil {
		return writeClassifyError(c, err)
	}

	s.cfg.Log.Debug("classified upload", "size", len(data), "kind", cls.Kind,
		"kf8", cls.StandaloneKF8, "combo", cls.Combo, "encrypted", cls.Encrypted)

	return c.JSON(http.StatusOK, ClassifyResponse{
		Object:         "classification",
		Size:           len(data),
		Sections:       f.NumSections(),
		Title:          mobi.Title(f, cls),
		Classification: cls,
		Operations:     cls.Operations(),
	})
}

func (s *Server) handleCreateBatch(c *echo.Context) error {
	req, err := decodeJSON[CreateBatchRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	job, target, err := s.batchJob(req)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	workers := req.Workers
	if workers <= 0 {
		workers = s.cfg.Workers
	}
	b := batch.New(c.Request().Context(), target, req.Paths, workers, job)
	s.store.Put(b)
	s.cfg.Log.Info("batch finished", "id", b.ID, "books", len(b.Results), "ok", b.Count(batch.Success))

	return c.JSON(http.StatusOK, batchResponse(b))
}

func (s *Server) batchJob(req CreateBatchRequest) (batch.Job, *mobi.Target, error) {
	if len(req.Paths) == 0 {
		return nil, nil, newInvalidRequest("paths must not be empty")
	}
	for _, p := range req.Paths {
		if !filepath.IsAbs(p) {
			return nil, nil, newInvalidRequest(fmt.Sprintf("path %q must be absolute", p))
		}
	}
	if strings.TrimSpace(req.Target) == "" {
		return batch.Classify, nil, nil
	}

	target, err := mobi.ParseTarget(req.Target)
	if err != nil {
		return nil, nil, newInvalidRequest(err.Error())
	}
	if s.cfg.Unpacker == nil {
		return nil, nil, newInvalidRequest("no unpack engine configured")
	}
	outDir := req.OutDir
	if outDir == "" {
		outDir = s.cfg.OutDir
	}
	if outDir == "" {
		return nil, nil, newInvalidRequest("out_dir is required")
	}
	ex := &batch.Extractor{
		Target:   target,
		OutDir:   outDir,
		Opts:     s.cfg.Options,
		Unpacker: s.cfg.Unpacker,
		Log:      s.cfg.Log,
	}
	return ex.Job, &target, nil
}

func batchResponse(b *batch.Batch) BatchResponse {
	return BatchResponse{Object: "batch", Summary: b.Summary(), Batch: b}
}

func (s *Server) handleGetBatch(c *echo.Context) error {
	b, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "batch not found")
	}
	return c.JSON(http.StatusOK, batchResponse(b))
}

func (s *Server) handleBatchReport(c *echo.Context) error {
	b, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "batch not found")
	}
	var sb strings.Builder
	if err := b.RenderHTML(&sb); err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
	return c.HTML(http.StatusOK, sb.String())
}

func (s *Server) handleDeleteBatch(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, "batch not found")
	}
	return c.JSON(http.StatusOK, DeleteBatchResponse{ID: id, Object: "batch", Deleted: true})
}
