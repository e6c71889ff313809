// Package extract turns uploaded bytes into machine-usable text. PDF files
// go through the document text layer, images through OCR plus an optional
// vision description. Both backends work on file paths, so extraction runs
// inside a scoped temp file.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dslipak/pdf"
	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"

	"github.com/nexuschat/nexuschat/internal/ai"
	"github.com/nexuschat/nexuschat/internal/domain"
)

// DefaultVisionInstruction is used when the caller supplies no instruction.
const DefaultVisionInstruction = "Describe what you see in this image"

// Result is the outcome of a text extraction attempt. A failed extraction
// carries OK=false and its diagnostic instead of an error: a degraded
// extraction never fails the upload.
type Result struct {
	Text       string
	OK         bool
	Diagnostic string
}

// VisionResult is the outcome of a visual-description call. On failure the
// diagnostic is embedded in Description so it stays visible in the payload.
type VisionResult struct {
	Description string
	Succeeded   bool
}

// Service extracts text and visual descriptions from uploaded files.
type Service struct {
	gen    ai.Generator
	logger *zap.Logger
}

// NewService creates an extraction service. gen may be nil, in which case
// vision calls report failure.
func NewService(gen ai.Generator, logger *zap.Logger) *Service {
	return &Service{gen: gen, logger: logger}
}

// ExtractText extracts plain text from data according to the item's kind.
// Kinds without an extraction backend yield an empty successful result.
func (s *Service) ExtractText(ctx context.Context, data []byte, kind domain.ItemKind, filename string) Result {
	switch kind {
	case domain.KindPDF:
		return s.extractPDF(data)
	case domain.KindImage:
		return s.extractImageText(data, filename)
	default:
		return Result{OK: true}
	}
}

func (s *Service) extractPDF(data []byte) (res Result) {
	err := WithTempFile(s.logger, "upload-*.pdf", data, func(path string) error {
		// The pdf package panics on some malformed inputs.
		defer func() {
			if r := recover(); r != nil {
				res = Result{Diagnostic: fmt.Sprintf("pdf parse panic: %v", r)}
			}
		}()

		reader, err := pdf.Open(path)
		if err != nil {
			res = Result{Diagnostic: err.Error()}
			return nil
		}

		var sb strings.Builder
		for i := 1; i <= reader.NumPage(); i++ {
			page := reader.Page(i)
			if page.V.IsNull() {
				continue
			}
			text, err := page.GetPlainText(nil)
			if err != nil {
				res = Result{Diagnostic: err.Error()}
				return nil
			}
			sb.WriteString(text)
		}

		res = Result{Text: strings.TrimSpace(sb.String()), OK: true}
		return nil
	})
	if err != nil {
		return Result{Diagnostic: err.Error()}
	}
	return res
}

func (s *Service) extractImageText(data []byte, filename string) (res Result) {
	pattern := "upload-*" + strings.ToLower(filepath.Ext(filename))
	err := WithTempFile(s.logger, pattern, data, func(path string) error {
		client := gosseract.NewClient()
		defer client.Close()

		if err := client.SetImage(path); err != nil {
			res = Result{Diagnostic: err.Error()}
			return nil
		}
		text, err := client.Text()
		if err != nil {
			res = Result{Diagnostic: err.Error()}
			return nil
		}

		res = Result{Text: strings.TrimSpace(text), OK: true}
		return nil
	})
	if err != nil {
		return Result{Diagnostic: err.Error()}
	}
	return res
}

// Describe asks the vision model for a natural-language description of an
// image. Transport or model failure is reported in the result, never as an
// error: a vision failure does not fail the upload that triggered it.
func (s *Service) Describe(ctx context.Context, data []byte, filename, instruction string) VisionResult {
	if instruction == "" {
		instruction = DefaultVisionInstruction
	}

	if s.gen == nil {
		return VisionResult{
			Description: "Unable to analyze the image visually. Error: vision model not configured",
		}
	}

	description, err := s.gen.GenerateVision(ctx, instruction, imageFormat(filename), data)
	if err != nil {
		s.logger.Warn("vision analysis failed", zap.String("filename", filename), zap.Error(err))
		return VisionResult{
			Description: fmt.Sprintf("Unable to analyze the image visually. Error: %v", err),
		}
	}

	return VisionResult{Description: description, Succeeded: true}
}

// imageFormat maps a filename to the image format label the SDK expects.
func imageFormat(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "jpg" {
		return "jpeg"
	}
	return ext
}
