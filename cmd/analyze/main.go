package main

// Run the analysis pipeline against a local file:
//   go run ./cmd/analyze -file ./lease.pdf
//   go run ./cmd/analyze -file ./lease.txt -question "What is the notice period?"

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"legal-docs-backend/internal/analyses"
	"legal-docs-backend/internal/chats"
	"legal-docs-backend/internal/documents"
	"legal-docs-backend/internal/extract"
	"legal-docs-backend/internal/llm/gemini"
	"legal-docs-backend/internal/shared/config"
	"legal-docs-backend/internal/shared/telemetry"
	localstore "legal-docs-backend/internal/shared/storage/object/local"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.Options{Level: "warn"})

	filePath := flag.String("file", "", "Path to the document (pdf, docx or txt)")
	question := flag.String("question", "", "Ask a question instead of running the full analysis")
	outPath := flag.String("out", "", "Path to write JSON output (optional)")
	model := flag.String("model", cfg.GeminiModel, "Gemini model")
	flag.Parse()

	if strings.TrimSpace(*filePath) == "" {
		exitErr("file path is required")
	}
	abs, err := filepath.Abs(*filePath)
	if err != nil {
		exitErr(fmt.Sprintf("resolve path: %v", err))
	}

	mimeType, err := mimeFromExt(abs)
	if err != nil {
		exitErr(err.Error())
	}

	ctx := context.Background()
	store := localstore.New(filepath.Dir(abs))
	docs := documents.NewMemoryRepo()
	doc := documents.Document{
		ID:             "local",
		FileName:       filepath.Base(abs),
		FilePath:       filepath.Base(abs),
		MimeType:       mimeType,
		AnalysisStatus: documents.StatusPending,
	}
	if err := docs.Create(ctx, doc); err != nil {
		exitErr(fmt.Sprintf("register document: %v", err))
	}

	svc := &analyses.Service{
		Docs:      docs,
		Chats:     chats.NewMemoryRepo(),
		Extractor: extract.New(store, nil),
		LLM: gemini.NewClient(gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			Endpoint:    cfg.GeminiEndpoint,
			Model:       *model,
			MaxAttempts: cfg.LLMMaxAttempts,
			Timeout:     cfg.LLMTimeout,
			BaseDelay:   cfg.LLMRetryBase,
		}),
	}

	var out any
	if strings.TrimSpace(*question) != "" {
		out, err = svc.Ask(ctx, analyses.AskInput{DocumentID: doc.ID, Question: *question})
	} else {
		out, err = svc.Analyze(ctx, doc.ID)
	}
	if err != nil {
		exitErr(fmt.Sprintf("pipeline: %v", err))
	}

	raw, err := json.Marshal(out)
	if err != nil {
		exitErr(fmt.Sprintf("encode json: %v", err))
	}
	pretty, err := prettyJSON(raw)
	if err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, pretty, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}

	if _, err := os.Stdout.Write(pretty); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
	if len(pretty) == 0 || pretty[len(pretty)-1] != '\n' {
		_, _ = os.Stdout.Write([]byte("\n"))
	}
}

func mimeFromExt(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return documents.MimePDF, nil
	case ".docx":
		return documents.MimeDOCX, nil
	case ".txt":
		return documents.MimeText, nil
	default:
		return "", fmt.Errorf("unsupported document type: %s", filepath.Ext(path))
	}
}

func prettyJSON(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
