// Package storage uploads project attachments to a Supabase storage bucket
// over its REST API. When the bucket is unreachable or unconfigured, files
// fall back to an inline data URL so uploads never fail outright.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const uploadTimeout = 30 * time.Second

// Config captures the Supabase storage settings. Empty URL or AnonKey means
// the store runs in fallback-only mode.
type Config struct {
	URL     string
	AnonKey string
	Bucket  string
}

type SupabaseStore struct {
	cfg    Config
	client *http.Client
	log    zerolog.Logger
}

func NewSupabaseStore(cfg Config, log zerolog.Logger) *SupabaseStore {
	return &SupabaseStore{
		cfg:    cfg,
		client: &http.Client{Timeout: uploadTimeout},
		log:    log,
	}
}

// Store uploads the file and returns its public URL. On any failure it
// returns an inline data URL instead; the error return exists to satisfy the
// interface and is always nil.
func (s *SupabaseStore) Store(ctx context.Context, content []byte, filename, contentType string) (string, error) {
	if s.cfg.URL == "" || s.cfg.AnonKey == "" {
		return dataURL(content, contentType), nil
	}

	objectPath := fmt.Sprintf("%s/%s", uuid.NewString(), sanitize(filename))
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s",
		strings.TrimRight(s.cfg.URL, "/"), s.cfg.Bucket, objectPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(content))
	if err != nil {
		return dataURL(content, contentType), nil
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.AnonKey)
	req.Header.Set("apikey", s.cfg.AnonKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn().Err(err).Str("filename", filename).Msg("supabase upload failed, using inline fallback")
		return dataURL(content, contentType), nil
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.Warn().Int("status", resp.StatusCode).Str("filename", filename).
			Msg("supabase upload rejected, using inline fallback")
		return dataURL(content, contentType), nil
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		strings.TrimRight(s.cfg.URL, "/"), s.cfg.Bucket, objectPath), nil
}

func dataURL(content []byte, contentType string) string {
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(content))
}

// sanitize strips path separators and spaces so the object path stays flat.
func sanitize(filename string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", " ", "_")
	return r.Replace(filename)
}
