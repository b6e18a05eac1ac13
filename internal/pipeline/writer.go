package pipeline

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gokatarajesh/quizbank/internal/question"
)

// Marshal encodes qs as an indented JSON array with a trailing newline.
func Marshal(qs []question.Question) ([]byte, error) {
	if qs == nil {
		qs = []question.Question{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(qs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Checksum is the hex SHA-256 of the serialized collection.
func Checksum(qs []question.Question) (string, error) {
	data, err := Marshal(qs)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// WriteJSON replaces path with the serialized collection. The file is written
// next to its destination and renamed into place.
func WriteJSON(path string, qs []question.Question) error {
	data, err := Marshal(qs)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".questions-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
