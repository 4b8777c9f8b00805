package core

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CheckItemCode rejects item codes that would not stay a plain file name
// inside the output directory.
func CheckItemCode(itemCode string) error {
	code := strings.TrimSpace(itemCode)
	if code == "" {
		return &MissingInputError{Field: FieldItem}
	}
	if strings.ContainsAny(code, `/\`) || strings.Contains(code, "..") || filepath.Base(code) != code {
		return fmt.Errorf("%w %q: must not contain path separators or ..", ErrInvalidItemCode, code)
	}
	return nil
}

// TransportFileName returns the file name the ERP playback expects.
func TransportFileName(mode Mode, itemCode string) string {
	if mode == ModeUpdate {
		return "update_" + itemCode + ".csv"
	}
	return "dataload_" + itemCode + ".csv"
}

// EncodeTransport renders tokens as one CSV record per token, each a single
// double-quoted field.
func EncodeTransport(tokens []Token) []byte {
	var buf bytes.Buffer
	for _, t := range tokens {
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(string(t), `"`, `""`))
		buf.WriteString("\"\n")
	}
	return buf.Bytes()
}

// WriteTransport writes the encoded token stream to w in a single write.
func WriteTransport(w io.Writer, tokens []Token) error {
	if _, err := w.Write(EncodeTransport(tokens)); err != nil {
		return fmt.Errorf("write transport: %w", err)
	}
	return nil
}

// WriteTransportFile writes tokens to dir under TransportFileName and returns
// the full path. The stream is written to a temp file and renamed into place,
// so a failure never leaves a partial file behind.
func WriteTransportFile(dir string, mode Mode, itemCode string, tokens []Token) (string, error) {
	if err := CheckItemCode(itemCode); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, TransportFileName(mode, itemCode))

	tmp, err := os.CreateTemp(dir, ".dataload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := WriteTransport(tmp, tokens); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("rename transport file: %w", err)
	}
	return path, nil
}
