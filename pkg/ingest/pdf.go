package ingest

import (
	"bytes"
	"io"

	"synaptiq-be/internal/apperror"

	"github.com/ledongthuc/pdf"
)

// PdfLoader extracts the plain text of a stored PDF file.
type PdfLoader struct{}

func NewPdfLoader() *PdfLoader {
	return &PdfLoader{}
}

func (l *PdfLoader) Load(path string, title string) (*Document, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, apperror.NewParse("failed to open pdf", err)
	}
	defer file.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, apperror.NewParse("failed to extract pdf text", err)
	}

	var buffer bytes.Buffer
	if _, err := io.Copy(&buffer, plain); err != nil {
		return nil, apperror.NewParse("failed to read pdf text", err)
	}

	return &Document{Title: title, Text: buffer.String()}, nil
}
