package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"
)

// File extensions for supported codecs.
const (
	jsonExtension = ".json"
	yamlExtension = ".yaml"
)

// compressedExtension marks LZ4-compressed report files.
const compressedExtension = ".lz4"

// defaultIndent is the indentation for pretty-printed JSON.
const defaultIndent = "  "

// Codec defines how a report is serialized and deserialized.
type Codec interface {
	// Encode writes the report to the writer.
	Encode(w io.Writer, rep *Report) error
	// Decode reads the report from the reader.
	Decode(r io.Reader, rep *Report) error
	// Extension returns the file extension for this codec.
	Extension() string
}

// JSONCodec implements Codec using JSON encoding with optional indentation.
type JSONCodec struct {
	// Indent specifies the indentation string. Empty string means compact JSON.
	Indent string
}

// NewJSONCodec creates a JSON codec with pretty-printing.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: defaultIndent}
}

// Encode implements Codec.Encode using JSON encoding.
func (c *JSONCodec) Encode(w io.Writer, rep *Report) error {
	encoder := json.NewEncoder(w)
	if c.Indent != "" {
		encoder.SetIndent("", c.Indent)
	}

	err := encoder.Encode(rep)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using JSON decoding.
func (c *JSONCodec) Decode(r io.Reader, rep *Report) error {
	err := json.NewDecoder(r).Decode(rep)
	if err != nil {
		return fmt.Errorf("json decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for JSON files.
func (c *JSONCodec) Extension() string {
	return jsonExtension
}

// YAMLCodec implements Codec using YAML encoding.
type YAMLCodec struct{}

// NewYAMLCodec creates a YAML codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Encode implements Codec.Encode using YAML encoding.
func (c *YAMLCodec) Encode(w io.Writer, rep *Report) error {
	encoder := yaml.NewEncoder(w)

	err := encoder.Encode(rep)
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	closeErr := encoder.Close()
	if closeErr != nil {
		return fmt.Errorf("yaml close: %w", closeErr)
	}

	return nil
}

// Decode implements Codec.Decode using YAML decoding.
func (c *YAMLCodec) Decode(r io.Reader, rep *Report) error {
	err := yaml.NewDecoder(r).Decode(rep)
	if err != nil {
		return fmt.Errorf("yaml decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for YAML files.
func (c *YAMLCodec) Extension() string {
	return yamlExtension
}

// Save writes the report to path with the given codec. When compress is true
// the payload is LZ4 stream-compressed and the compressed extension is
// appended unless the path already carries it.
func Save(path string, codec Codec, rep *Report, compress bool) error {
	if compress && !strings.HasSuffix(path, compressedExtension) {
		path += compressedExtension
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer file.Close()

	var w io.Writer = file

	var zw *lz4.Writer

	if compress {
		zw = lz4.NewWriter(file)
		w = zw
	}

	encodeErr := codec.Encode(w, rep)
	if encodeErr != nil {
		return fmt.Errorf("encode report: %w", encodeErr)
	}

	if zw != nil {
		closeErr := zw.Close()
		if closeErr != nil {
			return fmt.Errorf("flush compressed report: %w", closeErr)
		}
	}

	syncErr := file.Close()
	if syncErr != nil {
		return fmt.Errorf("close report file: %w", syncErr)
	}

	return nil
}

// Load reads a report from path with the given codec. Compression is
// detected from the compressed extension.
func Load(path string, codec Codec) (*Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report file: %w", err)
	}
	defer file.Close()

	var r io.Reader = file

	if strings.HasSuffix(path, compressedExtension) {
		r = lz4.NewReader(file)
	}

	var rep Report

	decodeErr := codec.Decode(r, &rep)
	if decodeErr != nil {
		return nil, fmt.Errorf("decode report: %w", decodeErr)
	}

	return &rep, nil
}
