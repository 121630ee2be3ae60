package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors"

	"github.com/buger/jsonparser"
	"github.com/mcncl/json2csv/internal/errors"
	"github.com/mcncl/json2csv/internal/models"
)

// Parse reads a single JSON document from reader and builds a models.Value
// tree with object keys in document order.
func Parse(reader io.Reader) (models.Value, error) {
	decoder := json.NewDecoder(reader)

	// Decoding into a RawMessage validates the document and isolates it from
	// any trailing input; the tree itself is built by buildValue.
	var raw json.RawMessage
	if err := decoder.Decode(&raw); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		if stderrors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
		}
		return nil, errors.NewParsingError("failed to decode JSON", err)
	}

	// Only whitespace may follow the document. More() reports false for a
	// stray '}' or ']', so the next token is read instead.
	if _, err := decoder.Token(); err == nil {
		return nil, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("unexpected data after JSON value at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		return nil, errors.NewParsingError("invalid trailing data after first JSON value", errors.ErrInvalidJSON)
	}

	value, typ, _, err := jsonparser.Get(raw)
	if err != nil {
		return nil, errors.NewParsingError("failed to read JSON value", err)
	}
	root, err := buildValue(value, typ)
	if err != nil {
		return nil, errors.NewParsingError("failed to build JSON tree", err)
	}
	return root, nil
}

// buildValue converts the raw bytes of one value into the model tree.
// For strings, data is the quoted content without the quotes.
func buildValue(data []byte, typ jsonparser.ValueType) (models.Value, error) {
	switch typ {
	case jsonparser.Object:
		return buildObject(data)
	case jsonparser.Array:
		return buildArray(data)
	case jsonparser.String:
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return nil, err
		}
		return models.String(s), nil
	case jsonparser.Number:
		return models.Number(string(data)), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(data)
		if err != nil {
			return nil, err
		}
		return models.Bool(b), nil
	case jsonparser.Null:
		return models.Null{}, nil
	default:
		return nil, fmt.Errorf("unexpected JSON value type %s", typ)
	}
}

func buildObject(data []byte) (*models.Object, error) {
	obj := models.NewObject()
	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, typ jsonparser.ValueType, _ int) error {
		child, err := buildValue(value, typ)
		if err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		obj.Set(string(key), child)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func buildArray(data []byte) (models.Array, error) {
	arr := models.Array{}
	var buildErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, typ jsonparser.ValueType, _ int, err error) {
		if buildErr != nil {
			return
		}
		if err != nil {
			buildErr = err
			return
		}
		child, err := buildValue(value, typ)
		if err != nil {
			buildErr = fmt.Errorf("index %d: %w", len(arr), err)
			return
		}
		arr = append(arr, child)
	})
	if buildErr != nil {
		return nil, buildErr
	}
	if err != nil {
		return nil, err
	}
	return arr, nil
}

// ParseBytes parses JSON held in memory
func ParseBytes(data []byte) (models.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewInputError("input is empty", errors.ErrEmptyInput)
	}
	return Parse(bytes.NewReader(data))
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Value, error) {
	// An empty reader gives io.EOF to Decode, but a whitespace-only one might not.
	if strings.TrimSpace(jsonString) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}
