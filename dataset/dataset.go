// Package dataset decodes song/link datasets from JSON, YAML and TOML into
// graph.RawData, from files, streams or remote URLs.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/teranos/songnet/errors"
	"github.com/teranos/songnet/graph"
	grapherror "github.com/teranos/songnet/graph/error"
	"github.com/teranos/songnet/internal/httpclient"
	"github.com/teranos/songnet/internal/util"
	"github.com/teranos/songnet/logger"
	"gopkg.in/yaml.v3"
)

// Format names a dataset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// MaxRemoteSize caps how much of a remote dataset is read.
const MaxRemoteSize = 32 << 20

// ParseFormat accepts a format name or a file extension with or without the dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", grapherror.Newf(grapherror.CategoryData,
		"Unsupported dataset format",
		"unsupported dataset format %q", s).
		WithSubcategory(grapherror.SubcategoryDataFormat).
		WithContext("format", s)
}

// FormatFromPath picks the format from a path or URL extension.
func FormatFromPath(p string) (Format, error) {
	ext := filepath.Ext(p)
	if IsRemote(p) {
		ext = path.Ext(strings.SplitN(strings.SplitN(p, "?", 2)[0], "#", 2)[0])
	}
	if ext == "" {
		return "", grapherror.Newf(grapherror.CategoryData,
			"Dataset file needs a .json, .yaml or .toml extension",
			"cannot infer dataset format of %s", p).
			WithSubcategory(grapherror.SubcategoryDataFormat).
			WithContext(logger.FieldPath, p)
	}
	return ParseFormat(ext)
}

// IsRemote reports whether src is an http(s) URL rather than a file path.
func IsRemote(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Parse decodes a dataset from r.
func Parse(r io.Reader, format Format) (graph.RawData, error) {
	var raw graph.RawData

	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&raw)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&raw)
		if err == io.EOF {
			err = nil
		}
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&raw)
	default:
		_, err = ParseFormat(string(format))
		return raw, err
	}

	if err != nil {
		return graph.RawData{}, grapherror.New(grapherror.CategoryData,
			errors.Wrapf(err, "failed to decode %s dataset", format),
			"Dataset could not be decoded").
			WithSubcategory(grapherror.SubcategoryDataDecode).
			WithContext("format", string(format))
	}
	return raw, nil
}

// Load reads and decodes the dataset file at p.
func Load(p string) (graph.RawData, error) {
	format, err := FormatFromPath(p)
	if err != nil {
		return graph.RawData{}, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return graph.RawData{}, grapherror.New(grapherror.CategoryData,
			errors.Wrapf(err, "failed to read dataset %s", p),
			"Dataset file could not be read").
			WithSubcategory(grapherror.SubcategoryDataRead).
			WithContext(logger.FieldPath, p)
	}

	raw, err := Parse(bytes.NewReader(data), format)
	if err != nil {
		return graph.RawData{}, err
	}

	logger.ComponentLogger("dataset").Debugw("Dataset loaded",
		logger.FieldPath, p,
		logger.FieldNodes, len(raw.Nodes),
		logger.FieldLinks, len(raw.Links))
	return raw, nil
}

// Fetch downloads and decodes a remote dataset through an SSRF-guarded client.
func Fetch(ctx context.Context, client *httpclient.SaferClient, url string) (graph.RawData, error) {
	format, err := FormatFromPath(url)
	if err != nil {
		return graph.RawData{}, err
	}

	readErr := func(err error) error {
		return grapherror.New(grapherror.CategoryData, err, "Remote dataset could not be fetched").
			WithSubcategory(grapherror.SubcategoryDataRead).
			WithContext(logger.FieldPath, url)
	}

	resp, err := client.Get(ctx, url)
	if err != nil {
		return graph.RawData{}, readErr(errors.Wrapf(err, "failed to fetch %s", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return graph.RawData{}, readErr(errors.Newf("fetch %s: unexpected status %s", url, resp.Status))
	}

	raw, err := Parse(io.LimitReader(resp.Body, MaxRemoteSize), format)
	if err != nil {
		return graph.RawData{}, err
	}

	logger.ComponentLogger("dataset").Debugw("Dataset fetched",
		logger.FieldPath, url,
		logger.FieldNodes, len(raw.Nodes),
		logger.FieldLinks, len(raw.Links))
	return raw, nil
}

// MaxRedirects bounds redirects followed for a remote dataset
const MaxRedirects = 5

// Open loads src from disk, or fetches it when it is an http(s) URL.
func Open(ctx context.Context, src string) (graph.RawData, error) {
	if IsRemote(src) {
		client := httpclient.NewWithOptions(httpclient.DefaultTimeout, httpclient.Options{
			MaxRedirects: util.Ptr(MaxRedirects),
		})
		return Fetch(ctx, client, src)
	}
	return Load(src)
}
