// Package converter drives the CVRF to CSAF conversion of whole documents:
// it locates the supported CVRF sections, runs their handlers and stores
// the resulting CSAF JSON.
package converter

import (
	"bytes"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/cvrf2csaf/cvrf"
	"github.com/aquasecurity/cvrf2csaf/producttree"
	"github.com/aquasecurity/cvrf2csaf/section"
	"github.com/aquasecurity/cvrf2csaf/utils"
)

const (
	rootElement = "cvrfdoc"
	retry       = 5
	concurrency = 10
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// sectionHandler binds a CVRF section element to the CSAF key it produces.
type sectionHandler struct {
	element string
	key     string
	handler section.Handler
}

type Option func(*Config)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) { c.logger = logger }
}

func WithFs(fs afero.Fs) Option {
	return func(c *Config) { c.fs = fs }
}

func WithOutputDir(dir string) Option {
	return func(c *Config) { c.outputDir = dir }
}

func WithRetry(retry int) Option {
	return func(c *Config) { c.retry = retry }
}

func WithConcurrency(n int) Option {
	return func(c *Config) { c.concurrency = n }
}

type Config struct {
	logger      *zap.Logger
	fs          afero.Fs
	outputDir   string
	retry       int
	concurrency int
	sections    []sectionHandler
}

func NewConfig(opts ...Option) *Config {
	c := Config{
		logger:      zap.NewNop(),
		fs:          afero.NewOsFs(),
		outputDir:   utils.OutputDir(),
		retry:       retry,
		concurrency: concurrency,
	}
	for _, o := range opts {
		o(&c)
	}
	if c.concurrency < 1 {
		c.concurrency = 1
	}
	c.sections = []sectionHandler{
		{
			element: producttree.SectionName,
			key:     "product_tree",
			handler: producttree.NewHandler(producttree.WithLogger(c.logger)),
		},
	}
	return &c
}

// Convert reads one CVRF document, optionally zstd compressed, and returns
// the CSAF document built from its supported sections.
func (c *Config) Convert(r io.Reader) (section.Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, xerrors.Errorf("failed to read CVRF document: %w", err)
	}
	return c.convert(b)
}

func (c *Config) convert(b []byte) (section.Document, error) {
	if bytes.HasPrefix(b, zstdMagic) {
		var err error
		if b, err = decompress(b); err != nil {
			return nil, xerrors.Errorf("failed to decompress CVRF document: %w", err)
		}
	}
	if len(b) == 0 {
		return nil, xerrors.New("empty CVRF document")
	}
	if !utf8.Valid(b) {
		c.logger.Warn("invalid UTF-8 in CVRF document, dropping invalid bytes")
		b = []byte(strings.ToValidUTF8(string(b), ""))
	}

	root, err := cvrf.Parse(bytes.NewReader(b))
	if err != nil {
		return nil, xerrors.Errorf("failed to decode CVRF XML: %w", err)
	}
	return c.convertElement(root)
}

func (c *Config) convertElement(root *cvrf.Element) (section.Document, error) {
	doc := section.Document{}
	for _, s := range c.sections {
		el, ok := findSection(root, s.element)
		sectionDoc := section.Document{}
		if ok {
			if err := s.handler.Handle(el, sectionDoc); err != nil {
				return nil, xerrors.Errorf("failed to convert %s: %w", s.element, err)
			}
		} else {
			c.logger.Debug("CVRF section not present", zap.String("section", s.element))
		}
		doc[s.key] = sectionDoc
	}
	return doc, nil
}

// findSection accepts either a whole cvrfdoc or a bare section element.
func findSection(root *cvrf.Element, name string) (*cvrf.Element, bool) {
	if root.Name == name {
		return root, true
	}
	if root.Name != rootElement {
		return nil, false
	}
	return root.First(name)
}

func decompress(b []byte) ([]byte, error) {
	d, err := zstd.NewReader(nil)
	if err != nil {
		return nil, xerrors.Errorf("failed to create zstd reader: %w", err)
	}
	defer d.Close()
	return d.DecodeAll(b, nil)
}

// ConvertFile converts a CVRF file stored on the configured filesystem.
func (c *Config) ConvertFile(filePath string) (section.Document, error) {
	b, err := afero.ReadFile(c.fs, filePath)
	if err != nil {
		return nil, xerrors.Errorf("failed to read %s: %w", filePath, err)
	}
	doc, err := c.convert(b)
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", filePath, err)
	}
	return doc, nil
}

// ConvertURL fetches and converts a remote CVRF document.
func (c *Config) ConvertURL(url string) (section.Document, error) {
	b, err := utils.FetchURL(url, "", c.retry)
	if err != nil {
		return nil, xerrors.Errorf("failed to fetch CVRF document: %w", err)
	}
	doc, err := c.convert(b)
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", url, err)
	}
	return doc, nil
}

// WriteDocument stores doc as <output dir>/<fileName>.
func (c *Config) WriteDocument(fileName string, doc section.Document) error {
	if err := utils.NewFs(c.fs).WriteJSON(c.outputDir, fileName, doc); err != nil {
		return xerrors.Errorf("failed to write %s: %w", fileName, err)
	}
	return nil
}

// OutputName derives the JSON file name for a CVRF file name or URL,
// e.g. "cvrf-suse-su-2019-1608-1.xml.zst" -> "cvrf-suse-su-2019-1608-1.json".
func OutputName(input string) string {
	name := path.Base(strings.ReplaceAll(input, "\\", "/"))
	name = strings.TrimSuffix(name, ".zst")
	name = strings.TrimSuffix(name, ".xml")
	return name + ".json"
}

func isCVRFFile(name string) bool {
	return strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".xml.zst")
}
