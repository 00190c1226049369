package converter

import (
	"bytes"
	"errors"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/cheggaaa/pb/v3"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/cvrf2csaf/utils"
)

// ConvertDir converts every CVRF file directly inside dir and writes one
// JSON document per input. Failing inputs do not stop the batch; their
// errors are returned together once all files were processed.
func (c *Config) ConvertDir(dir string) (int, error) {
	entries, err := afero.ReadDir(c.fs, dir)
	if err != nil {
		return 0, xerrors.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !isCVRFFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	c.logger.Info("Converting CVRF files", zap.String("dir", dir), zap.Int("files", len(files)))

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		errs    []error
		written int
	)
	bar := pb.StartNew(len(files))
	tasks := utils.GenWorkers(c.concurrency, 0)
	for _, file := range files {
		wg.Add(1)
		tasks <- func() {
			defer wg.Done()
			defer bar.Increment()

			err := c.convertAndWrite(file)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			written++
		}
	}
	close(tasks)
	wg.Wait()
	bar.Finish()

	return written, errors.Join(errs...)
}

func (c *Config) convertAndWrite(file string) error {
	doc, err := c.ConvertFile(file)
	if err != nil {
		c.logger.Error("Conversion failed", zap.String("file", file), zap.Error(err))
		return err
	}
	return c.WriteDocument(OutputName(file), doc)
}

// ConvertIndex reads an HTML directory listing (like
// http://ftp.suse.com/pub/projects/security/cvrf/), fetches every linked
// CVRF document and converts it.
func (c *Config) ConvertIndex(indexURL string) (int, error) {
	base, err := url.Parse(indexURL)
	if err != nil {
		return 0, xerrors.Errorf("invalid index URL: %w", err)
	}

	b, err := utils.FetchURL(indexURL, "", c.retry)
	if err != nil {
		return 0, xerrors.Errorf("failed to fetch CVRF index: %w", err)
	}

	links, err := cvrfLinks(base, b)
	if err != nil {
		return 0, xerrors.Errorf("failed to parse CVRF index: %w", err)
	}
	c.logger.Info("Fetching CVRF documents", zap.String("index", indexURL), zap.Int("documents", len(links)))

	responses, fetchErr := utils.FetchConcurrently(links, c.concurrency, 0, c.retry)

	var errs []error
	if fetchErr != nil {
		errs = append(errs, xerrors.Errorf("failed to fetch CVRF documents: %w", fetchErr))
	}

	var written int
	for _, res := range responses {
		doc, err := c.convert(res.Body)
		if err != nil {
			c.logger.Error("Conversion failed", zap.String("url", res.URL), zap.Error(err))
			errs = append(errs, xerrors.Errorf("%s: %w", res.URL, err))
			continue
		}
		if err = c.WriteDocument(OutputName(res.URL), doc); err != nil {
			errs = append(errs, err)
			continue
		}
		written++
	}
	return written, errors.Join(errs...)
}

// cvrfLinks returns the absolute, de-duplicated URLs of all anchors pointing
// at CVRF files, sorted.
func cvrfLinks(base *url.URL, page []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil || !isCVRFFile(ref.Path) {
			return
		}
		seen[base.ResolveReference(ref).String()] = struct{}{}
	})

	links := lo.Keys(seen)
	sort.Strings(links)
	return links, nil
}
