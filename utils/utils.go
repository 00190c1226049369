package utils

import (
	"crypto/rand"
	"fmt"
	"log"
	"math"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/parnurzeal/gorequest"
	"golang.org/x/xerrors"
)

func CacheDir() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	dir := filepath.Join(cacheDir, "cvrf2csaf")
	return dir
}

// OutputDir is the default directory for converted CSAF documents.
func OutputDir() string {
	return filepath.Join(CacheDir(), "csaf")
}

// GenWorkers generate workers
func GenWorkers(num, wait int) chan<- func() {
	tasks := make(chan func())
	for i := 0; i < num; i++ {
		go func() {
			for f := range tasks {
				f()
				time.Sleep(time.Duration(wait) * time.Second)
			}
		}()
	}
	return tasks
}

// FetchURL returns HTTP response body with retry
func FetchURL(url, apikey string, retry int) (res []byte, err error) {
	for i := 0; i <= retry; i++ {
		if i > 0 {
			wait := math.Pow(float64(i), 2) + float64(randInt()%10)
			log.Printf("retry after %f seconds\n", wait)
			time.Sleep(time.Duration(time.Duration(wait) * time.Second))
		}
		res, err = fetchURL(url, apikey)
		if err == nil {
			return res, nil
		}
	}
	return nil, xerrors.Errorf("failed to fetch URL: %w", err)
}

func randInt() int {
	seed, _ := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	return int(seed.Int64())
}

func fetchURL(url, apikey string) ([]byte, error) {
	req := gorequest.New().Get(url)
	if apikey != "" {
		req.Header.Add("api-key", apikey)
	}
	resp, body, errs := req.Type("text").EndBytes()
	if len(errs) > 0 {
		return nil, xerrors.Errorf("HTTP error. url: %s, err: %w", url, errs[0])
	}
	if resp.StatusCode != 200 {
		return nil, xerrors.Errorf("HTTP error. status code: %d, url: %s", resp.StatusCode, url)
	}
	return body, nil
}

// Response is a fetched body keyed by its URL.
type Response struct {
	URL  string
	Body []byte
}

// FetchConcurrently fetches urls with a pool of workers. Responses come back
// in completion order; failed URLs are reported together in the error.
func FetchConcurrently(urls []string, concurrency, wait, retry int) (responses []Response, err error) {
	resChan := make(chan Response, len(urls))
	errChan := make(chan error, len(urls))

	bar := pb.StartNew(len(urls))
	tasks := GenWorkers(concurrency, wait)
	for _, url := range urls {
		tasks <- func() {
			res, err := FetchURL(url, "", retry)
			if err != nil {
				errChan <- xerrors.Errorf("%s: %w", url, err)
				return
			}
			resChan <- Response{URL: url, Body: res}
		}
		bar.Increment()
	}
	close(tasks)
	bar.Finish()

	var errs []error
	timeout := time.After(10 * 60 * time.Second)
	for range urls {
		select {
		case res := <-resChan:
			responses = append(responses, res)
		case err := <-errChan:
			errs = append(errs, err)
		case <-timeout:
			return nil, xerrors.New("Timeout Fetching URL")
		}
	}
	if 0 < len(errs) {
		return responses, fmt.Errorf("%s", errs)
	}
	return responses, nil
}

func LookupEnv(key, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultValue
}
