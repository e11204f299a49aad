// Package catalog resolves the dataset file URLs from the public data
// portal's index page, for deployments that do not pin them in config.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
)

// Files are the two columnar exports the engine session registers.
type Files struct {
	MasterURL  string
	StagingURL string
}

type Service struct {
	client *http.Client
}

func NewService() *Service {
	return &Service{client: http.DefaultClient}
}

// Resolve fetches the portal index page and extracts the master and staging
// dataset links. Both must be present.
func (svc *Service) Resolve(ctx context.Context, portalURL string) (*Files, error) {
	var resp *http.Response
	err := backoff.Retry(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, portalURL, nil)
			if reqErr != nil {
				return backoff.Permanent(reqErr)
			}

			var httpErr error
			resp, httpErr = svc.client.Do(req)
			if httpErr != nil {
				return fmt.Errorf("http.Get: %w", httpErr)
			}
			if resp.StatusCode != http.StatusOK {
				resp.Body.Close()
				return fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
			}

			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(200*time.Millisecond), 5),
			ctx,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("fetch portal index: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	base, err := url.Parse(portalURL)
	if err != nil {
		return nil, fmt.Errorf("parse portal url: %w", err)
	}

	files := new(Files)
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok || !strings.HasSuffix(href, ".csv") {
			return true
		}

		ref, parseErr := url.Parse(href)
		if parseErr != nil {
			return true
		}
		abs := base.ResolveReference(ref).String()

		name := href[strings.LastIndex(href, "/")+1:]
		switch {
		case strings.Contains(name, "maestro"):
			files.MasterURL = abs
		case strings.Contains(name, "declaraciones"):
			files.StagingURL = abs
		}

		return files.MasterURL == "" || files.StagingURL == ""
	})

	if files.MasterURL == "" || files.StagingURL == "" {
		return nil, fmt.Errorf("portal index lists no usable dataset files")
	}

	return files, nil
}
