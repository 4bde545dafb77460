package feeds

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	log "github.com/sirupsen/logrus"

	"github.com/miku/isokit/atomicfile"
	"github.com/miku/isokit/schema/datacite"
)

// DefaultDataCiteURL is the DataCite REST API.
const DefaultDataCiteURL = "https://api.datacite.org"

// DataCiteFetcher retrieves single DOI records.
type DataCiteFetcher struct {
	Client  Doer
	BaseURL string
}

// Fetch returns the DataCite document for a DOI.
func (f *DataCiteFetcher) Fetch(ctx context.Context, doi string) (*datacite.Document, error) {
	link := fmt.Sprintf("%s/dois/%s", strings.TrimRight(f.BaseURL, "/"), url.PathEscape(doi))
	body, err := get(ctx, f.Client, link)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	var resp datacite.Response
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, errors.Wrapf(err, "decode %s", link)
	}
	return &resp.Data, nil
}

// DataCiteHarvester pages through all DOIs updated within a time window and
// writes them as newline delimited JSON.
type DataCiteHarvester struct {
	Client     Doer
	BaseURL    string
	Prefix     string // optional DOI prefix, e.g. 10.5065
	ClientID   string // optional repository, e.g. ncar.rda
	PageSize   int
	MaxRetries int
}

// listResponse is a page of DOIs, the documents are passed on undecoded.
type listResponse struct {
	Data []json.RawMessage `json:"data"`
	Meta struct {
		Total int64 `json:"total"`
	} `json:"meta"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

// WriteDaySlice writes all DOIs updated on the day of t into a zstd
// compressed file under dir. Does nothing, if the file already exists.
func (h *DataCiteHarvester) WriteDaySlice(ctx context.Context, t time.Time, dir string) (string, error) {
	var (
		start = now.With(t).BeginningOfDay()
		end   = now.With(t).EndOfDay()
		fn    = fmt.Sprintf("datacite-%s.ndjson.zst", start.Format("2006-01-02"))
		dst   = filepath.Join(dir, fn)
	)
	if _, err := os.Stat(dst); err == nil {
		return dst, nil
	}
	f, err := atomicfile.New(dst)
	if err != nil {
		return "", err
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Abort()
		return "", err
	}
	if err := h.WriteSlice(ctx, enc, start, end); err != nil {
		enc.Close()
		f.Abort()
		return "", err
	}
	if err := enc.Close(); err != nil {
		f.Abort()
		return "", err
	}
	return dst, f.Close()
}

func (h *DataCiteHarvester) firstPage(from, until time.Time) string {
	vs := url.Values{}
	vs.Set("query", fmt.Sprintf("updated:[%s TO %s]",
		from.UTC().Format(time.RFC3339), until.UTC().Format(time.RFC3339)))
	if h.Prefix != "" {
		vs.Set("prefix", h.Prefix)
	}
	if h.ClientID != "" {
		vs.Set("client-id", h.ClientID)
	}
	size := h.PageSize
	if size <= 0 {
		size = 100
	}
	vs.Set("page[size]", fmt.Sprintf("%d", size))
	vs.Set("page[cursor]", "1")
	return fmt.Sprintf("%s/dois?%s", strings.TrimRight(h.BaseURL, "/"), vs.Encode())
}

// WriteSlice writes the DOIs updated between from and until to w, one
// document per line.
func (h *DataCiteHarvester) WriteSlice(ctx context.Context, w io.Writer, from, until time.Time) error {
	var (
		link = h.firstPage(from, until)
		seen int64
		i    int // retries
	)
	for link != "" {
		log.WithField("url", link).Debug("datacite: fetching page")
		page, err := h.fetchPage(ctx, link)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) || ctx.Err() != nil || i >= h.MaxRetries {
				return err
			}
			i++
			log.Warnf("datacite: page failed with %v, retrying [%d/%d]", err, i, h.MaxRetries)
			continue
		}
		i = 0
		for _, doc := range page.Data {
			if _, err := w.Write(doc); err != nil {
				return err
			}
			if _, err := w.Write(bNewline); err != nil {
				return err
			}
		}
		seen += int64(len(page.Data))
		log.WithFields(log.Fields{
			"total": page.Meta.Total,
			"seen":  seen,
		}).Info("datacite: harvest progress")
		if len(page.Data) == 0 {
			break
		}
		link = page.Links.Next
	}
	return nil
}

func (h *DataCiteHarvester) fetchPage(ctx context.Context, link string) (*listResponse, error) {
	body, err := get(ctx, h.Client, link)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	var page listResponse
	if err := json.NewDecoder(body).Decode(&page); err != nil {
		return nil, errors.Wrap(err, "datacite: decode failed")
	}
	return &page, nil
}
