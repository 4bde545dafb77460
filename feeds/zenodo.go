package feeds

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"

	"github.com/miku/isokit/schema/zenodo"
)

// DefaultZenodoURL is the public Zenodo instance.
const DefaultZenodoURL = "https://zenodo.org"

// ZenodoFetcher retrieves published Zenodo records.
type ZenodoFetcher struct {
	Client  Doer
	BaseURL string
}

// Fetch returns the record with the given identifier, e.g. "1234567".
func (f *ZenodoFetcher) Fetch(ctx context.Context, id string) (*zenodo.Record, error) {
	link := fmt.Sprintf("%s/api/records/%s", strings.TrimRight(f.BaseURL, "/"), url.PathEscape(id))
	body, err := get(ctx, f.Client, link)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	var record zenodo.Record
	if err := json.NewDecoder(body).Decode(&record); err != nil {
		return nil, errors.Wrapf(err, "decode %s", link)
	}
	return &record, nil
}
