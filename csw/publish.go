package csw

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Publisher inserts records and logs the identifiers of those the catalog
// accepted.
type Publisher struct {
	Client *Client
	IDs    *IDLog
}

// Publish inserts doc and records id, if the insert succeeded.
func (p *Publisher) Publish(ctx context.Context, id string, doc []byte) error {
	summary, err := p.Client.Insert(ctx, doc)
	if err != nil {
		return errors.Wrapf(err, "publish %s", id)
	}
	log.WithFields(log.Fields{
		"record":   id,
		"inserted": summary.Inserted,
	}).Debug("csw: published")
	if p.IDs == nil {
		return nil
	}
	return p.IDs.Append(id)
}
