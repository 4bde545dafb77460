// Package csw publishes ISO 19139 records to a catalog service (CSW 2.0.2
// transactions, as served by GeoNetwork) and keeps track of published
// identifiers.
package csw

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/miku/isokit/feeds"
	"github.com/miku/isokit/tree"
)

const (
	nsCSW   = "http://www.opengis.net/cat/csw/2.0.2"
	nsOGC   = "http://www.opengis.net/ogc"
	nsAPISO = "http://www.opengis.net/cat/csw/apiso/1.0"

	publicationPath = "/geonetwork/srv/eng/csw-publication"
)

// StatusError is returned when the catalog does not answer with HTTP 200.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("csw: HTTP %d: %s", e.StatusCode, e.Body)
}

// ExceptionError is an OWS exception report returned by the catalog.
type ExceptionError struct {
	Code string
	Text string
}

func (e *ExceptionError) Error() string {
	return fmt.Sprintf("csw: exception %s: %s", e.Code, e.Text)
}

// Summary counts the records affected by a transaction.
type Summary struct {
	Inserted int
	Updated  int
	Deleted  int
}

// Client talks to the publication endpoint of a catalog.
type Client struct {
	Client   feeds.Doer
	BaseURL  string
	Username string
	Password string
}

// Insert publishes a single ISO 19139 document.
func (c *Client) Insert(ctx context.Context, doc []byte) (*Summary, error) {
	body, err := InsertTransaction(doc)
	if err != nil {
		return nil, err
	}
	return c.post(ctx, "INSERT", body)
}

// Delete removes the record with the given file identifier.
func (c *Client) Delete(ctx context.Context, id string) (*Summary, error) {
	body, err := DeleteTransaction(id)
	if err != nil {
		return nil, err
	}
	return c.post(ctx, "DELETE", body)
}

func (c *Client) post(ctx context.Context, request string, body []byte) (*Summary, error) {
	link := fmt.Sprintf("%s%s?SERVICE=CSW&VERSION=2.0.2&REQUEST=%s",
		strings.TrimRight(c.BaseURL, "/"), publicationPath, request)
	req, err := http.NewRequestWithContext(ctx, "POST", link, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml")
	req.Header.Set("User-Agent", feeds.UserAgent)
	if c.Username != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "csw: %s", strings.ToLower(request))
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	return ParseResponse(b)
}

// newTransaction returns a transaction envelope and its operation element.
func newTransaction(operation string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", tree.Declaration)
	t := doc.CreateElement("csw:Transaction")
	t.CreateAttr("xmlns:csw", nsCSW)
	t.CreateAttr("service", "CSW")
	t.CreateAttr("version", "2.0.2")
	t.CreateAttr("requestId", "urn:uuid:"+uuid.New().String())
	return doc, t.CreateElement("csw:" + operation)
}

// InsertTransaction wraps an ISO document into a transaction insert.
func InsertTransaction(doc []byte) ([]byte, error) {
	t, err := tree.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}
	envelope, insert := newTransaction("Insert")
	insert.AddChild(t.Root().Copy())
	envelope.Indent(2)
	return envelope.WriteToBytes()
}

// DeleteTransaction returns a transaction deleting the record whose
// identifier equals id.
func DeleteTransaction(id string) ([]byte, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("csw: empty identifier")
	}
	envelope, del := newTransaction("Delete")
	root := envelope.Root()
	root.CreateAttr("xmlns:ogc", nsOGC)
	root.CreateAttr("xmlns:apiso", nsAPISO)
	del.CreateAttr("typeName", "csw:Record")
	constraint := del.CreateElement("csw:Constraint")
	constraint.CreateAttr("version", "1.0.0")
	eq := constraint.CreateElement("ogc:Filter").CreateElement("ogc:PropertyIsEqualTo")
	eq.CreateElement("ogc:PropertyName").SetText("apiso:Identifier")
	eq.CreateElement("ogc:Literal").SetText(id)
	envelope.Indent(2)
	return envelope.WriteToBytes()
}

// ParseResponse reads a transaction response. Exception reports are returned
// as *ExceptionError.
func ParseResponse(b []byte) (*Summary, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(b); err != nil {
		return nil, errors.Wrap(err, "csw: response")
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("csw: empty response")
	}
	if root.Tag == "ExceptionReport" {
		e := &ExceptionError{}
		if ex := root.FindElement(".//Exception"); ex != nil {
			e.Code = ex.SelectAttrValue("exceptionCode", "")
		}
		if text := root.FindElement(".//ExceptionText"); text != nil {
			e.Text = strings.TrimSpace(text.Text())
		}
		return nil, e
	}
	var s Summary
	if ts := root.FindElement(".//TransactionSummary"); ts != nil {
		s.Inserted = count(ts, "totalInserted")
		s.Updated = count(ts, "totalUpdated")
		s.Deleted = count(ts, "totalDeleted")
	}
	return &s, nil
}

func count(el *etree.Element, tag string) int {
	child := el.SelectElement(tag)
	if child == nil {
		return 0
	}
	n, _ := strconv.Atoi(strings.TrimSpace(child.Text()))
	return n
}
